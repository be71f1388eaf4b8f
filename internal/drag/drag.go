package drag

import (
	"math"

	"github.com/mgpai22/captioner/internal/selection"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// screen-space box, origin at the top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Target is the state a drag writes to. Container reports the box the
// pointer is measured against; ok=false means it is gone and the move is
// dropped. Apply receives the pointer position, less the grab offset,
// relative to that container.
type Target interface {
	Container() (Rect, bool)
	Apply(local Point, container Rect)
}

// Preparer is implemented by targets that need a state change before the
// first move, such as leaving preset positioning.
type Preparer interface {
	Prepare()
}

// Controller runs one pointer gesture at a time: press captures the grab
// offset, each move is applied straight to the target, release ends the
// gesture. There is no cancel; whatever was applied stays.
type Controller struct {
	sel    *selection.State
	target Target
	offset Point
	active bool
}

func NewController(sel *selection.State) *Controller {
	if sel == nil {
		sel = selection.New()
	}
	return &Controller{sel: sel}
}

// Begin starts a gesture of the given kind. element is the dragged element's
// box at press time; the pointer's offset inside it is kept for every move.
// A gesture already in progress is ended first.
func (c *Controller) Begin(kind selection.Kind, target Target, pointer Point, element Rect) {
	if c.active {
		c.End()
	}
	if p, ok := target.(Preparer); ok {
		p.Prepare()
	}
	c.target = target
	c.offset = Point{X: pointer.X - element.X, Y: pointer.Y - element.Y}
	c.active = true
	c.sel.BeginDrag(kind)
}

// Move applies the pointer position to the target. It reports false when no
// gesture is active or the container is unavailable.
func (c *Controller) Move(pointer Point) bool {
	if !c.active || c.target == nil {
		return false
	}
	container, ok := c.target.Container()
	if !ok {
		return false
	}
	local := Point{
		X: pointer.X - c.offset.X - container.X,
		Y: pointer.Y - c.offset.Y - container.Y,
	}
	c.target.Apply(local, container)
	return true
}

func (c *Controller) End() {
	c.target = nil
	c.offset = Point{}
	c.active = false
	c.sel.EndDrag()
}

func (c *Controller) Active() bool {
	return c.active
}

func (c *Controller) Kind() selection.Kind {
	return c.sel.Drag().Kind
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
