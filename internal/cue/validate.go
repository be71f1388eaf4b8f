package cue

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validate lists every problem with a candidate cue as a readable message.
// An empty result means the draft is acceptable. It never mutates anything.
func Validate(d Draft) []string {
	var errs []string

	if strings.TrimSpace(d.Text) == "" {
		errs = append(errs, "text must not be empty")
	}
	if n := utf8.RuneCountInString(d.Text); n > MaxTextLength {
		errs = append(errs, fmt.Sprintf(
			"text must not exceed %d characters (got %d)",
			MaxTextLength,
			n,
		))
	}

	if d.End <= d.Start {
		errs = append(errs, "end time must be after start time")
	}
	duration := d.End - d.Start
	if duration < MinDuration {
		errs = append(errs, fmt.Sprintf(
			"duration must be at least %dms (got %dms)",
			MinDuration,
			duration,
		))
	}
	if duration > MaxDuration {
		errs = append(errs, fmt.Sprintf(
			"duration must not exceed %dms (got %dms)",
			MaxDuration,
			duration,
		))
	}

	return errs
}

// converts an existing cue back into a draft, e.g. to validate it
func (c Cue) Draft() Draft {
	cl := c.clone()
	return Draft{
		Start:      cl.Start,
		End:        cl.End,
		Text:       cl.Text,
		Speaker:    cl.Speaker,
		Style:      cl.Style,
		Track:      cl.Track,
		Position:   cl.Position,
		Animations: cl.Animations,
	}
}

func (s *Store) Validate(d Draft) []string {
	return Validate(d)
}
