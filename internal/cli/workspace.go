package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/captioner/internal/config"
	"github.com/mgpai22/captioner/internal/editor"
	"github.com/mgpai22/captioner/internal/ffmpeg"
	"github.com/mgpai22/captioner/internal/project"
)

// workspace holds what project commands share: the settings file and the
// project database.
type workspace struct {
	settings *config.Settings
	store    *project.Store
}

func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if settings.FFmpegPath != "" {
		ffmpeg.Configure(settings.FFmpegPath)
	}
	return settings, nil
}

func openWorkspace() (*workspace, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	store, err := project.Open(dbPath)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Opened project database", "path", dbPath)
	return &workspace{settings: settings, store: store}, nil
}

func (w *workspace) Close() {
	if err := w.store.Close(); err != nil {
		logger.Warnw("Failed to close project database", "error", err)
	}
}

func (w *workspace) newSession() *editor.Session {
	values := w.settings.Values
	return editor.NewSession(editor.Options{
		Logger:   logger,
		Settings: &values,
		Saver:    w.store,
	})
}

// open restores the project matching ref (an id or unique id prefix) into a new session.
func (w *workspace) open(ctx context.Context, ref string) (*editor.Session, error) {
	metas, err := w.store.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(metas))
	for i, m := range metas {
		ids[i] = m.ID
	}
	id, err := matchID("project", ids, ref)
	if err != nil {
		return nil, err
	}
	snap, err := w.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	s := w.newSession()
	s.Restore(snap)
	logger.Debugw("Loaded project",
		"id", snap.ID,
		"cues", len(snap.Cues),
	)
	return s, nil
}

// matchID resolves an exact id or a prefix that matches exactly one id.
func matchID(kind string, ids []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		if kind == "project" {
			return "", fmt.Errorf("%w: %s", project.ErrNotFound, ref)
		}
		return "", fmt.Errorf("%s not found: %s", kind, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, ref, len(matches))
	}
}

// parseTime reads a time given as milliseconds ("1500"), a Go duration
// ("1.5s", "-250ms") or a clock ("00:01:02,500", "01:02.5").
func parseTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	sign := int64(1)
	body := s
	if strings.HasPrefix(body, "-") {
		sign = -1
		body = body[1:]
	}

	if ms, err := strconv.ParseInt(body, 10, 64); err == nil {
		return sign * ms, nil
	}
	if strings.Contains(body, ":") {
		ms, err := parseClock(body)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		return sign * ms, nil
	}
	d, err := time.ParseDuration(body)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use milliseconds, a duration like 1.5s, or HH:MM:SS,mmm", s)
	}
	return sign * d.Milliseconds(), nil
}

func parseClock(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("expected MM:SS or HH:MM:SS")
	}
	secPart := strings.Replace(parts[len(parts)-1], ",", ".", 1)
	seconds, err := strconv.ParseFloat(secPart, 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("bad seconds %q", parts[len(parts)-1])
	}

	var total int64
	for _, p := range parts[:len(parts)-1] {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad field %q", p)
		}
		total = total*60 + n
	}
	return total*60*1000 + int64(seconds*1000+0.5), nil
}
