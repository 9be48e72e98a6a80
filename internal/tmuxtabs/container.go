// Package tmuxtabs adapts the windows of a tmux server into the tab
// container contract: each session is a top-level window, its windows are
// the tabs. Change detection is poll-based; a periodic snapshot of window
// state is diffed against the previous one and the differences are
// delivered as container events.
package tmuxtabs

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	ps "github.com/mitchellh/go-ps"
	"github.com/rs/zerolog"

	"github.com/c0ffee0wl/tabnum/internal/widget"
)

// window is one tmux window's observed state.
type window struct {
	id     string // tmux window_id, e.g. "@3"; stable across renames and moves
	name   string
	active bool
}

// Container implements widget.TabContainer over the windows of one tmux
// session. Reads are served from the last poll snapshot; writes go through
// tmux rename-window and update the snapshot in place so the container's
// own rewrites are not re-reported as edits on the next poll.
type Container struct {
	session string
	log     zerolog.Logger

	mu     sync.Mutex
	snap   []window
	subs   map[int]func(widget.Event)
	nextID int
}

func newContainer(session string, log zerolog.Logger) *Container {
	return &Container{
		session: session,
		log:     log.With().Str("session", session).Logger(),
		subs:    make(map[int]func(widget.Event)),
	}
}

// ID returns a handle stable for the session's lifetime.
func (c *Container) ID() string { return "tmux:" + c.session }

// Count returns the number of windows in the last snapshot.
func (c *Container) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snap)
}

// Title returns the window name at position i from the last snapshot.
func (c *Container) Title(i int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.snap) {
		return "", fmt.Errorf("window %d out of range (have %d)", i, len(c.snap))
	}
	return c.snap[i].name, nil
}

// SetTitle renames the window at position i. Automatic renaming is turned
// off for the window so the running program does not immediately overwrite
// the numbered name. tmux does not track title provenance, so user is only
// logged.
func (c *Container) SetTitle(i int, text string, user bool) error {
	c.mu.Lock()
	if i < 0 || i >= len(c.snap) {
		c.mu.Unlock()
		return fmt.Errorf("window %d out of range (have %d)", i, len(c.snap))
	}
	id := c.snap[i].id
	c.mu.Unlock()

	if err := exec.Command("tmux", "rename-window", "-t", id, text).Run(); err != nil {
		return fmt.Errorf("renaming window %s: %w", id, err)
	}
	exec.Command("tmux", "set-option", "-w", "-t", id, "automatic-rename", "off").Run()

	c.mu.Lock()
	if i < len(c.snap) && c.snap[i].id == id {
		c.snap[i].name = text
	}
	c.mu.Unlock()

	c.log.Debug().Str("window", id).Str("name", text).Bool("user", user).Msg("renamed window")
	return nil
}

// Subscribe registers fn for poll-synthesized events.
func (c *Container) Subscribe(fn func(widget.Event)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// SwitchTo focuses the window at position i.
func (c *Container) SwitchTo(i int) error {
	c.mu.Lock()
	if i < 0 || i >= len(c.snap) {
		c.mu.Unlock()
		return fmt.Errorf("window %d out of range (have %d)", i, len(c.snap))
	}
	id := c.snap[i].id
	c.mu.Unlock()
	return exec.Command("tmux", "select-window", "-t", id).Run()
}

// Titles returns a copy of the current window names, in position order.
func (c *Container) Titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.snap))
	for i, w := range c.snap {
		names[i] = w.name
	}
	return names
}

// poll refreshes the snapshot from tmux and delivers the diff between the
// old and new state to subscribers.
func (c *Container) poll() error {
	fresh, err := listWindows(c.session)
	if err != nil {
		return err
	}

	c.mu.Lock()
	events := diff(c.snap, fresh)
	c.snap = fresh
	handlers := make([]func(widget.Event), 0, len(c.subs))
	for _, fn := range c.subs {
		handlers = append(handlers, fn)
	}
	c.mu.Unlock()

	for _, ev := range events {
		for _, fn := range handlers {
			fn(ev)
		}
	}
	return nil
}

// diff synthesizes container events from two consecutive window snapshots.
func diff(old, fresh []window) []widget.Event {
	var events []widget.Event

	oldIdx := make(map[string]int, len(old))
	for i, w := range old {
		oldIdx[w.id] = i
	}
	freshIdx := make(map[string]int, len(fresh))
	for i, w := range fresh {
		freshIdx[w.id] = i
	}

	for i, w := range fresh {
		if _, ok := oldIdx[w.id]; !ok {
			events = append(events, widget.Event{Kind: widget.TabAdded, Index: i})
		}
	}
	for i, w := range old {
		if _, ok := freshIdx[w.id]; !ok {
			events = append(events, widget.Event{Kind: widget.TabRemoved, Index: i})
		}
	}

	// Reorder: same window set, different sequence.
	if len(events) == 0 && len(old) == len(fresh) {
		for i := range fresh {
			if old[i].id != fresh[i].id {
				events = append(events, widget.Event{Kind: widget.TabReordered, Index: -1})
				break
			}
		}
	}

	// Renames of surviving windows.
	for i, w := range fresh {
		if j, ok := oldIdx[w.id]; ok && old[j].name != w.name {
			events = append(events, widget.Event{Kind: widget.LabelEdited, Index: i})
		}
	}

	// Focus change.
	for i, w := range fresh {
		if j, ok := oldIdx[w.id]; ok && w.active && !old[j].active {
			events = append(events, widget.Event{Kind: widget.TabSwitched, Index: i})
		}
	}

	return events
}

// listWindows fetches the session's window state in position order.
func listWindows(session string) ([]window, error) {
	out, err := exec.Command("tmux", "list-windows", "-t", session,
		"-F", "#{window_id}\t#{window_name}\t#{window_active}").Output()
	if err != nil {
		return nil, fmt.Errorf("listing windows of %s: %w", session, err)
	}
	return parseWindows(string(out)), nil
}

// parseWindows parses list-windows output in the id/name/active format.
// Malformed lines are skipped.
func parseWindows(out string) []window {
	var windows []window
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		windows = append(windows, window{
			id:     fields[0],
			name:   fields[1],
			active: fields[2] == "1",
		})
	}
	return windows
}

// listSessions fetches the names of all sessions on the server.
func listSessions() ([]string, error) {
	out, err := exec.Command("tmux", "list-sessions", "-F", "#{session_name}").Output()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var sessions []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			sessions = append(sessions, line)
		}
	}
	return sessions, nil
}

// CurrentSession returns the name of the session this process runs in.
func CurrentSession() (string, error) {
	out, err := exec.Command("tmux", "display-message", "-p", "#{session_name}").Output()
	if err != nil {
		return "", fmt.Errorf("resolving current session: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Available reports whether a live tmux server surrounds this process:
// $TMUX must be set and the server PID embedded in it must still be
// running. The PID check catches stale environments left over from a
// killed server.
func Available() bool {
	env := os.Getenv("TMUX")
	if env == "" {
		return false
	}
	parts := strings.Split(env, ",")
	if len(parts) < 2 {
		return true // unexpected format, trust the env var
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return true
	}
	proc, err := ps.FindProcess(pid)
	if err != nil {
		return true // can't check, assume alive
	}
	return proc != nil
}
