package tui

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c0ffee0wl/tabnum/internal/numberer"
	"github.com/c0ffee0wl/tabnum/internal/widget"
)

func TestContainerOperations(t *testing.T) {
	log := zerolog.Nop()

	t.Run("add focuses the new tab and emits tab-added", func(t *testing.T) {
		c := NewContainer([]string{"a"}, log)
		var got []widget.Event
		c.Subscribe(func(ev widget.Event) { got = append(got, ev) })

		c.AddTab("b")

		if c.Active() != 1 {
			t.Errorf("active = %d, want 1", c.Active())
		}
		if len(got) != 1 || got[0].Kind != widget.TabAdded || got[0].Index != 1 {
			t.Errorf("got %v, want [tab-added@1]", got)
		}
	})

	t.Run("the last tab cannot be closed", func(t *testing.T) {
		c := NewContainer([]string{"only"}, log)
		c.CloseTab(0)
		if c.Count() != 1 {
			t.Errorf("count = %d, want 1", c.Count())
		}
	})

	t.Run("closing the focused last tab pulls focus back", func(t *testing.T) {
		c := NewContainer([]string{"a", "b"}, log)
		c.SwitchBy(1)
		c.CloseTab(1)
		if c.Active() != 0 {
			t.Errorf("active = %d, want 0", c.Active())
		}
	})

	t.Run("move swaps neighbors and follows focus", func(t *testing.T) {
		c := NewContainer([]string{"a", "b"}, log)
		c.MoveTab(0, 1)
		if got := c.Titles(); !reflect.DeepEqual(got, []string{"b", "a"}) {
			t.Errorf("got %v, want [b a]", got)
		}
		if c.Active() != 1 {
			t.Errorf("active = %d, want 1", c.Active())
		}
	})

	t.Run("switching wraps in both directions", func(t *testing.T) {
		c := NewContainer([]string{"a", "b", "c"}, log)
		c.SwitchBy(-1)
		if c.Active() != 2 {
			t.Errorf("active = %d, want 2", c.Active())
		}
		c.SwitchBy(1)
		if c.Active() != 0 {
			t.Errorf("active = %d, want 0", c.Active())
		}
	})

	t.Run("rename marks the tab custom and emits label-edited", func(t *testing.T) {
		c := NewContainer([]string{"a"}, log)
		var got []widget.Event
		c.Subscribe(func(ev widget.Event) { got = append(got, ev) })

		c.Rename(0, "builds")

		if titles := c.Titles(); titles[0] != "builds" {
			t.Errorf("got %q, want %q", titles[0], "builds")
		}
		if !c.Custom(0) {
			t.Error("tab not marked custom after rename")
		}
		if len(got) != 1 || got[0].Kind != widget.LabelEdited {
			t.Errorf("got %v, want [label-edited]", got)
		}
	})

	t.Run("automatic SetTitle does not emit and does not mark custom", func(t *testing.T) {
		c := NewContainer([]string{"a"}, log)
		var got []widget.Event
		c.Subscribe(func(ev widget.Event) { got = append(got, ev) })

		if err := c.SetTitle(0, "1: a", false); err != nil {
			t.Fatalf("set title: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want no events", got)
		}
		if c.Custom(0) {
			t.Error("automatic write marked the tab custom")
		}
	})
}

func TestHostTree(t *testing.T) {
	t.Run("the container is reachable through the widget tree", func(t *testing.T) {
		h := NewHost(NewContainer([]string{"a"}, zerolog.Nop()), zerolog.Nop())
		windows := h.Windows()
		if len(windows) != 1 {
			t.Fatalf("got %d windows, want 1", len(windows))
		}
		found := widget.FindTabContainers(windows[0], zerolog.Nop())
		if len(found) != 1 || found[0].ID() != "demo-tabs" {
			t.Errorf("scan found %d containers, want the demo container", len(found))
		}
	})

	t.Run("drain runs idle callbacks once", func(t *testing.T) {
		h := NewHost(NewContainer([]string{"a"}, zerolog.Nop()), zerolog.Nop())
		runs := 0
		h.Idle(func() { runs++ })
		h.Drain()
		h.Drain()
		if runs != 1 {
			t.Errorf("idle ran %d times, want 1", runs)
		}
	})

	t.Run("cancelled recurring entries stop firing", func(t *testing.T) {
		h := NewHost(NewContainer([]string{"a"}, zerolog.Nop()), zerolog.Nop())
		runs := 0
		cancel := h.Every(0, func() { runs++ })
		h.Drain()
		cancel()
		h.Drain()
		if runs != 1 {
			t.Errorf("recurring ran %d times, want 1", runs)
		}
	})
}

// TestNumberingEndToEnd attaches the real plugin to the demo host and
// drives it through the container operations a user would perform.
func TestNumberingEndToEnd(t *testing.T) {
	newDemo := func(t *testing.T, titles ...string) (*Container, *numberer.Numberer) {
		t.Helper()
		c := NewContainer(titles, zerolog.Nop())
		h := NewHost(c, zerolog.Nop())
		n := numberer.New(zerolog.Nop())
		if err := n.Init(h); err != nil {
			t.Fatalf("init: %v", err)
		}
		h.Drain()
		return c, n
	}

	t.Run("initial tabs are numbered after the first drain", func(t *testing.T) {
		c, _ := newDemo(t, "bash", "vim")
		want := []string{"1: bash", "2: vim"}
		if got := c.Titles(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("adding and moving tabs keeps numbers in position order", func(t *testing.T) {
		c, _ := newDemo(t, "bash", "vim")
		c.AddTab("logs")
		c.MoveTab(2, -1)
		want := []string{"1: bash", "2: logs", "3: vim"}
		if got := c.Titles(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("renaming keeps the edit under the prefix", func(t *testing.T) {
		c, _ := newDemo(t, "bash", "vim", "logs")
		c.Rename(2, "foo")
		if got := c.Titles()[2]; got != "3: foo" {
			t.Errorf("got %q, want %q", got, "3: foo")
		}
		if !c.Custom(2) {
			t.Error("rename lost the custom mark")
		}
	})

	t.Run("closing a tab renumbers the remainder", func(t *testing.T) {
		c, _ := newDemo(t, "a", "b", "c")
		c.CloseTab(0)
		want := []string{"1: b", "2: c"}
		if got := c.Titles(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("unload detaches the plugin from the container", func(t *testing.T) {
		c, n := newDemo(t, "a")
		n.Unload()
		c.AddTab("b")
		if got := c.Titles()[1]; got != "b" {
			t.Errorf("got %q, want untouched %q", got, "b")
		}
	})
}
