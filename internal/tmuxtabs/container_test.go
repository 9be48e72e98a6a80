package tmuxtabs

import (
	"reflect"
	"testing"

	"github.com/c0ffee0wl/tabnum/internal/widget"
)

func TestParseWindows(t *testing.T) {
	t.Run("parses id, name, and active flag per line", func(t *testing.T) {
		out := "@1\tbash\t1\n@2\tvim\t0\n"
		got := parseWindows(out)
		want := []window{
			{id: "@1", name: "bash", active: true},
			{id: "@2", name: "vim", active: false},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("window names may contain spaces and colons", func(t *testing.T) {
		got := parseWindows("@7\t3: my build\t0\n")
		if len(got) != 1 || got[0].name != "3: my build" {
			t.Errorf("got %v, want one window named %q", got, "3: my build")
		}
	})

	t.Run("malformed and empty lines are skipped", func(t *testing.T) {
		got := parseWindows("@1\tbash\t1\n\ngarbage line\n@2\tvim\n")
		if len(got) != 1 || got[0].id != "@1" {
			t.Errorf("got %v, want only @1", got)
		}
	})

	t.Run("empty output yields no windows", func(t *testing.T) {
		if got := parseWindows(""); len(got) != 0 {
			t.Errorf("got %v, want none", got)
		}
	})
}

func kinds(events []widget.Event) []widget.EventKind {
	var out []widget.EventKind
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestDiff(t *testing.T) {
	t.Run("identical snapshots produce no events", func(t *testing.T) {
		snap := []window{{id: "@1", name: "1: bash", active: true}}
		if got := diff(snap, snap); len(got) != 0 {
			t.Errorf("got %v, want none", got)
		}
	})

	t.Run("new window is reported as added at its position", func(t *testing.T) {
		old := []window{{id: "@1", name: "bash"}}
		fresh := []window{{id: "@2", name: "new"}, {id: "@1", name: "bash"}}
		got := diff(old, fresh)
		if len(got) != 1 || got[0].Kind != widget.TabAdded || got[0].Index != 0 {
			t.Errorf("got %v, want [added@0]", got)
		}
	})

	t.Run("vanished window is reported as removed", func(t *testing.T) {
		old := []window{{id: "@1", name: "a"}, {id: "@2", name: "b"}}
		fresh := []window{{id: "@1", name: "a"}}
		got := diff(old, fresh)
		if len(got) != 1 || got[0].Kind != widget.TabRemoved || got[0].Index != 1 {
			t.Errorf("got %v, want [removed@1]", got)
		}
	})

	t.Run("same windows in a new order are reported as reordered", func(t *testing.T) {
		old := []window{{id: "@1", name: "a"}, {id: "@2", name: "b"}}
		fresh := []window{{id: "@2", name: "b"}, {id: "@1", name: "a"}}
		got := diff(old, fresh)
		if !reflect.DeepEqual(kinds(got), []widget.EventKind{widget.TabReordered}) {
			t.Errorf("got %v, want [reordered]", got)
		}
	})

	t.Run("renamed window is reported as a label edit", func(t *testing.T) {
		old := []window{{id: "@1", name: "1: bash"}}
		fresh := []window{{id: "@1", name: "builds"}}
		got := diff(old, fresh)
		if len(got) != 1 || got[0].Kind != widget.LabelEdited || got[0].Index != 0 {
			t.Errorf("got %v, want [label-edited@0]", got)
		}
	})

	t.Run("focus change is reported as a switch to the new window", func(t *testing.T) {
		old := []window{{id: "@1", active: true}, {id: "@2"}}
		fresh := []window{{id: "@1"}, {id: "@2", active: true}}
		got := diff(old, fresh)
		if len(got) != 1 || got[0].Kind != widget.TabSwitched || got[0].Index != 1 {
			t.Errorf("got %v, want [switched@1]", got)
		}
	})

	t.Run("replacement reports both an add and a removal", func(t *testing.T) {
		old := []window{{id: "@1", name: "a"}}
		fresh := []window{{id: "@2", name: "b"}}
		got := kinds(diff(old, fresh))
		want := []widget.EventKind{widget.TabAdded, widget.TabRemoved}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("first snapshot reports every window as added", func(t *testing.T) {
		fresh := []window{{id: "@1"}, {id: "@2"}}
		got := kinds(diff(nil, fresh))
		want := []widget.EventKind{widget.TabAdded, widget.TabAdded}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}
