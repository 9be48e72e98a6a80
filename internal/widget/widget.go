// Package widget defines the capability contract a host application
// exposes to the numbering plugin: an opaque widget tree in which some
// widgets are tab containers whose labels can be read, rewritten, and
// observed for changes.
package widget

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Widget is any node in the host's widget tree. Hosts expose behavior by
// implementing the narrower capability interfaces below; consumers probe
// with type assertions.
type Widget interface{}

// Parent is a widget exposing multiple children.
type Parent interface {
	Children() []Widget
}

// SingleChild is a widget wrapping exactly one child, which may be nil.
type SingleChild interface {
	Child() Widget
}

// EventKind identifies a structural or textual change in a tab container.
type EventKind int

const (
	TabAdded EventKind = iota
	TabRemoved
	TabReordered
	TabSwitched
	LabelEdited
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case TabAdded:
		return "tab-added"
	case TabRemoved:
		return "tab-removed"
	case TabReordered:
		return "tab-reordered"
	case TabSwitched:
		return "tab-switched"
	case LabelEdited:
		return "label-edited"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a tab container change notification. Index is the affected tab
// position, or -1 when the event is not tied to a single tab.
type Event struct {
	Kind  EventKind
	Index int
}

// TabContainer is the notebook capability: an ordered set of tabs with
// readable, writable display text.
type TabContainer interface {
	// ID returns an opaque handle that is stable for the container's
	// lifetime, used to track per-container subscription state.
	ID() string

	// Count returns the number of tabs.
	Count() int

	// Title returns the display text of the tab at position i. An error
	// means the tab's label is absent or malformed; callers should skip
	// the tab and continue.
	Title(i int) (string, error)

	// SetTitle rewrites the display text of the tab at position i. user
	// marks the write as a user customization rather than an automatic
	// title, for hosts that track title provenance.
	SetTitle(i int, text string, user bool) error

	// Subscribe registers fn for structural and label events. The returned
	// cancel func removes the subscription.
	Subscribe(fn func(Event)) (cancel func())
}

// FindTabContainers walks the widget tree from root and returns every tab
// container it encounters, depth first. A panic raised by one subtree's
// widgets is logged and that subtree skipped; the walk continues with the
// remaining siblings so one malformed widget cannot hide the rest.
func FindTabContainers(root Widget, log zerolog.Logger) []TabContainer {
	var found []TabContainer
	walk(root, &found, log)
	return found
}

func walk(w Widget, found *[]TabContainer, log zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("skipping malformed widget subtree")
		}
	}()

	if w == nil {
		return
	}

	if c, ok := w.(TabContainer); ok {
		*found = append(*found, c)
		return
	}

	switch p := w.(type) {
	case Parent:
		for _, child := range p.Children() {
			walk(child, found, log)
		}
	case SingleChild:
		walk(p.Child(), found, log)
	}
}
