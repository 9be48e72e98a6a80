// Package plugin defines the surface between a host application and its
// extension plugins: what the host exposes (windows, notifications,
// event-loop scheduling) and what a plugin must implement (name,
// capability tags, init and unload entry points), plus a process-wide
// registry.
package plugin

import (
	"sort"
	"sync"
	"time"

	"github.com/c0ffee0wl/tabnum/internal/widget"
)

// Host is what an application exposes to its plugins. All callbacks run on
// the host's event loop; plugins must not block them.
type Host interface {
	// Windows returns the current top-level windows.
	Windows() []widget.Widget

	// OnNewWindow registers fn to be called when a top-level window
	// appears. The returned cancel func removes the registration.
	OnNewWindow(fn func(widget.Widget)) (cancel func())

	// Idle schedules fn to run once, when the event loop has no pending
	// higher-priority work.
	Idle(fn func())

	// Every schedules fn on a recurring interval. The returned cancel func
	// stops it.
	Every(d time.Duration, fn func()) (cancel func())
}

// Plugin is an extension the host loads at startup and unloads at exit.
type Plugin interface {
	// Name is the plugin's registration name.
	Name() string

	// Capabilities are the capability tags the plugin declares.
	Capabilities() []string

	// Init is invoked once after the host is ready.
	Init(h Host) error

	// Unload releases all plugin state.
	Unload()
}

var (
	mu       sync.Mutex
	registry = make(map[string]Plugin)
)

// Register makes a plugin available under its name. Registering two
// plugins with the same name panics, as does a nil plugin.
func Register(p Plugin) {
	mu.Lock()
	defer mu.Unlock()
	if p == nil {
		panic("plugin: Register called with nil plugin")
	}
	if _, dup := registry[p.Name()]; dup {
		panic("plugin: Register called twice for " + p.Name())
	}
	registry[p.Name()] = p
}

// All returns every registered plugin, sorted by name.
func All() []Plugin {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		plugins = append(plugins, registry[name])
	}
	return plugins
}
