// Package engine wires the reconciliation core together: the call registry,
// the extension directory, the connection health monitor and the refresh
// scheduler. One Engine is constructed per session and passed by handle to
// every consumer; there are no package-level singletons.
package engine

import (
	"github.com/tofabd/call-center-shajgoj-sub000/internal/directory"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/health"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/models"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/refresh"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/registry"
)

// Engine bundles the session state. Registry and Directory are the only
// shared mutable resources; everything read off them is a snapshot copy.
type Engine struct {
	Registry  *registry.CallRegistry
	Directory *directory.Directory
	Health    *health.Monitor
	Scheduler *refresh.Scheduler
}

// New constructs the engine core. The scheduler is attached separately by
// the app once the pull client exists, because its fetch closure needs the
// directory this constructor creates.
func New() *Engine {
	return &Engine{
		Registry:  registry.NewCallRegistry(),
		Directory: directory.New(),
		Health:    health.NewMonitor(),
	}
}

// ActiveCalls returns the monitor view: active partition in priority order.
func (e *Engine) ActiveCalls() []*models.CallRecord {
	active, _ := registry.Partition(e.Registry.Snapshot())
	return registry.SortForMonitor(active)
}

// CompletedCalls returns the history view: terminal partition newest first.
func (e *Engine) CompletedCalls() []*models.CallRecord {
	_, terminal := registry.Partition(e.Registry.Snapshot())
	return registry.SortForMonitor(terminal)
}

// CallGroups returns the grouped caller view over the whole registry.
func (e *Engine) CallGroups() []*models.UniqueCallGroup {
	return registry.GroupByCaller(e.Registry.Snapshot())
}

// Extensions returns the raw directory snapshot.
func (e *Engine) Extensions() []*models.ExtensionRecord {
	return e.Directory.Snapshot()
}

// ConnectionHealth returns the current push channel classification.
func (e *Engine) ConnectionHealth() models.ConnectionHealth {
	return e.Health.Health()
}

// RefreshState returns the scheduler state, or a zero value before the
// scheduler is attached.
func (e *Engine) RefreshState() models.RefreshState {
	if e.Scheduler == nil {
		return models.RefreshState{}
	}
	return e.Scheduler.State()
}
