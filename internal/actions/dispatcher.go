package actions

import (
	"context"
	"fmt"
	"time"

	"dashy/internal/interpret"
	"dashy/internal/logging"
	"dashy/internal/store"
)

// Dispatcher routes tool requests to registered actions. All state the
// handlers touch is injected through the backends at construction time.
type Dispatcher struct {
	registry *Registry
}

// Backends bundles the state surfaces the default actions operate on.
type Backends struct {
	Todos   store.TodoBackend
	Mail    store.MailBackend
	Widgets store.WidgetBackend
	Devices store.DeviceBackend
}

// NewDispatcher builds a dispatcher with the full default action set
// registered against the given backends.
func NewDispatcher(b Backends) *Dispatcher {
	r := NewRegistry()
	registerTodoActions(r, b.Todos)
	registerMailActions(r, b.Mail)
	registerWidgetActions(r, b.Widgets)
	registerDeviceActions(r, b.Devices)
	logging.Actions("Dispatcher ready with %d action(s)", r.Count())
	return &Dispatcher{registry: r}
}

// NewDispatcherWithRegistry builds a dispatcher over a caller-populated
// registry. Used by tests and by callers that extend the action set.
func NewDispatcherWithRegistry(r *Registry) *Dispatcher {
	return &Dispatcher{registry: r}
}

// Registry exposes the underlying registry for registration of extra actions.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs a single tool request. An unregistered action name is not an
// error: the model occasionally invents tools, and the loop should carry on.
// Handler failures are returned to the caller to log.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request, lang interpret.Language) (Outcome, error) {
	action := d.registry.Get(req.Name)
	if action == nil {
		logging.ActionsWarn("Unhandled action %q", req.Name)
		return Outcome{LogMessage: fmt.Sprintf("Action %q is not handled.", req.Name)}, nil
	}

	start := time.Now()
	logging.ActionsDebug("Dispatching %s args=%v lang=%s", req.Name, req.Args, lang)

	out, err := action.Handle(ctx, req.Args, lang)

	duration := time.Since(start)
	if err != nil {
		logging.ActionsError("Action %s failed after %v: %v", req.Name, duration, err)
		return out, err
	}
	logging.ActionsDebug("Action %s completed in %v: %s", req.Name, duration, out.LogMessage)
	return out, nil
}
