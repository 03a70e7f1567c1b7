package toolstatus

import "fmt"

// Registry maps tool names to their widgets. It is built once at startup
// and replaces markup lookups by derived element ids.
type Registry struct {
	widgets map[string]*Widget
	order   []string
}

// NewRegistry indexes the widgets by tool name, keeping their order.
func NewRegistry(widgets ...*Widget) (*Registry, error) {
	r := &Registry{widgets: make(map[string]*Widget, len(widgets))}
	for _, w := range widgets {
		if _, exists := r.widgets[w.Tool]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, w.Tool)
		}
		r.widgets[w.Tool] = w
		r.order = append(r.order, w.Tool)
	}
	return r, nil
}

// Widget returns the widget registered for tool.
func (r *Registry) Widget(tool string) (*Widget, bool) {
	w, ok := r.widgets[tool]
	return w, ok
}

// Widgets returns all widgets in registration order.
func (r *Registry) Widgets() []*Widget {
	out := make([]*Widget, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.widgets[name])
	}
	return out
}

// Len returns the number of registered widgets.
func (r *Registry) Len() int {
	return len(r.order)
}

// DeployButton resolves the deploy button of the target tool.
func (r *Registry) DeployButton(target string) (*Button, error) {
	w, ok := r.widgets[target]
	if !ok {
		return nil, fmt.Errorf("%w: no widget for %q", ErrDeployButtonMissing, target)
	}
	b, ok := w.Button(ActionDeploy)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeployButtonMissing, target)
	}
	return b, nil
}
