package view

import "log/slog"

// Subview creates an unrendered view over model that shares this view's
// binding registry, delegate, adapter factory, engine, logger and DOM
// listener table. Bindings registered on either view after the call are
// visible to both. Once rendered, the subview is destroyed together with
// this view. A nil model gets a fresh empty map.
func (v *View) Subview(model any, options ...Option) (*View, error) {
	if model == nil {
		model = map[string]any{}
	}
	base := []Option{
		WithAdapter(v.factory),
		WithRegistry(v.registry),
		WithDelegate(v.delegate),
		WithLogger(v.logger),
		WithEngine(v.engine),
		withListeners(v.listeners),
		withParent(v),
	}
	sub, err := New(model, append(base, options...)...)
	if err != nil {
		return nil, err
	}
	v.log.Debug("subview created", slog.String("subview", sub.id))
	return sub, nil
}
