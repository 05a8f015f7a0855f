package view

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/goliatone/go-bindview/pkg/adapter"
	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/events"
	"github.com/goliatone/go-bindview/pkg/interpolate"
)

// Option customises a View.
type Option func(*View)

// WithAdapter sets the factory used to wrap the model. Subviews reuse it.
func WithAdapter(factory adapter.Factory) Option {
	return func(v *View) {
		if factory != nil {
			v.factory = factory
		}
	}
}

// WithDelegate sets the view delegate consulted when the model has no value.
func WithDelegate(delegate Delegate) Option {
	return func(v *View) {
		if delegate != nil {
			v.delegate = delegate
		}
	}
}

// WithRegistry shares an existing binding registry.
func WithRegistry(registry *Registry) Option {
	return func(v *View) {
		if registry != nil {
			v.registry = registry
		}
	}
}

// WithLogger sets the structured logger. Views log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithEngine sets the interpolation engine used for marker filters.
func WithEngine(engine *interpolate.Engine) Option {
	return func(v *View) {
		if engine != nil {
			v.engine = engine
		}
	}
}

func withListeners(listeners *dom.Listeners) Option {
	return func(v *View) {
		v.listeners = listeners
	}
}

func withParent(parent *View) Option {
	return func(v *View) {
		v.parent = parent
	}
}

// View binds an element tree to a model.
type View struct {
	id       string
	model    any
	adapter  adapter.Adapter
	factory  adapter.Factory
	delegate Delegate
	registry *Registry
	engine   *interpolate.Engine
	logger   *slog.Logger
	log      *slog.Logger

	emitter         *events.Emitter
	listeners       *dom.Listeners
	listenerHandles []dom.ListenerHandle

	// writing counts in-flight Set calls per property; the adapter echo of a
	// property is ignored while its count is positive.
	writing map[string]int

	root      *html.Node
	destroyed bool

	parent   *View
	children []*View
}

// New wraps model with the configured adapter factory (adapter.NewMap by
// default) and returns an unrendered view.
func New(model any, options ...Option) (*View, error) {
	v := &View{
		id:      uuid.NewString(),
		model:   model,
		emitter: events.NewEmitter(),
		writing: make(map[string]int),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	v.applyDefaults()

	ad, err := v.factory(model)
	if err != nil {
		return nil, fmt.Errorf("view: build adapter: %w", err)
	}
	if ad == nil {
		return nil, fmt.Errorf("view: adapter factory returned nil for %T", model)
	}
	v.adapter = ad
	if v.model == nil {
		if m, ok := ad.(*adapter.Map); ok {
			v.model = m.Data()
		}
	}
	v.log = v.logger.With(slog.String("view", v.id))
	return v, nil
}

// MustNew panics when New fails.
func MustNew(model any, options ...Option) *View {
	v, err := New(model, options...)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *View) applyDefaults() {
	if v.factory == nil {
		v.factory = adapter.NewMap
	}
	if v.delegate == nil {
		v.delegate = Delegate{}
	}
	if v.registry == nil {
		v.registry = NewRegistry()
	}
	if v.engine == nil {
		v.engine = interpolate.Default()
	}
	if v.logger == nil {
		v.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if v.listeners == nil {
		v.listeners = dom.NewListeners()
	}
}

// ID returns the identifier attached to the view's log records.
func (v *View) ID() string { return v.id }

// Model returns the wrapped model.
func (v *View) Model() any { return v.model }

// Adapter returns the adapter wrapping the model.
func (v *View) Adapter() adapter.Adapter { return v.adapter }

// Delegate returns the view delegate.
func (v *View) Delegate() Delegate { return v.delegate }

// Registry returns the binding registry, shared with subviews.
func (v *View) Registry() *Registry { return v.registry }

// Engine returns the interpolation engine.
func (v *View) Engine() *interpolate.Engine { return v.engine }

// Logger returns the view's logger, already annotated with the view id.
func (v *View) Logger() *slog.Logger { return v.log }

// Root returns the rendered root, or nil before Render and after Destroy.
func (v *View) Root() *html.Node { return v.root }

// Parent returns the view this one was created from with Subview.
func (v *View) Parent() *View { return v.parent }

// Rendered reports whether the view currently has a rendered root.
func (v *View) Rendered() bool { return v.root != nil }

// Destroyed reports whether Destroy ran.
func (v *View) Destroyed() bool { return v.destroyed }

// Plugin configures a view, typically by registering bindings.
type Plugin func(v *View) error

// Use runs each plugin against the view, in order, stopping at the first error.
func (v *View) Use(plugins ...Plugin) error {
	for _, plugin := range plugins {
		if plugin == nil {
			continue
		}
		if err := plugin(v); err != nil {
			return fmt.Errorf("view: plugin: %w", err)
		}
	}
	return nil
}

// Bind registers a named binding. It fails with ErrBound once the view has
// a rendered root and with ErrDestroyed after Destroy.
func (v *View) Bind(name string, handler Handler) error {
	if v.destroyed {
		return fmt.Errorf("%w: bind %q", ErrDestroyed, name)
	}
	if v.root != nil {
		return fmt.Errorf("%w: %q", ErrBound, name)
	}
	if err := v.registry.Register(name, handler); err != nil {
		return err
	}
	v.log.Debug("binding registered", slog.String("name", name))
	return nil
}

// Directive pairs a binding name with its handler for BindAll.
type Directive struct {
	Name    string
	Handler Handler
}

// BindAll registers several bindings in order, stopping at the first error.
func (v *View) BindAll(directives ...Directive) error {
	for _, d := range directives {
		if err := v.Bind(d.Name, d.Handler); err != nil {
			return err
		}
	}
	return nil
}

// MustBind panics when Bind fails.
func (v *View) MustBind(name string, handler Handler) *View {
	if err := v.Bind(name, handler); err != nil {
		panic(err)
	}
	return v
}

// On registers a listener for any event, including the reserved change and
// destroyed events.
func (v *View) On(evt events.Event, fn events.Listener) events.Handle {
	return v.emitter.On(evt, fn)
}

// Off removes a listener registered with On.
func (v *View) Off(h events.Handle) {
	v.emitter.Off(h)
}

// Emit delivers an event to the view's listeners.
func (v *View) Emit(evt events.Event, payload any) {
	v.emitter.Emit(evt, payload)
}

// OnChange listens for explicit Set calls on prop.
func (v *View) OnChange(prop string, fn func(value any)) events.Handle {
	return v.emitter.On(events.Change(prop), func(payload any) { fn(payload) })
}

// OnDestroyed runs fn when the view is destroyed.
func (v *View) OnDestroyed(fn func()) events.Handle {
	return v.emitter.On(events.Destroyed, func(any) { fn() })
}
