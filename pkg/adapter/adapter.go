package adapter

// Observer receives the value written to the path it subscribed to.
type Observer func(value any)

// Token identifies a single subscription. Tokens are unique per model.
type Token uint64

// Adapter mediates reads, writes and change notifications against a model.
type Adapter interface {
	// Get resolves path. ok is false when the path is undefined.
	Get(path string) (value any, ok bool)
	// Set writes value at path and notifies observers of that exact path.
	Set(path string, value any) error
	// Subscribe registers fn for writes to path.
	Subscribe(path string, fn Observer) Token
	// Unsubscribe removes a subscription created by this adapter.
	Unsubscribe(path string, token Token)
	// UnsubscribeAll removes every subscription created by this adapter.
	UnsubscribeAll()
}

// Factory builds an adapter for a model. Views keep the factory so subviews
// can wrap their own models the same way.
type Factory func(model any) (Adapter, error)
