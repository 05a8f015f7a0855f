// Package view implements the binding orchestrator.
//
// A View owns a model (wrapped by an adapter.Adapter), a view delegate, and a
// registry of named bindings. Render walks an element tree once: on each
// element the registered bindings whose attribute is present run in registry
// order, and any of them may set Binding.Skip to keep the walk out of the
// element's subtree. Elements nobody skipped get an AttrBinding per
// attribute holding a {{ marker }}; attached text nodes with markers get a
// TextBinding. Every binding subscribes to the properties it reads, so later
// writes through Set, or writes the adapter observes from elsewhere, update
// only the nodes that depend on them.
//
// Subviews share the registry, adapter factory, delegate and DOM listener
// table of their parent while binding their own model and element.
//
// Views are not safe for concurrent use.
package view
