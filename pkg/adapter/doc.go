// Package adapter defines the contract a View uses to read, write and observe
// its model, and ships the plain-map implementation used by default.
//
// Paths are dot-delimited. An adapter reports an undefined path with ok=false
// from Get; a defined path may still hold a nil value.
package adapter
