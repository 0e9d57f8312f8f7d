// Package usertext implements a hierarchical view over a flat, ordered
// key-value text store.
//
// Keys may encode a two-level "section\entry" path. The section is the
// text before the first backslash; everything after it, including any
// further backslashes, is the entry. Sections are never stored; they are
// derived from the keys in first-seen order.
//
// The Store performs every operation synchronously against its kv.Store
// backing. Mutations that a caller wants to preview first are expressed as
// Actions and executed through Run, which only applies them when fired.
package usertext
