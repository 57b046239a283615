// Package ptree wraps parsed JSON documents in a property-tree view.
//
// A Tree is addressed with dotted paths ("solution.segments.0.id"), keeps
// children in document order, and exposes typed extraction of scalar
// arrays. Trees are read-only snapshots of the bytes they were parsed from.
package ptree
