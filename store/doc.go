// Package store implements the mutation-tracking container layer: a live
// object graph of Dict, List and Set nodes rooted at a single Store, where
// every mutation appends one self-contained statement to an append-only text
// log. Replaying the log from empty state (package replay) reconstructs a
// tree equal in content to the live one.
//
// Each node knows its owning Store and its accessor path, the textual
// expression that addresses it from the root (for example store['jobs'][0]).
// A node with no accessor is detached: it is unreachable from the root and
// rejects mutation, because a mutation on it could not be expressed as a log
// statement.
//
// Every value is owned by exactly one live slot at a time. Inserting a node
// that is still linked elsewhere deep-copies it, so accessor paths always
// denote disjoint subtrees.
package store
