// Package value defines the plain value vocabulary shared by the store and
// replay layers: primitives (nil, bool, int64, float64, string) and the plain
// container forms (map[any]any, []any, Set), together with the canonical
// literal text for primitives and deep equality over plain trees.
//
// This package is the foundational layer. Both store and replay import value;
// value imports nothing from this module. Keeping it dependency-free avoids
// circular imports between the live container layer and the replay engine.
package value
