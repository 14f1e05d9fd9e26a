// Package replay rebuilds a store's state from its log without executing
// anything: a hand-written lexer and recursive-descent parser cover exactly
// the restricted statement and literal grammar the store emits, and an
// evaluator applies each statement in order to an initially empty root.
//
// The grammar is closed. One statement per line; newlines inside brackets
// continue the statement (parenthesized multi-line snapshots). Statements:
//
//	store = <literal>
//	<accessor>[<key>]=<value>
//	del <accessor>[<key>]
//	<accessor>.append(<value>)
//	<accessor>.insert(<index>, <value>)
//	<accessor>.clear()
//	<accessor>.add(<value>)
//	<accessor>.discard(<value>)
//
// Literals: None, True, False, integers, floats, single- or double-quoted
// strings, [..] lists, {k: v} mappings, {e, ..} sets, set(), and qualified
// references Name.Member resolved through Symbols.
//
// A log is either fully replayable or corrupt. Any lexical, syntactic or
// evaluation failure - including a truncated final line from a mid-write
// crash - wraps ErrInvalidLog; there is no partial recovery.
package replay
