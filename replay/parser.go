package replay

import (
	"strconv"

	"github.com/mutlog/mutlog/value"
)

// listNode boxes a sequence during replay so in-place mutation (append,
// insert, delete) is visible through the parent slot. finalize unboxes the
// tree into plain []any slices once every statement has been applied.
type listNode struct {
	elems []any
}

type parser struct {
	lx    *lexer
	tok   token
	syms  Symbols
	root  map[any]any
	bound bool
}

func newParser(src string, syms Symbols) (*parser, error) {
	p := &parser{lx: newLexer(src), syms: syms}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokKind) (token, error) {
	if p.tok.kind != kind {
		return token{}, errAt(p.tok.line, "expected %s, found %s", kind, p.tok.kind)
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

// run evaluates every statement and returns the finalized root.
func (p *parser) run() (map[any]any, error) {
	for {
		// Skip blank lines between statements.
		for p.tok.kind == tokNewline {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.kind == tokEOF {
			break
		}
		if err := p.statement(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokNewline && p.tok.kind != tokEOF {
			return nil, errAt(p.tok.line, "trailing input after statement: %s", p.tok.kind)
		}
	}
	if !p.bound {
		return nil, errAt(p.tok.line, "log never binds %q", rootName)
	}
	finalizeMap(p.root)
	return p.root, nil
}

const rootName = "store"

func (p *parser) statement() error {
	name, err := p.expect(tokName)
	if err != nil {
		return err
	}

	switch name.text {
	case "del":
		return p.deleteStatement()
	case rootName:
		return p.rootStatement()
	default:
		return errAt(name.line, "unknown statement %q", name.text)
	}
}

// rootStatement handles everything anchored at the root binding: snapshot
// (re)binds, indexed assignment and the container method calls.
func (p *parser) rootStatement() error {
	line := p.tok.line
	path, err := p.accessorPath()
	if err != nil {
		return err
	}

	switch p.tok.kind {
	case tokAssign:
		if err := p.advance(); err != nil {
			return err
		}
		lit, err := p.literal()
		if err != nil {
			return err
		}
		return p.assign(path, lit, line)
	case tokDot:
		if err := p.advance(); err != nil {
			return err
		}
		return p.methodCall(path)
	default:
		return errAt(p.tok.line, "expected '=' or method call, found %s", p.tok.kind)
	}
}

// accessorPath parses the [key][key]... chain after the root name.
func (p *parser) accessorPath() ([]any, error) {
	var path []any
	for p.tok.kind == tokLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		key, err := p.literal()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		path = append(path, key)
	}
	return path, nil
}

func (p *parser) assign(path []any, lit any, line int) error {
	if len(path) == 0 {
		// Snapshot statement. Resume-append logs rebind the root mid-file;
		// the last binding wins.
		m, ok := lit.(map[any]any)
		if !ok {
			return errAt(line, "%s must be bound to a mapping", rootName)
		}
		p.root = m
		p.bound = true
		return nil
	}

	parent, err := p.resolve(path[:len(path)-1], line)
	if err != nil {
		return err
	}
	return p.setSlot(parent, path[len(path)-1], lit, line)
}

func (p *parser) deleteStatement() error {
	line := p.tok.line
	if tok, err := p.expect(tokName); err != nil {
		return err
	} else if tok.text != rootName {
		return errAt(tok.line, "del target must start at %q", rootName)
	}
	path, err := p.accessorPath()
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return errAt(line, "del requires an indexed target")
	}

	parent, err := p.resolve(path[:len(path)-1], line)
	if err != nil {
		return err
	}
	key := path[len(path)-1]

	switch c := parent.(type) {
	case map[any]any:
		if err := checkDictKey(key, line); err != nil {
			return err
		}
		if _, ok := c[key]; !ok {
			return errAt(line, "del of absent key %v", key)
		}
		delete(c, key)
		return nil
	case *listNode:
		i, err := listIndex(key, len(c.elems), line)
		if err != nil {
			return err
		}
		c.elems = append(c.elems[:i], c.elems[i+1:]...)
		return nil
	default:
		return errAt(line, "del target is not indexable")
	}
}

func (p *parser) methodCall(path []any) error {
	name, err := p.expect(tokName)
	if err != nil {
		return err
	}
	args, err := p.callArgs()
	if err != nil {
		return err
	}

	target, err := p.resolve(path, name.line)
	if err != nil {
		return err
	}

	arity := func(n int) error {
		if len(args) != n {
			return errAt(name.line, "%s takes %d argument(s), got %d", name.text, n, len(args))
		}
		return nil
	}

	switch name.text {
	case "append":
		l, ok := target.(*listNode)
		if !ok {
			return errAt(name.line, "append on non-list")
		}
		if err := arity(1); err != nil {
			return err
		}
		l.elems = append(l.elems, args[0])
		return nil
	case "insert":
		l, ok := target.(*listNode)
		if !ok {
			return errAt(name.line, "insert on non-list")
		}
		if err := arity(2); err != nil {
			return err
		}
		i, err := insertIndex(args[0], len(l.elems), name.line)
		if err != nil {
			return err
		}
		l.elems = append(l.elems, nil)
		copy(l.elems[i+1:], l.elems[i:])
		l.elems[i] = args[1]
		return nil
	case "clear":
		l, ok := target.(*listNode)
		if !ok {
			return errAt(name.line, "clear on non-list")
		}
		if err := arity(0); err != nil {
			return err
		}
		l.elems = nil
		return nil
	case "add", "discard":
		set, ok := target.(value.Set)
		if !ok {
			return errAt(name.line, "%s on non-set", name.text)
		}
		if err := arity(1); err != nil {
			return err
		}
		elem := args[0]
		if !value.Comparable(elem) {
			return errAt(name.line, "invalid set element")
		}
		if name.text == "add" {
			set[elem] = struct{}{}
		} else {
			delete(set, elem)
		}
		return nil
	default:
		return errAt(name.line, "unknown method %q", name.text)
	}
}

func (p *parser) callArgs() ([]any, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var args []any
	if p.tok.kind != tokRParen {
		for {
			arg, err := p.literal()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return args, nil
}

// resolve walks the path from the root, returning the addressed container.
func (p *parser) resolve(path []any, line int) (any, error) {
	if !p.bound {
		return nil, errAt(line, "statement before %q is bound", rootName)
	}
	var cur any = p.root
	for _, key := range path {
		switch c := cur.(type) {
		case map[any]any:
			if err := checkDictKey(key, line); err != nil {
				return nil, err
			}
			v, ok := c[key]
			if !ok {
				return nil, errAt(line, "missing key %v", key)
			}
			cur = v
		case *listNode:
			i, err := listIndex(key, len(c.elems), line)
			if err != nil {
				return nil, err
			}
			cur = c.elems[i]
		default:
			return nil, errAt(line, "value at %v is not indexable", key)
		}
	}
	return cur, nil
}

func (p *parser) setSlot(parent, key, val any, line int) error {
	switch c := parent.(type) {
	case map[any]any:
		if err := checkDictKey(key, line); err != nil {
			return err
		}
		c[key] = val
		return nil
	case *listNode:
		i, err := listIndex(key, len(c.elems), line)
		if err != nil {
			return err
		}
		c.elems[i] = val
		return nil
	default:
		return errAt(line, "assignment target is not indexable")
	}
}

func listIndex(key any, length int, line int) (int, error) {
	n, ok := key.(int64)
	if !ok {
		return 0, errAt(line, "list index must be an integer, got %T", key)
	}
	if n < 0 || n >= int64(length) {
		return 0, errAt(line, "list index %d out of range (len %d)", n, length)
	}
	return int(n), nil
}

func insertIndex(key any, length int, line int) (int, error) {
	n, ok := key.(int64)
	if !ok {
		return 0, errAt(line, "insert index must be an integer, got %T", key)
	}
	if n < 0 || n > int64(length) {
		return 0, errAt(line, "insert index %d out of range (len %d)", n, length)
	}
	return int(n), nil
}

// literal parses one value literal.
func (p *parser) literal() (any, error) {
	tok := p.tok
	switch tok.kind {
	case tokInt:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, errAt(tok.line, "integer %s out of range", tok.text)
		}
		return n, p.advance()
	case tokFloat:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, errAt(tok.line, "malformed float %s", tok.text)
		}
		return f, p.advance()
	case tokString:
		return tok.text, p.advance()
	case tokName:
		return p.nameLiteral()
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.literal()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokLBracket:
		return p.listLiteral()
	case tokLBrace:
		return p.braceLiteral()
	default:
		return nil, errAt(tok.line, "expected literal, found %s", tok.kind)
	}
}

// nameLiteral covers the keyword constants, the empty-set call form, and
// qualified symbol references.
func (p *parser) nameLiteral() (any, error) {
	name, err := p.expect(tokName)
	if err != nil {
		return nil, err
	}
	switch name.text {
	case "None":
		return nil, nil
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "set":
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return value.Set{}, nil
	}
	if p.tok.kind != tokDot {
		return nil, errAt(name.line, "unknown name %q", name.text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	member, err := p.expect(tokName)
	if err != nil {
		return nil, err
	}
	v, ok := p.syms.resolve(name.text, member.text)
	if !ok {
		return nil, errAt(name.line, "unresolved reference %s.%s", name.text, member.text)
	}
	return v, nil
}

func (p *parser) listLiteral() (any, error) {
	if _, err := p.expect(tokLBracket); err != nil {
		return nil, err
	}
	l := &listNode{}
	if p.tok.kind != tokRBracket {
		for {
			elem, err := p.literal()
			if err != nil {
				return nil, err
			}
			l.elems = append(l.elems, elem)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	return l, nil
}

// braceLiteral disambiguates mappings from sets: {} is an empty mapping, a
// ':' after the first element makes it a mapping, anything else a set.
func (p *parser) braceLiteral() (any, error) {
	open, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokRBrace {
		return map[any]any{}, p.advance()
	}

	first, err := p.literal()
	if err != nil {
		return nil, err
	}

	if p.tok.kind == tokColon {
		m := map[any]any{}
		if err := p.dictEntry(m, first, open.line); err != nil {
			return nil, err
		}
		for p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.literal()
			if err != nil {
				return nil, err
			}
			if err := p.dictEntry(m, key, open.line); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokRBrace); err != nil {
			return nil, err
		}
		return m, nil
	}

	set := value.Set{}
	addElem := func(e any) error {
		if !flatLiteral(e) || !value.Comparable(e) {
			return errAt(open.line, "invalid set element")
		}
		set[e] = struct{}{}
		return nil
	}
	if err := addElem(first); err != nil {
		return nil, err
	}
	for p.tok.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elem, err := p.literal()
		if err != nil {
			return nil, err
		}
		if err := addElem(elem); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return set, nil
}

func (p *parser) dictEntry(m map[any]any, key any, line int) error {
	if _, err := p.expect(tokColon); err != nil {
		return err
	}
	val, err := p.literal()
	if err != nil {
		return err
	}
	if err := checkDictKey(key, line); err != nil {
		return err
	}
	m[key] = val
	return nil
}

// flatLiteral reports whether v may serve as a dict key or set element:
// containers are excluded even when technically comparable.
func flatLiteral(v any) bool {
	switch v.(type) {
	case *listNode, map[any]any, value.Set:
		return false
	}
	return true
}

// checkDictKey gates every key used to index a mapping, whether it came from
// a brace literal or an accessor path. Container keys have no place in the
// grammar regardless of where they appear.
func checkDictKey(key any, line int) error {
	if !flatLiteral(key) || !value.Comparable(key) {
		return errAt(line, "invalid dict key")
	}
	return nil
}

// finalize unboxes listNodes into plain slices, in place for maps and sets.
func finalizeMap(m map[any]any) {
	for k, v := range m {
		m[k] = finalizeValue(v)
	}
}

func finalizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		finalizeMap(t)
		return t
	case *listNode:
		out := make([]any, len(t.elems))
		for i, e := range t.elems {
			out[i] = finalizeValue(e)
		}
		return out
	default:
		return v
	}
}
