package replay

import "github.com/mutlog/mutlog/store"

// Symbols resolves the qualified references (Name.Member) a type handler may
// have written into a log. Logs containing only stock literals replay with a
// nil Symbols.
type Symbols map[string]map[string]any

// NewSymbols returns an empty symbol table.
func NewSymbols() Symbols {
	return make(Symbols)
}

// Expose registers the members of one named type.
func (s Symbols) Expose(name string, members map[string]any) {
	s[name] = members
}

// ExposeEnum registers the same name and members an EnumHandler emits, so a
// store's handler chain and its replay symbols cannot drift apart.
func (s Symbols) ExposeEnum(h *store.EnumHandler) {
	s.Expose(h.Name(), h.Members())
}

func (s Symbols) resolve(name, member string) (any, bool) {
	members, ok := s[name]
	if !ok {
		return nil, false
	}
	v, ok := members[member]
	return v, ok
}
