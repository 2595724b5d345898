package properties

import (
	"maps"
	"slices"
)

// Definition describes one database property. Options are only
// populated for select and multi_select kinds.
type Definition struct {
	Name    string
	Kind    Kind
	Options []string
}

func (d Definition) HasOption(name string) bool {
	return slices.Contains(d.Options, name)
}

// Schema maps property names to their definitions. Names are case-sensitive.
type Schema map[string]Definition

func (s Schema) Lookup(name string) (Definition, bool) {
	d, ok := s[name]
	return d, ok
}

// Names returns the property names in lexical order
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// TitleProperty returns the name of the title property, if the schema has one
func (s Schema) TitleProperty() (string, bool) {
	for _, name := range s.Names() {
		if s[name].Kind == KindTitle {
			return name, true
		}
	}
	return "", false
}

func (s Schema) Clone() Schema {
	clone := make(Schema, len(s))
	for name, def := range s {
		def.Options = slices.Clone(def.Options)
		clone[name] = def
	}
	return clone
}

// With returns a copy of the schema with defs merged in. Merged
// definitions replace existing ones and carry no options.
func (s Schema) With(defs map[string]Kind) Schema {
	merged := s.Clone()
	for name, kind := range defs {
		merged[name] = Definition{Name: name, Kind: kind}
	}
	return merged
}
