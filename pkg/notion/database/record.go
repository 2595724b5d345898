package database

import (
	"encoding/json"

	"github.com/diwise/notion-sugar/pkg/notion/properties"
)

// Record is a flattened database row. Fields holds a value for every
// property in the schema the record was built with.
type Record struct {
	ID     string
	Title  string
	Fields map[string]properties.Value
}

// Display returns the display form of a field, or the placeholder if the
// record has no such field
func (r Record) Display(name string) string {
	if v, ok := r.Fields[name]; ok {
		return v.String()
	}
	return properties.Placeholder
}

// MarshalJSON renders the record as a flat object with id, title and one member per field
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+2)

	for name, value := range r.Fields {
		flat[name] = properties.NativeOf(value)
	}

	flat["id"] = r.ID
	flat["title"] = r.Title

	return json.Marshal(flat)
}
