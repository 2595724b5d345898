package notion

import (
	"encoding/json"
	"fmt"

	"github.com/diwise/notion-sugar/pkg/notion/properties"
)

const (
	DefaultBaseURL       string = "https://api.notion.com/v1"
	DefaultNotionVersion string = "2022-06-28"
)

// Database is the subset of a database object that describes its property schema
type Database struct {
	Object     string                    `json:"object"`
	ID         string                    `json:"id"`
	Title      []properties.RichText     `json:"title,omitempty"`
	Properties map[string]PropertySchema `json:"properties"`
}

type PropertySchema struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name,omitempty"`
	Type        string     `json:"type"`
	Select      *OptionSet `json:"select,omitempty"`
	MultiSelect *OptionSet `json:"multi_select,omitempty"`
}

type OptionSet struct {
	Options []properties.Option `json:"options"`
}

// Schema converts the property descriptions of the database into definitions
func (db Database) Schema() properties.Schema {
	schema := make(properties.Schema, len(db.Properties))

	for name, ps := range db.Properties {
		def := properties.Definition{
			Name: name,
			Kind: properties.ParseKind(ps.Type),
		}

		var set *OptionSet
		switch def.Kind {
		case properties.KindSelect:
			set = ps.Select
		case properties.KindMultiSelect:
			set = ps.MultiSelect
		}

		if set != nil {
			for _, o := range set.Options {
				def.Options = append(def.Options, o.Name)
			}
		}

		schema[name] = def
	}

	return schema
}

type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id"`
}

func DatabaseParent(databaseID string) Parent {
	return Parent{Type: "database_id", DatabaseID: databaseID}
}

// Page is a database row
type Page struct {
	Object         string                `json:"object"`
	ID             string                `json:"id"`
	CreatedTime    string                `json:"created_time,omitempty"`
	LastEditedTime string                `json:"last_edited_time,omitempty"`
	Archived       bool                  `json:"archived,omitempty"`
	URL            string                `json:"url,omitempty"`
	Parent         *Parent               `json:"parent,omitempty"`
	Properties     properties.Properties `json:"properties"`
}

// QueryResult is one page of results from a database query
type QueryResult struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Filter is a database query filter object, i.e. a property condition or a compound and/or filter
type Filter map[string]any

// PropertyFilter creates a condition such as {"property": name, "checkbox": {"equals": true}}
func PropertyFilter(name string, kind properties.Kind, condition string, value any) Filter {
	return Filter{
		"property":    name,
		kind.String(): map[string]any{condition: value},
	}
}

// And combines filters. A single filter is returned as is.
func And(filters ...Filter) Filter {
	if len(filters) == 1 {
		return filters[0]
	}
	return Filter{"and": filters}
}

type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

type Sort struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

// Query is the body of a database query request
type Query struct {
	Filter      Filter `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// NewDatabaseFromJSON decodes a database object
func NewDatabaseFromJSON(body []byte) (*Database, error) {
	db := &Database{}
	if err := json.Unmarshal(body, db); err != nil {
		return nil, fmt.Errorf("failed to unmarshal database: %w", err)
	}
	return db, nil
}

// NewPageFromJSON decodes a page object
func NewPageFromJSON(body []byte) (*Page, error) {
	p := &Page{}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page: %w", err)
	}
	return p, nil
}

// NewQueryResultFromJSON decodes a paginated query response
func NewQueryResultFromJSON(body []byte) (*QueryResult, error) {
	qr := &QueryResult{}
	if err := json.Unmarshal(body, qr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return qr, nil
}
