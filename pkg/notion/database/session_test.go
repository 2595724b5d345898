package database

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/client"
	notionerrors "github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/notion-sugar/pkg/notion/test"
	"github.com/matryer/is"
)

const databaseID string = "8e2c2b76-9e1e-4f0b-a5b1-3f3d3b0c1a11"

func TestBuildRecordFillsEverySchemaKey(t *testing.T) {
	is := is.New(t)

	s, _ := testSetup(is, nil)

	r := s.BuildRecord(notion.Page{
		ID: "p1",
		Properties: properties.Properties{
			"Name":  properties.TitleProperty{Title: properties.NewRichText("Ship v2")},
			"Notes": properties.RichTextProperty{RichText: []properties.RichText{}},
			"Extra": properties.URLProperty{},
		},
	})

	is.Equal(r.ID, "p1")
	is.Equal(r.Title, "Ship v2")
	is.Equal(r.Display("Notes"), properties.Placeholder)
	is.Equal(r.Display("Priority"), properties.Placeholder)
	is.Equal(r.Fields["Tags"], properties.StringList{properties.Placeholder})
	is.Equal(r.Display("Done"), "no")
	is.Equal(r.Display("Extra"), properties.Placeholder)
	is.Equal(len(r.Fields), 6)

	b, err := json.Marshal(r)
	is.NoErr(err)
	is.Equal(string(b), `{"Done":false,"Extra":"N/A","Name":"Ship v2","Notes":"N/A","Priority":"N/A","Tags":["N/A"],"id":"p1","title":"Ship v2"}`)
}

func TestRowsFollowsCursorsAcrossPages(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, [][]string{{"a", "b"}, {"c"}, {"d"}})

	rows, err := s.Rows(context.Background())
	is.NoErr(err)
	is.Equal(len(rows), 4)
	is.Equal(rows[0].Title, "a")
	is.Equal(rows[3].Title, "d")

	calls := c.QueryDatabaseCalls()
	is.Equal(len(calls), 3)
	is.Equal(applyParams(calls[1].Parameters).StartCursor, "1")
	is.Equal(applyParams(calls[0].Parameters).PageSize, DefaultPageSize)
}

func TestPaginateIsLazy(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, [][]string{{"a", "b"}, {"c"}, {"d"}})

	for r, err := range s.Paginate(context.Background()) {
		is.NoErr(err)
		if r.Title == "b" {
			break
		}
	}

	is.Equal(len(c.QueryDatabaseCalls()), 1)
}

func TestWhereAndOrderByNarrowACopy(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, [][]string{{"a"}})

	narrowed := s.Where("Done", true).Where("Priority", "High").Where("Estimate", 3).OrderBy("Name", true)
	_, err := narrowed.Rows(context.Background())
	is.NoErr(err)

	q := applyParams(c.QueryDatabaseCalls()[0].Parameters)
	b, _ := json.Marshal(q.Filter)
	is.Equal(string(b), `{"and":[{"checkbox":{"equals":true},"property":"Done"},{"property":"Priority","select":{"equals":"High"}},{"number":{"equals":3},"property":"Estimate"}]}`)
	is.Equal(q.Sorts, []notion.Sort{{Property: "Name", Direction: notion.Descending}})

	_, err = s.Rows(context.Background())
	is.NoErr(err)

	q = applyParams(c.QueryDatabaseCalls()[1].Parameters)
	is.True(q.Filter == nil)
	is.Equal(len(q.Sorts), 0)
}

func TestFirstAndCount(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, [][]string{{"a", "b"}, {"c"}})

	first, err := s.First(context.Background())
	is.NoErr(err)
	is.Equal(first.Title, "a")
	is.Equal(applyParams(c.QueryDatabaseCalls()[0].Parameters).PageSize, 1)

	count, err := s.Count(context.Background())
	is.NoErr(err)
	is.Equal(count, 3)
}

func TestFirstOnEmptyResult(t *testing.T) {
	is := is.New(t)

	s, _ := testSetup(is, [][]string{{}})

	_, err := s.First(context.Background())
	is.True(errors.Is(err, notionerrors.ErrNotFound))
}

func TestAddRowDropsInvalidSelectAndProceeds(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, nil)

	record, warnings, err := s.AddRow(context.Background(), map[string]any{
		"Name":     "Ship v2",
		"Priority": "Medium",
		"Tags":     []string{"api", "infra"},
	}, nil)
	is.NoErr(err)
	is.Equal(record.ID, "new-page")

	is.Equal(len(warnings), 1)
	is.True(errors.Is(warnings[0], notionerrors.ErrInvalidOption))

	calls := c.CreatePageCalls()
	is.Equal(len(calls), 1)
	is.Equal(calls[0].DatabaseID, databaseID)

	b, _ := json.Marshal(calls[0].Props)
	is.Equal(string(b), `{"Name":{"title":[{"text":{"content":"Ship v2"}}]},"Tags":{"multi_select":[{"name":"api"},{"name":"infra"}]}}`)
}

func TestAddRowWithNewFieldPatchesSchemaFirst(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, nil)

	_, warnings, err := s.AddRow(context.Background(), map[string]any{
		"Name":    "Ship v2",
		"Service": []string{"API"},
	}, map[string]properties.Kind{"Service": properties.KindMultiSelect})
	is.NoErr(err)
	is.Equal(len(warnings), 0)

	is.Equal(len(c.UpdateDatabaseCalls()), 1)
	is.Equal(c.UpdateDatabaseCalls()[0].Definitions, map[string]properties.Kind{"Service": properties.KindMultiSelect})

	def, ok := s.Schema().Lookup("Service")
	is.True(ok)
	is.Equal(def.Kind, properties.KindMultiSelect)
}

func TestUpdateWritesEveryMatchingRow(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, [][]string{{"a", "b"}, {"c"}})

	updated, warnings, err := s.Where("Done", false).Update(context.Background(), map[string]any{"Done": true}, nil)
	is.NoErr(err)
	is.Equal(len(warnings), 0)
	is.Equal(len(updated), 3)

	calls := c.UpdatePageCalls()
	is.Equal(len(calls), 3)
	is.Equal(calls[2].PageID, "c")
	is.Equal(calls[0].Props["Done"], properties.CheckboxProperty{Checkbox: true})
}

func TestUpdateRowAndDeleteValidateIDs(t *testing.T) {
	is := is.New(t)

	s, c := testSetup(is, nil)

	_, _, err := s.UpdateRow(context.Background(), "abc123", map[string]any{"Name": "x"}, nil)
	is.True(errors.Is(err, notionerrors.ErrInvalidID))

	err = s.Delete(context.Background(), "abc123")
	is.True(errors.Is(err, notionerrors.ErrInvalidID))

	err = s.Delete(context.Background(), "59833787-2cf9-4fdf-8782-e53db20768a5")
	is.NoErr(err)
	is.Equal(c.ArchivePageCalls()[0].PageID, "59833787-2cf9-4fdf-8782-e53db20768a5")
}

func TestNewSessionWithUnreachableSchema(t *testing.T) {
	is := is.New(t)

	c := &test.NotionClientMock{
		RetrieveDatabaseFunc: func(ctx context.Context, databaseID string) (*notion.Database, error) {
			return nil, notionerrors.ErrRequest
		},
	}

	s, err := NewSession(context.Background(), c, "https://www.notion.so/ws/Tasks-8e2c2b769e1e4f0ba5b13f3d3b0c1a11?v=1")
	is.NoErr(err)
	is.Equal(s.DatabaseID(), databaseID)
	is.Equal(len(s.Schema()), 0)
	is.True(!s.SchemaLoaded())

	_, err = NewSession(context.Background(), c, "not a database")
	is.True(errors.Is(err, notionerrors.ErrInvalidID))
}

func applyParams(params []client.QueryDecoratorFunc) notion.Query {
	q := notion.Query{}
	for _, p := range params {
		p(&q)
	}
	return q
}

func titledPage(id string) notion.Page {
	return notion.Page{
		ID: id,
		Properties: properties.Properties{
			"Name": properties.TitleProperty{Title: properties.NewRichText(id)},
		},
	}
}

// testSetup returns a session over a mocked database whose query results
// are served from pages, one slice of page ids per result page
func testSetup(is *is.I, pages [][]string) (*Session, *test.NotionClientMock) {
	c := &test.NotionClientMock{
		RetrieveDatabaseFunc: func(ctx context.Context, databaseID string) (*notion.Database, error) {
			return &notion.Database{
				ID: databaseID,
				Properties: map[string]notion.PropertySchema{
					"Name":     {Type: "title"},
					"Notes":    {Type: "rich_text"},
					"Priority": {Type: "select", Select: &notion.OptionSet{Options: []properties.Option{{Name: "Low"}, {Name: "High"}}}},
					"Tags":     {Type: "multi_select"},
					"Done":     {Type: "checkbox"},
				},
			}, nil
		},
		UpdateDatabaseFunc: func(ctx context.Context, databaseID string, definitions map[string]properties.Kind) (*notion.Database, error) {
			return &notion.Database{ID: databaseID}, nil
		},
		QueryDatabaseFunc: func(ctx context.Context, databaseID string, parameters ...client.QueryDecoratorFunc) (*notion.QueryResult, error) {
			q := applyParams(parameters)

			idx := 0
			if q.StartCursor != "" {
				idx, _ = strconv.Atoi(q.StartCursor)
			}

			result := &notion.QueryResult{Results: []notion.Page{}}
			if idx < len(pages) {
				for _, id := range pages[idx] {
					result.Results = append(result.Results, titledPage(id))
				}
			}

			if idx < len(pages)-1 {
				next := strconv.Itoa(idx + 1)
				result.HasMore = true
				result.NextCursor = &next
			}

			return result, nil
		},
		CreatePageFunc: func(ctx context.Context, databaseID string, props properties.Properties) (*notion.Page, error) {
			return &notion.Page{ID: "new-page", Properties: props}, nil
		},
		UpdatePageFunc: func(ctx context.Context, pageID string, props properties.Properties) (*notion.Page, error) {
			return &notion.Page{ID: pageID, Properties: props}, nil
		},
		ArchivePageFunc: func(ctx context.Context, pageID string) (*notion.Page, error) {
			return &notion.Page{ID: pageID, Archived: true}, nil
		},
	}

	s, err := NewSession(context.Background(), c, databaseID)
	is.NoErr(err)

	return s, c
}
