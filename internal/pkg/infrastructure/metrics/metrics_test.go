package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/client"
	notionerrors "github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/notion-sugar/pkg/notion/test"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestQueriesAreCountedWithRows(t *testing.T) {
	is, m, c := testSetup(t)

	_, err := c.QueryDatabase(context.Background(), "db")
	is.NoErr(err)
	_, err = c.QueryDatabase(context.Background(), "db")
	is.NoErr(err)

	is.Equal(testutil.ToFloat64(m.RequestsTotal.WithLabelValues("query-database", StatusOK)), 2.0)
	is.Equal(testutil.ToFloat64(m.RowsFetched), 4.0)
}

func TestFailuresAreLabelledByCause(t *testing.T) {
	is, m, c := testSetup(t)

	_, err := c.RetrieveDatabase(context.Background(), "db")
	is.True(err != nil)

	is.Equal(testutil.ToFloat64(m.RequestsTotal.WithLabelValues("retrieve-database", "rate_limited")), 1.0)
	is.Equal(testutil.ToFloat64(m.RequestsTotal.WithLabelValues("retrieve-database", StatusOK)), 0.0)
}

func TestSchemaPatchesCountProperties(t *testing.T) {
	is, m, c := testSetup(t)

	_, err := c.UpdateDatabase(context.Background(), "db", map[string]properties.Kind{
		"Service": properties.KindMultiSelect,
		"Owner":   properties.KindRichText,
	})
	is.NoErr(err)

	is.Equal(testutil.ToFloat64(m.SchemaPatches), 2.0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	is, m, c := testSetup(t)

	_, _ = c.ArchivePage(context.Background(), "p1")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	is.Equal(w.Code, http.StatusOK)
	is.True(strings.Contains(w.Body.String(), `notion_sugar_api_requests_total{operation="archive-page",status="ok"} 1`))
}

func testSetup(t *testing.T) (*is.I, *Metrics, client.NotionClient) {
	is := is.New(t)
	m := NewMetrics()

	c := &test.NotionClientMock{
		RetrieveDatabaseFunc: func(ctx context.Context, databaseID string) (*notion.Database, error) {
			return nil, notionerrors.ErrRateLimited
		},
		QueryDatabaseFunc: func(ctx context.Context, databaseID string, parameters ...client.QueryDecoratorFunc) (*notion.QueryResult, error) {
			return &notion.QueryResult{Results: []notion.Page{{ID: "a"}, {ID: "b"}}}, nil
		},
		UpdateDatabaseFunc: func(ctx context.Context, databaseID string, definitions map[string]properties.Kind) (*notion.Database, error) {
			return &notion.Database{ID: databaseID}, nil
		},
		ArchivePageFunc: func(ctx context.Context, pageID string) (*notion.Page, error) {
			return &notion.Page{ID: pageID, Archived: true}, nil
		},
	}

	return is, m, Instrument(c, m)
}
