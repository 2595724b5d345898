package records

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/notion-sugar/internal/pkg/application/sugar"
	"github.com/diwise/notion-sugar/pkg/notion/database"
	notionerrors "github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

const pageID string = "59833787-2cf9-4fdf-8782-e53db20768a5"

func TestListRecordsWithConditions(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodGet, "/api/v0/databases/tasks/records?Done=false&Priority=High", "", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, `[{"Name":"Ship v2","id":"`+pageID+`","title":"Ship v2"}]`)

	is.Equal(app.conditions["Done"], false)
	is.Equal(app.conditions["Priority"], "High")
}

func TestRetrieveSchema(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodGet, "/api/v0/databases/tasks/schema", "", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, `[{"name":"Name","type":"title"},{"name":"Priority","type":"select","options":["Low","High"]}]`)
}

func TestAddRecord(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodPost, "/api/v0/databases/tasks/records", "s3cr3t",
		bytes.NewBufferString(`{"fields":{"Name":"Ship v2","Service":["API"]},"types":{"Service":"multi_select"}}`))

	is.Equal(resp.StatusCode, http.StatusCreated)
	is.Equal(resp.Header.Get("Location"), "/api/v0/databases/tasks/records/"+pageID)
	is.Equal(body, `{"record":{"Name":"Ship v2","id":"`+pageID+`","title":"Ship v2"},"warnings":["Priority: invalid option"]}`)

	is.Equal(app.declared["Service"], properties.KindMultiSelect)
}

func TestAddRecordRequiresToken(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodPost, "/api/v0/databases/tasks/records", "", bytes.NewBufferString(`{"fields":{"Name":"x"}}`))

	is.Equal(resp.StatusCode, http.StatusUnauthorized)
	is.Equal(app.adds, 0)
}

func TestAddRecordWithBadDataReturnsBadRequest(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodPost, "/api/v0/databases/tasks/records", "s3cr3t", bytes.NewBufferString("this is not my json"))
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = newTestRequest(is, ts, http.MethodPost, "/api/v0/databases/tasks/records", "s3cr3t", bytes.NewBufferString(`{"fields":{}}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestAddRecordWithWrongContentTypeReturnsUnsupportedMediaType(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v0/databases/tasks/records", bytes.NewBufferString(`{}`))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusUnsupportedMediaType)
}

func TestUpdateRecordValidationError(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.updateErr = notionerrors.NewValidationError("invalid value \"Urgent\" for Priority")

	resp, body := newTestRequest(is, ts, http.MethodPatch, "/api/v0/databases/tasks/records/"+pageID, "s3cr3t", bytes.NewBufferString(`{"fields":{"Priority":"Urgent"}}`))

	is.Equal(resp.StatusCode, http.StatusBadRequest)
	is.Equal(resp.Header.Get("Content-Type"), "application/problem+json")
	is.True(strings.Contains(body, `"detail": "invalid value \"Urgent\" for Priority"`))
}

func TestDeleteRecord(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodDelete, "/api/v0/databases/tasks/records/"+pageID, "s3cr3t", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent)
	is.Equal(app.deleted, pageID)
}

func TestUnknownDatabaseReturnsNotFound(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodGet, "/api/v0/databases/projects/records", "", nil)

	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestUpstreamRateLimitIsReported(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.listErr = fmt.Errorf("%w: slow down", notionerrors.ErrRateLimited)

	resp, _ := newTestRequest(is, ts, http.MethodGet, "/api/v0/databases/tasks/records", "", nil)

	is.Equal(resp.StatusCode, http.StatusTooManyRequests)
}

func newTestRequest(is *is.I, ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	is.NoErr(err) // failed to read response body

	return resp, string(respBody)
}

type appSpy struct {
	conditions map[string]any
	declared   map[string]properties.Kind
	adds       int
	deleted    string

	listErr   error
	updateErr error
}

func (a *appSpy) record() database.Record {
	return database.Record{
		ID:     pageID,
		Title:  "Ship v2",
		Fields: map[string]properties.Value{"Name": properties.Text("Ship v2")},
	}
}

func (a *appSpy) Schema(ctx context.Context, db string) (properties.Schema, error) {
	if db != "tasks" {
		return nil, notionerrors.NewNotFoundError("no database named " + db)
	}
	return properties.Schema{
		"Name":     {Name: "Name", Kind: properties.KindTitle},
		"Priority": {Name: "Priority", Kind: properties.KindSelect, Options: []string{"Low", "High"}},
	}, nil
}

func (a *appSpy) ListRecords(ctx context.Context, db string, conditions map[string]any) ([]database.Record, error) {
	if db != "tasks" {
		return nil, notionerrors.NewNotFoundError("no database named " + db)
	}
	if a.listErr != nil {
		return nil, a.listErr
	}
	a.conditions = conditions
	return []database.Record{a.record()}, nil
}

func (a *appSpy) AddRecord(ctx context.Context, db string, input map[string]any, declared map[string]properties.Kind) (*sugar.WriteResult, error) {
	a.adds++
	a.declared = declared
	return &sugar.WriteResult{
		Record:   a.record(),
		Warnings: []error{fmt.Errorf("Priority: %w", notionerrors.ErrInvalidOption)},
	}, nil
}

func (a *appSpy) UpdateRecord(ctx context.Context, db, pageID string, input map[string]any, declared map[string]properties.Kind) (*sugar.WriteResult, error) {
	if a.updateErr != nil {
		return nil, a.updateErr
	}
	return &sugar.WriteResult{Record: a.record()}, nil
}

func (a *appSpy) DeleteRecord(ctx context.Context, db, pageID string) error {
	a.deleted = pageID
	return nil
}

func setupTest(t *testing.T) (*is.I, *httptest.Server, *appSpy) {
	is := is.New(t)
	r := chi.NewRouter()
	ts := httptest.NewServer(r)

	app := &appSpy{}

	err := RegisterHandlers(context.Background(), r, strings.NewReader(testPolicy), app)
	is.NoErr(err)

	return is, ts, app
}

const testPolicy string = `
package notionsugar.authz

default allow := false

allow = response {
    input.method == "GET"
    response := {}
}

allow = response {
    input.token == "s3cr3t"
    response := {}
}
`
