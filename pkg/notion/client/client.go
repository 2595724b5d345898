package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate moq -rm -out ../test/notionclient_mock.go . NotionClient

type NotionClient interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	QueryDatabase(ctx context.Context, databaseID string, parameters ...QueryDecoratorFunc) (*notion.QueryResult, error)
	UpdateDatabase(ctx context.Context, databaseID string, definitions map[string]properties.Kind) (*notion.Database, error)
	CreatePage(ctx context.Context, databaseID string, props properties.Properties) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props properties.Properties) (*notion.Page, error)
	ArchivePage(ctx context.Context, pageID string) (*notion.Page, error)
}

// Config holds everything needed to talk to the API. Zero values are
// replaced by defaults, except for the token which is required.
type Config struct {
	BaseURL       string
	Token         string
	NotionVersion string
	UserAgent     string
	Timeout       time.Duration
	Debug         bool
}

const DefaultTimeout time.Duration = 60 * time.Second
const DefaultUserAgent string = "notion-sugar"

func New(cfg Config) (NotionClient, error) {
	if err := notion.ValidateToken(cfg.Token); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = notion.DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.NotionVersion == "" {
		cfg.NotionVersion = notion.DefaultNotionVersion
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &notionClient{
		cfg: cfg,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
	}

	return c, nil
}

const (
	TraceAttributeDatabaseID string = "database-id"
	TraceAttributePageID     string = "page-id"
)

var tracer = otel.Tracer("notion-client")

type notionClient struct {
	cfg        Config
	httpClient http.Client
}

func (c *notionClient) RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-database",
		trace.WithAttributes(attribute.String(TraceAttributeDatabaseID, databaseID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callAPI(
		ctx, http.MethodGet, c.cfg.BaseURL+"/databases/"+url.PathEscape(databaseID), nil,
	)
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody); err != nil {
		return nil, err
	}

	db, err := notion.NewDatabaseFromJSON(responseBody)
	if err != nil {
		err = c.unmarshalError(responseBody, err)
		return nil, err
	}

	return db, nil
}

func (c *notionClient) QueryDatabase(ctx context.Context, databaseID string, parameters ...QueryDecoratorFunc) (*notion.QueryResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "query-database",
		trace.WithAttributes(attribute.String(TraceAttributeDatabaseID, databaseID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	query := &notion.Query{}
	for _, decorate := range parameters {
		decorate(query)
	}

	body, err := json.Marshal(query)
	if err != nil {
		err = fmt.Errorf("failed to marshal query: %s (%w)", err.Error(), errors.ErrInternal)
		return nil, err
	}

	response, responseBody, err := c.callAPI(
		ctx, http.MethodPost, c.cfg.BaseURL+"/databases/"+url.PathEscape(databaseID)+"/query", bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody); err != nil {
		return nil, err
	}

	result, err := notion.NewQueryResultFromJSON(responseBody)
	if err != nil {
		err = c.unmarshalError(responseBody, err)
		return nil, err
	}

	return result, nil
}

func (c *notionClient) UpdateDatabase(ctx context.Context, databaseID string, definitions map[string]properties.Kind) (*notion.Database, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update-database",
		trace.WithAttributes(attribute.String(TraceAttributeDatabaseID, databaseID)),
		trace.WithAttributes(attribute.Int("definitions", len(definitions))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	props := make(map[string]map[string]struct{}, len(definitions))
	for name, kind := range definitions {
		props[name] = map[string]struct{}{kind.String(): {}}
	}

	body, err := json.Marshal(map[string]any{"properties": props})
	if err != nil {
		err = fmt.Errorf("failed to marshal database update: %s (%w)", err.Error(), errors.ErrInternal)
		return nil, err
	}

	response, responseBody, err := c.callAPI(
		ctx, http.MethodPatch, c.cfg.BaseURL+"/databases/"+url.PathEscape(databaseID), bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody); err != nil {
		return nil, err
	}

	db, err := notion.NewDatabaseFromJSON(responseBody)
	if err != nil {
		err = c.unmarshalError(responseBody, err)
		return nil, err
	}

	return db, nil
}

func (c *notionClient) CreatePage(ctx context.Context, databaseID string, props properties.Properties) (*notion.Page, error) {
	var err error

	ctx, span := tracer.Start(ctx, "create-page",
		trace.WithAttributes(attribute.String(TraceAttributeDatabaseID, databaseID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	request := struct {
		Parent     notion.Parent         `json:"parent"`
		Properties properties.Properties `json:"properties"`
	}{
		Parent:     notion.DatabaseParent(databaseID),
		Properties: props,
	}

	page, err := c.sendPage(ctx, http.MethodPost, c.cfg.BaseURL+"/pages", request)
	return page, err
}

func (c *notionClient) UpdatePage(ctx context.Context, pageID string, props properties.Properties) (*notion.Page, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update-page",
		trace.WithAttributes(attribute.String(TraceAttributePageID, pageID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	request := struct {
		Properties properties.Properties `json:"properties"`
	}{
		Properties: props,
	}

	page, err := c.sendPage(ctx, http.MethodPatch, c.cfg.BaseURL+"/pages/"+url.PathEscape(pageID), request)
	return page, err
}

func (c *notionClient) ArchivePage(ctx context.Context, pageID string) (*notion.Page, error) {
	var err error

	ctx, span := tracer.Start(ctx, "archive-page",
		trace.WithAttributes(attribute.String(TraceAttributePageID, pageID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	request := struct {
		Archived bool `json:"archived"`
	}{
		Archived: true,
	}

	page, err := c.sendPage(ctx, http.MethodPatch, c.cfg.BaseURL+"/pages/"+url.PathEscape(pageID), request)
	return page, err
}

func (c *notionClient) sendPage(ctx context.Context, method, endpoint string, request any) (*notion.Page, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal page request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	response, responseBody, err := c.callAPI(ctx, method, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody); err != nil {
		return nil, err
	}

	page, err := notion.NewPageFromJSON(responseBody)
	if err != nil {
		return nil, c.unmarshalError(responseBody, err)
	}

	return page, nil
}

func checkResponse(response *http.Response, responseBody []byte) error {
	if response.StatusCode == http.StatusOK {
		return nil
	}

	contentType := response.Header.Get("Content-Type")
	if response.StatusCode >= http.StatusBadRequest {
		return errors.NewErrorFromResponse(response.StatusCode, contentType, responseBody)
	}

	return fmt.Errorf("unexpected response code %d (content-type: %s) (%w)", response.StatusCode, contentType, errors.ErrInternal)
}

func (c *notionClient) unmarshalError(responseBody []byte, err error) error {
	if c.cfg.Debug && len(responseBody) < 1000 {
		return fmt.Errorf("unmarshaling of %s failed with err %s (%w)", string(responseBody), err.Error(), errors.ErrBadResponse)
	}
	return fmt.Errorf("%s (%w)", err.Error(), errors.ErrBadResponse)
}

func (c *notionClient) callAPI(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	req.Header.Add("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Add("Notion-Version", c.cfg.NotionVersion)
	req.Header.Add("User-Agent", c.cfg.UserAgent)
	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.cfg.Debug && resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusNotFound {
			req.Header.Del("Authorization")
			reqbytes, _ := httputil.DumpRequest(req, false)
			respbytes, _ := httputil.DumpResponse(resp, false)

			log := logging.GetFromContext(ctx)
			log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
		}
	}

	return resp, respBody, nil
}
