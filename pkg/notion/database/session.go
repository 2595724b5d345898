package database

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/client"
	"github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/pagination"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/diwise/notion-sugar/pkg/notion/schema"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultPageSize int = 100

var tracer = otel.Tracer("notion-database")

// Session binds a client to a single database and owns its schema
// registry. A session is meant for one caller at a time. Where and OrderBy
// return narrowed copies that share the registry.
type Session struct {
	client   client.NotionClient
	registry *schema.Registry
	filters  []notion.Filter
	sorts    []notion.Sort
	pageSize int
}

type SessionOption func(*Session)

func WithPageSize(size int) SessionOption {
	return func(s *Session) {
		s.pageSize = size
	}
}

// NewSession validates the database id and fetches its schema. A failed
// schema fetch is logged and leaves the session with an empty schema.
func NewSession(ctx context.Context, c client.NotionClient, databaseID string, options ...SessionOption) (*Session, error) {
	id, err := notion.NormalizeID(databaseID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		client:   c,
		registry: schema.NewRegistry(c, id),
		pageSize: DefaultPageSize,
	}

	for _, option := range options {
		option(s)
	}

	_, _ = s.registry.Fetch(ctx)

	return s, nil
}

func (s *Session) DatabaseID() string {
	return s.registry.DatabaseID()
}

// SchemaLoaded reports whether the schema was fetched successfully. An
// unloaded session treats every written field as a new property.
func (s *Session) SchemaLoaded() bool {
	return s.registry.Loaded()
}

func (s *Session) Schema() properties.Schema {
	return s.registry.Schema()
}

// Refresh refetches the schema, e.g. to learn the options of select fields added by a previous write
func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.registry.Fetch(ctx)
	return err
}

// BuildRecord decodes a page using the cached schema. Properties on the page
// that are missing from the schema are decoded by their own kind.
func (s *Session) BuildRecord(page notion.Page) Record {
	current := s.registry.Schema()

	r := Record{
		ID:     page.ID,
		Title:  properties.Placeholder,
		Fields: properties.DecodeAll(current, page.Properties),
	}

	for name, prop := range page.Properties {
		if _, ok := current[name]; !ok {
			r.Fields[name] = properties.Decode(prop.Kind(), prop)
		}

		if prop.Kind() == properties.KindTitle {
			r.Title = r.Fields[name].String()
		}
	}

	return r
}

// BuildWireProperties reconciles fields with the schema, adding unknown
// fields to the database, and returns the encoded properties
func (s *Session) BuildWireProperties(ctx context.Context, fields map[string]any, declared map[string]properties.Kind) schema.Result {
	return schema.Reconcile(ctx, s.registry, fields, declared)
}

// Where narrows the query with an equality condition on a property. The
// condition is chosen by the property's kind in the schema, or by the
// runtime type of value if the property is unknown.
func (s *Session) Where(name string, value any) *Session {
	narrowed := s.clone()
	narrowed.filters = append(narrowed.filters, filterFor(s.registry.Schema(), name, value))
	return narrowed
}

func (s *Session) OrderBy(name string, descending bool) *Session {
	direction := notion.Ascending
	if descending {
		direction = notion.Descending
	}

	ordered := s.clone()
	ordered.sorts = append(ordered.sorts, notion.Sort{Property: name, Direction: direction})
	return ordered
}

func (s *Session) clone() *Session {
	return &Session{
		client:   s.client,
		registry: s.registry,
		filters:  slices.Clone(s.filters),
		sorts:    slices.Clone(s.sorts),
		pageSize: s.pageSize,
	}
}

// Pages returns the raw pages matching the current filters and sorts
func (s *Session) Pages(ctx context.Context, opts ...pagination.Option) iter.Seq2[notion.Page, error] {
	opts = append([]pagination.Option{pagination.PageSize(s.pageSize)}, opts...)
	return pagination.Iterate(ctx, s.fetchPage, opts...)
}

func (s *Session) fetchPage(ctx context.Context, cursor string, pageSize int) (*pagination.Page[notion.Page], error) {
	params := []client.QueryDecoratorFunc{}

	if len(s.filters) > 0 {
		params = append(params, client.Filter(notion.And(s.filters...)))
	}
	if len(s.sorts) > 0 {
		params = append(params, client.Sorts(s.sorts...))
	}
	if cursor != "" {
		params = append(params, client.StartCursor(cursor))
	}
	if pageSize > 0 {
		params = append(params, client.PageSize(pageSize))
	}

	result, err := s.client.QueryDatabase(ctx, s.DatabaseID(), params...)
	if err != nil {
		return nil, err
	}

	return &pagination.Page[notion.Page]{
		Results:    result.Results,
		HasMore:    result.HasMore,
		NextCursor: result.NextCursor,
	}, nil
}

// Paginate lazily decodes every matching row into a record
func (s *Session) Paginate(ctx context.Context, opts ...pagination.Option) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for page, err := range s.Pages(ctx, opts...) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(s.BuildRecord(page), nil) {
				return
			}
		}
	}
}

// Rows returns every matching row
func (s *Session) Rows(ctx context.Context) ([]Record, error) {
	var err error

	ctx, span := tracer.Start(ctx, "rows", trace.WithAttributes(attribute.String("database-id", s.DatabaseID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	records := []Record{}
	for r, e := range s.Paginate(ctx) {
		if e != nil {
			err = e
			return nil, err
		}
		records = append(records, r)
	}

	return records, nil
}

// First returns the first matching row, or an error wrapping ErrNotFound
func (s *Session) First(ctx context.Context) (*Record, error) {
	for r, err := range s.Paginate(ctx, pagination.PageSize(1)) {
		if err != nil {
			return nil, err
		}
		return &r, nil
	}

	return nil, errors.NewNotFoundError(fmt.Sprintf("no rows in database %s match the query", s.DatabaseID()))
}

func (s *Session) Count(ctx context.Context) (int, error) {
	count := 0
	for _, err := range s.Pages(ctx) {
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// AddRow creates a row from fields. Fields that could not be written are
// reported in the returned warnings.
func (s *Session) AddRow(ctx context.Context, fields map[string]any, declared map[string]properties.Kind) (Record, []error, error) {
	var err error

	ctx, span := tracer.Start(ctx, "add-row", trace.WithAttributes(attribute.String("database-id", s.DatabaseID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := s.BuildWireProperties(ctx, fields, declared)

	page, err := s.client.CreatePage(ctx, s.DatabaseID(), result.Properties)
	if err != nil {
		return Record{}, result.Warnings, err
	}

	logging.GetFromContext(ctx).Debug("row added", "database_id", s.DatabaseID(), "page_id", page.ID)

	return s.BuildRecord(*page), result.Warnings, nil
}

// UpdateRow writes fields to a single row
func (s *Session) UpdateRow(ctx context.Context, pageID string, fields map[string]any, declared map[string]properties.Kind) (Record, []error, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update-row", trace.WithAttributes(attribute.String("page-id", pageID)))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	id, err := notion.NormalizeID(pageID)
	if err != nil {
		return Record{}, nil, err
	}

	result := s.BuildWireProperties(ctx, fields, declared)

	page, err := s.client.UpdatePage(ctx, id, result.Properties)
	if err != nil {
		return Record{}, result.Warnings, err
	}

	return s.BuildRecord(*page), result.Warnings, nil
}

// Update writes fields to every row matching the current filters and
// returns the updated rows. The schema is reconciled once for all rows.
func (s *Session) Update(ctx context.Context, fields map[string]any, declared map[string]properties.Kind) ([]Record, []error, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update", trace.WithAttributes(attribute.String("database-id", s.DatabaseID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	pages, err := pagination.Collect(ctx, s.fetchPage, pagination.PageSize(s.pageSize))
	if err != nil {
		return nil, nil, err
	}

	result := s.BuildWireProperties(ctx, fields, declared)

	updated := make([]Record, 0, len(pages))
	for _, p := range pages {
		page, e := s.client.UpdatePage(ctx, p.ID, result.Properties)
		if e != nil {
			err = e
			return updated, result.Warnings, err
		}
		updated = append(updated, s.BuildRecord(*page))
	}

	return updated, result.Warnings, nil
}

// Delete archives a row
func (s *Session) Delete(ctx context.Context, pageID string) error {
	var err error

	ctx, span := tracer.Start(ctx, "delete", trace.WithAttributes(attribute.String("page-id", pageID)))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	id, err := notion.NormalizeID(pageID)
	if err != nil {
		return err
	}

	_, err = s.client.ArchivePage(ctx, id)
	return err
}
