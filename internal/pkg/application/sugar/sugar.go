package sugar

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/diwise/notion-sugar/internal/pkg/application/notifications"
	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/client"
	"github.com/diwise/notion-sugar/pkg/notion/database"
	"github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/fields"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
)

// NotionSugar exposes the record use cases for the configured databases.
// Databases are referred to by their configured name or by id.
type NotionSugar interface {
	Schema(ctx context.Context, db string) (properties.Schema, error)
	ListRecords(ctx context.Context, db string, conditions map[string]any) ([]database.Record, error)
	AddRecord(ctx context.Context, db string, input map[string]any, declared map[string]properties.Kind) (*WriteResult, error)
	UpdateRecord(ctx context.Context, db, pageID string, input map[string]any, declared map[string]properties.Kind) (*WriteResult, error)
	DeleteRecord(ctx context.Context, db, pageID string) error
}

// WriteResult is a written record together with the fields that were dropped
type WriteResult struct {
	Record   database.Record
	Warnings []error
}

type binding struct {
	mu      sync.Mutex
	session *database.Session
	fields  fields.Set
}

type app struct {
	client    client.NotionClient
	notifier  notifications.Notifier
	databases map[string]DatabaseConfig

	mu       sync.Mutex
	bindings map[string]*binding
}

type Option func(*app)

func WithNotifier(n notifications.Notifier) Option {
	return func(a *app) {
		a.notifier = n
	}
}

func New(ctx context.Context, cfg Config, c client.NotionClient, options ...Option) (NotionSugar, error) {
	a := &app{
		client:    c,
		databases: map[string]DatabaseConfig{},
		bindings:  map[string]*binding{},
	}

	for _, db := range cfg.Databases {
		id, err := notion.NormalizeID(db.ID)
		if err != nil {
			return nil, fmt.Errorf("database %s: %w", db.Name, err)
		}
		db.ID = id
		a.databases[db.Name] = db
	}

	for _, option := range options {
		option(a)
	}

	return a, nil
}

// bind returns the session for db, creating it on first use. Sessions are
// only kept once their schema has been fetched. The binding lock must be
// held while the session is in use.
func (a *app) bind(ctx context.Context, db string) (*binding, error) {
	cfg, ok := a.databases[db]
	if !ok {
		id, err := notion.NormalizeID(db)
		if err != nil {
			return nil, errors.NewNotFoundError(fmt.Sprintf("no database named %s is configured", db))
		}
		cfg = DatabaseConfig{Name: id, ID: id}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if b, ok := a.bindings[cfg.ID]; ok {
		return b, nil
	}

	options := []database.SessionOption{}
	if cfg.PageSize > 0 {
		options = append(options, database.WithPageSize(cfg.PageSize))
	}

	s, err := database.NewSession(ctx, a.client, cfg.ID, options...)
	if err != nil {
		return nil, err
	}

	b := &binding{session: s, fields: cfg.FieldSet()}

	// a session without a schema is used once and refetched on the next call
	if s.SchemaLoaded() {
		a.bindings[cfg.ID] = b
	}

	return b, nil
}

func (a *app) Schema(ctx context.Context, db string) (properties.Schema, error) {
	b, err := a.bind(ctx, db)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.session.Schema().Clone(), nil
}

func (a *app) ListRecords(ctx context.Context, db string, conditions map[string]any) ([]database.Record, error) {
	b, err := a.bind(ctx, db)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	query := b.session
	for _, name := range sortedKeys(conditions) {
		query = query.Where(name, conditions[name])
	}

	return query.Rows(ctx)
}

func (a *app) AddRecord(ctx context.Context, db string, input map[string]any, declared map[string]properties.Kind) (*WriteResult, error) {
	b, err := a.bind(ctx, db)
	if err != nil {
		return nil, err
	}

	validated, err := b.fields.Validate(input)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	r, warnings, err := b.session.AddRow(ctx, validated, b.declaredTypes(declared))
	if err != nil {
		return nil, err
	}

	if a.notifier != nil {
		a.notifier.RecordCreated(ctx, b.session.DatabaseID(), r)
	}

	return &WriteResult{Record: r, Warnings: warnings}, nil
}

// UpdateRecord writes input to an existing row. Required fields and
// defaults are not applied to partial updates, options are still checked.
func (a *app) UpdateRecord(ctx context.Context, db, pageID string, input map[string]any, declared map[string]properties.Kind) (*WriteResult, error) {
	b, err := a.bind(ctx, db)
	if err != nil {
		return nil, err
	}

	if _, err = b.fields.Partial().Validate(input); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	r, warnings, err := b.session.UpdateRow(ctx, pageID, input, b.declaredTypes(declared))
	if err != nil {
		return nil, err
	}

	if a.notifier != nil {
		a.notifier.RecordUpdated(ctx, b.session.DatabaseID(), r)
	}

	return &WriteResult{Record: r, Warnings: warnings}, nil
}

func (a *app) DeleteRecord(ctx context.Context, db, pageID string) error {
	b, err := a.bind(ctx, db)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err = b.session.Delete(ctx, pageID)
	if err != nil {
		return err
	}

	if a.notifier != nil {
		a.notifier.RecordDeleted(ctx, b.session.DatabaseID(), pageID)
	}

	return nil
}

// declaredTypes overlays explicitly declared kinds on those of the configured fields
func (b *binding) declaredTypes(declared map[string]properties.Kind) map[string]properties.Kind {
	merged := b.fields.DeclaredTypes()
	maps.Copy(merged, declared)
	return merged
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
