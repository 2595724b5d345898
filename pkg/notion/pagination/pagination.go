package pagination

import (
	"context"
	"iter"
)

// Page is one batch of results together with its continuation state
type Page[T any] struct {
	Results    []T
	HasMore    bool
	NextCursor *string
}

// FetchFunc fetches the page starting at cursor. An empty cursor denotes
// the start of the results.
type FetchFunc[T any] func(ctx context.Context, cursor string, pageSize int) (*Page[T], error)

type options struct {
	startCursor string
	pageSize    int
}

type Option func(*options)

func StartCursor(cursor string) Option {
	return func(o *options) {
		o.startCursor = cursor
	}
}

// PageSize is passed through to every fetch. Zero leaves the page size to the server.
func PageSize(size int) Option {
	return func(o *options) {
		o.pageSize = size
	}
}

// Iterate returns a lazy sequence of all items across all pages. Pages are
// fetched on demand and the sequence ends when a page reports that there
// are no more results or when it lacks a next cursor. A nil page is treated
// as a final empty page. A failed fetch is
// yielded once as an error and ends the sequence. The sequence is single
// use: ranging over it again yields nothing, call Iterate to run the query
// anew.
func Iterate[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) iter.Seq2[T, error] {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	done := false

	return func(yield func(T, error) bool) {
		if done {
			return
		}
		done = true

		cursor := cfg.startCursor

		for {
			page, err := fetch(ctx, cursor, cfg.pageSize)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			if page == nil {
				return
			}

			for _, item := range page.Results {
				if !yield(item, nil) {
					return
				}
			}

			if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
				return
			}

			cursor = *page.NextCursor
		}
	}
}

// Collect blocks until every page has been fetched and returns all items in
// fetch order. Items collected before a failed fetch are returned along
// with the error.
func Collect[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) ([]T, error) {
	result := []T{}

	for item, err := range Iterate(ctx, fetch, opts...) {
		if err != nil {
			return result, err
		}
		result = append(result, item)
	}

	return result, nil
}
