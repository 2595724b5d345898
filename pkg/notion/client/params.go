package client

import (
	"github.com/diwise/notion-sugar/pkg/notion"
)

type QueryDecoratorFunc func(*notion.Query)

func Filter(filter notion.Filter) QueryDecoratorFunc {
	return func(q *notion.Query) {
		q.Filter = filter
	}
}

func Sorts(sorts ...notion.Sort) QueryDecoratorFunc {
	return func(q *notion.Query) {
		q.Sorts = append(q.Sorts, sorts...)
	}
}

func StartCursor(cursor string) QueryDecoratorFunc {
	return func(q *notion.Query) {
		q.StartCursor = cursor
	}
}

func PageSize(size int) QueryDecoratorFunc {
	return func(q *notion.Query) {
		q.PageSize = size
	}
}
