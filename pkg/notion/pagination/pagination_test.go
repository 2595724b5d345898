package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/matryer/is"
)

type fetchCall struct {
	cursor   string
	pageSize int
}

func pagedSource(pages [][]int) (FetchFunc[int], *[]fetchCall) {
	calls := &[]fetchCall{}

	return func(ctx context.Context, cursor string, pageSize int) (*Page[int], error) {
		*calls = append(*calls, fetchCall{cursor: cursor, pageSize: pageSize})

		idx := 0
		if cursor != "" {
			idx, _ = strconv.Atoi(cursor)
		}

		page := &Page[int]{Results: pages[idx]}
		if idx < len(pages)-1 {
			next := strconv.Itoa(idx + 1)
			page.HasMore = true
			page.NextCursor = &next
		}

		return page, nil
	}, calls
}

func TestCollectFetchesAllPagesInOrder(t *testing.T) {
	is := is.New(t)

	fetch, calls := pagedSource([][]int{{1, 2}, {3}, {4, 5, 6}})

	items, err := Collect(context.Background(), fetch, PageSize(3))
	is.NoErr(err)
	is.Equal(items, []int{1, 2, 3, 4, 5, 6})
	is.Equal(*calls, []fetchCall{{"", 3}, {"1", 3}, {"2", 3}})
}

func TestIterateYieldsSameSequenceAsCollect(t *testing.T) {
	is := is.New(t)

	fetch, _ := pagedSource([][]int{{1, 2}, {3}, {4, 5, 6}})

	items := []int{}
	for item, err := range Iterate(context.Background(), fetch) {
		is.NoErr(err)
		items = append(items, item)
	}

	is.Equal(items, []int{1, 2, 3, 4, 5, 6})
}

func TestIterateStopsFetchingWhenCallerStops(t *testing.T) {
	is := is.New(t)

	fetch, calls := pagedSource([][]int{{1, 2}, {3}, {4, 5, 6}})

	for item := range Iterate(context.Background(), fetch) {
		if item == 2 {
			break
		}
	}

	is.Equal(len(*calls), 1)
}

func TestTerminatesWhenHasMoreIsSetWithoutCursor(t *testing.T) {
	is := is.New(t)

	count := 0
	fetch := func(ctx context.Context, cursor string, pageSize int) (*Page[string], error) {
		count++
		return &Page[string]{Results: []string{"a", "b"}, HasMore: true}, nil
	}

	items, err := Collect(context.Background(), fetch)
	is.NoErr(err)
	is.Equal(items, []string{"a", "b"})
	is.Equal(count, 1)
}

func TestFetchErrorIsReportedOnce(t *testing.T) {
	is := is.New(t)

	failure := fmt.Errorf("connection reset")
	fetch := func(ctx context.Context, cursor string, pageSize int) (*Page[string], error) {
		if cursor == "" {
			next := "c2"
			return &Page[string]{Results: []string{"a"}, HasMore: true, NextCursor: &next}, nil
		}
		return nil, failure
	}

	errs := 0
	items := []string{}
	for item, err := range Iterate(context.Background(), fetch) {
		if err != nil {
			errs++
			is.True(errors.Is(err, failure))
			continue
		}
		items = append(items, item)
	}

	is.Equal(errs, 1)
	is.Equal(items, []string{"a"})

	collected, err := Collect(context.Background(), fetch)
	is.True(errors.Is(err, failure))
	is.Equal(collected, []string{"a"})
}

func TestStartCursorIsUsedForFirstFetch(t *testing.T) {
	is := is.New(t)

	fetch, calls := pagedSource([][]int{{1, 2}, {3}, {4, 5, 6}})

	items, err := Collect(context.Background(), fetch, StartCursor("2"))
	is.NoErr(err)
	is.Equal(items, []int{4, 5, 6})
	is.Equal((*calls)[0].cursor, "2")
}

func TestSequenceIsSingleUse(t *testing.T) {
	is := is.New(t)

	fetch, calls := pagedSource([][]int{{1, 2}, {3}})
	seq := Iterate(context.Background(), fetch)

	for range seq {
	}
	for range seq {
	}

	is.Equal(len(*calls), 2)
}

func TestNilPageEndsTheSequence(t *testing.T) {
	is := is.New(t)

	count := 0
	fetch := func(ctx context.Context, cursor string, pageSize int) (*Page[string], error) {
		count++
		if cursor == "" {
			next := "c2"
			return &Page[string]{Results: []string{"a"}, HasMore: true, NextCursor: &next}, nil
		}
		return nil, nil
	}

	items, err := Collect(context.Background(), fetch)
	is.NoErr(err)
	is.Equal(items, []string{"a"})
	is.Equal(count, 2)
}
