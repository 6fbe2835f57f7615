package service

import (
	"github.com/isoko-app/isoko-api/internal/models"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// pageParams validates a skip/limit pair and translates it to the
// (pageIndex, pageSize) form the entity store expects. limit is clamped to
// maxLimit when maxLimit is positive; skip < 0 or limit <= 0 is a
// validation error because skip/limit would be undefined.
func pageParams(skip, limit, maxLimit int) (pageIndex, pageSize int, err error) {
	if skip < 0 || limit <= 0 {
		return 0, 0, utils.ErrInvalidPagination
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return skip / limit, limit, nil
}

// newPageResult assembles a PageResult echoing skip/limit unchanged.
// hasMore == (skip + limit < totalCount) in both store-paginated and
// manually paginated modes.
func newPageResult[T any](items []T, totalCount, skip, limit int) models.PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return models.PageResult[T]{
		Items:      items,
		TotalCount: totalCount,
		Skip:       skip,
		Limit:      limit,
		HasMore:    skip+limit < totalCount,
	}
}

// slicePage returns items[skip : skip+limit] clipped to the slice bounds.
// A skip beyond the end yields an empty page, never an error.
func slicePage[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
