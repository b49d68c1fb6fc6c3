package model

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// VersionCacheKey holds the generation of the catalog keyspace.
	// Every write increments it, so fills that raced a write land under a
	// generation no reader asks for again.
	VersionCacheKey = "books:version"

	// CacheKeyPattern matches every data key of every generation,
	// but not VersionCacheKey.
	CacheKeyPattern = "books:data:*"

	dataCacheKeyPrefix = "books:data:"
)

func dataKey(version int64, suffix string) string {
	return dataCacheKeyPrefix + strconv.FormatInt(version, 10) + ":" + suffix
}

// ListCacheKey builds the cache key for one page query.
// The category is query-escaped: the encoding is injective and never
// contains glob metacharacters.
func ListCacheKey(version int64, q PageQuery) string {
	return dataKey(version, fmt.Sprintf("list:%d:%d:%s", q.Page, q.PageSize, url.QueryEscape(q.CategoryFilter())))
}

// DetailCacheKey - key of a single book
func DetailCacheKey(version, id int64) string {
	return dataKey(version, "detail:"+strconv.FormatInt(id, 10))
}

func CategoriesCacheKey(version int64) string {
	return dataKey(version, "categories")
}
