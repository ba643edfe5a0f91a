package cache

import "strings"

// NoSearch stands in for an empty search term inside count keys.
const NoSearch = "NoSearch"

// KeySerializer builds the cache key under which a listing's filtered total
// is stored. It must produce the same key for searches that match the same rows.
type KeySerializer interface {
	CountKey(entity, search string) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer returns the serializer producing
// "{Entity}Count_Search_{term}" keys. The term is trimmed and lower-cased
// because listing searches are case-insensitive; an empty term becomes NoSearch.
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

func (defaultKeySerializer) CountKey(entity, search string) string {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		term = NoSearch
	}
	return entity + "Count_Search_" + term
}
