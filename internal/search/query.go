package search

import (
	"net/url"
	"strings"
)

// Filter is one `key:value` search qualifier.
type Filter struct {
	Key   string
	Value string
}

// Query is a keyword plus qualifiers, serialised in insertion order.
type Query struct {
	Keyword string
	Filters []Filter
}

func NewQuery(keyword string) *Query {
	return &Query{Keyword: strings.TrimSpace(keyword)}
}

// Add appends key:value unless value is empty.
func (q *Query) Add(key, value string) *Query {
	value = strings.TrimSpace(value)
	if value == "" {
		return q
	}
	q.Filters = append(q.Filters, Filter{Key: key, Value: value})
	return q
}

// String renders the q parameter value: keyword then +key:value per filter.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString(escapeTerm(q.Keyword))
	for _, f := range q.Filters {
		b.WriteByte('+')
		b.WriteString(escapeTerm(f.Key + ":" + f.Value))
	}
	return b.String()
}

// escapeTerm query-escapes s but keeps ':' readable; GitHub accepts it raw.
func escapeTerm(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%3A", ":")
}
