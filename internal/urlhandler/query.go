package urlhandler

import (
	"sort"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

// QueryParam is one decoded name/value pair, kept in declaration order.
type QueryParam struct {
	Name  string
	Value string
}

// QueryParams returns the decoded query parameters of u in declaration order.
func QueryParams(u *whatwgUrl.Url) []QueryParam {
	return splitQuery(u.Query())
}

// splitQuery decodes a raw query through a throwaway URL so the same WHATWG
// decoding rules apply as for a parsed URL. Reading u.SearchParams directly
// would re-serialize the query of u as a side effect.
func splitQuery(rawQuery string) []QueryParam {
	if rawQuery == "" {
		return nil
	}
	holder, err := urlParser.Parse("http://q.invalid/?" + rawQuery)
	if err != nil {
		return nil
	}
	var params []QueryParam
	holder.SearchParams().Iterate(func(pair *whatwgUrl.NameValuePair) {
		params = append(params, QueryParam{Name: pair.Name, Value: pair.Value})
	})
	return params
}

// SetQueryParams replaces the query of u with params. An empty list removes the
// query entirely (no dangling '?').
func SetQueryParams(u *whatwgUrl.Url, params []QueryParam) {
	u.SetSearch("")
	if len(params) == 0 {
		return
	}
	sp := u.SearchParams()
	for _, p := range params {
		sp.Append(p.Name, p.Value)
	}
}

// SetQueryParam sets name to value, replacing any existing values in place.
func SetQueryParam(u *whatwgUrl.Url, name, value string) {
	u.SearchParams().Set(name, value)
}

// HasQueryParam reports whether u carries a parameter called name.
func HasQueryParam(u *whatwgUrl.Url, name string) bool {
	for _, p := range QueryParams(u) {
		if p.Name == name {
			return true
		}
	}
	return false
}

// SortQueryParams orders parameters by name, keeping duplicates stable.
func SortQueryParams(params []QueryParam) []QueryParam {
	sorted := append([]QueryParam(nil), params...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// ParseQueryString decodes a bare query string such as "a=1&b=2".
func ParseQueryString(rawQuery string) []QueryParam {
	if len(rawQuery) > 0 && rawQuery[0] == '?' {
		rawQuery = rawQuery[1:]
	}
	return splitQuery(rawQuery)
}
