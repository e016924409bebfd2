package wp

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names understood by the WordPress REST API.
const (
	ParamFields  = "_fields"
	ParamPerPage = "per_page"
	ParamSlug    = "slug"
)

// Param is a single query key/value pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Unlike url.Values it
// keeps insertion order all the way to the encoded query string.
type Params []Param

// BuildEndpointParams assembles the query parameters for a collection
// endpoint. A non-empty fields list is deduplicated (first occurrence
// wins) and comma-joined under _fields; a positive quantity becomes
// per_page. Absent inputs are simply omitted.
func BuildEndpointParams(fields []string, quantity int) Params {
	var params Params

	if len(fields) > 0 {
		seen := make(map[string]struct{}, len(fields))
		unique := make([]string, 0, len(fields))
		for _, f := range fields {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			unique = append(unique, f)
		}
		params = append(params, Param{Key: ParamFields, Value: strings.Join(unique, ",")})
	}

	if quantity > 0 {
		params = append(params, Param{Key: ParamPerPage, Value: strconv.Itoa(quantity)})
	}

	return params
}

// Encode serializes the parameters as a query string, preserving order.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}

	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

// Get returns the value of the first parameter named key, or "".
func (p Params) Get(key string) string {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}
