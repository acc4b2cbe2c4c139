package fetchx

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Params holds query parameters. Values may be strings, numbers, booleans
// or slices thereof; slice values expand to repeated keys and nil values
// are skipped entirely.
type Params map[string]any

// BuildQueryParams encodes params into a query string without the leading
// "?". Keys are sorted for determinism, slice elements keep their order,
// and values are URL-encoded. The function is pure: the same input always
// produces the same output.
func BuildQueryParams(params Params) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		for _, v := range queryValues(params[k]) {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}

	return strings.Join(pairs, "&")
}

// AppendQueryParams merges params into target, respecting any existing
// query string or fragment.
func AppendQueryParams(target string, params Params) string {
	qs := BuildQueryParams(params)
	if qs == "" {
		return target
	}

	base, fragment, hasFragment := strings.Cut(target, "#")

	switch {
	case !strings.Contains(base, "?"):
		base += "?" + qs
	case strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&"):
		base += qs
	default:
		base += "&" + qs
	}

	if hasFragment {
		base += "#" + fragment
	}
	return base
}

// queryValues flattens a parameter value into its encoded string forms.
// Nil yields nothing; slices and arrays expand element by element.
func queryValues(v any) []string {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		values := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if elem == nil {
				continue
			}
			values = append(values, formatQueryValue(elem))
		}
		return values
	}

	return []string{formatQueryValue(v)}
}

func formatQueryValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}
