package authz

import "strings"

// CookieMap holds the cookies of one request header, keyed by name.
type CookieMap map[string]string

type Cookie struct {
	Name  string
	Value string
}

// ParseCookiePairs splits a Cookie header into its name=value pairs in header
// order. Segments without '=' or with an empty name are skipped.
func ParseCookiePairs(header string) []Cookie {
	var pairs []Cookie
	for segment := range strings.SplitSeq(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pairs = append(pairs, Cookie{Name: name, Value: unquote(strings.TrimSpace(value))})
	}
	return pairs
}

// ParseCookies returns nil when the header holds no usable cookie.
// When a name repeats, the first occurrence wins.
func ParseCookies(header string) CookieMap {
	pairs := ParseCookiePairs(header)
	if len(pairs) == 0 {
		return nil
	}

	cookies := make(CookieMap, len(pairs))
	for _, c := range pairs {
		if _, seen := cookies[c.Name]; !seen {
			cookies[c.Name] = c.Value
		}
	}
	return cookies
}

// Get is safe on a nil map.
func (m CookieMap) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// CookieHeader looks up the Cookie header regardless of case.
func CookieHeader(headers map[string]string) (string, bool) {
	if v, ok := headers["cookie"]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, "cookie") {
			return v, true
		}
	}
	return "", false
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
