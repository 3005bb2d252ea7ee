// Package inputval collects field-level validation errors for API payloads.
package inputval

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Errors maps a field name to its messages. The JSON form matches the
// {"field": ["message", ...]} shape API clients expect.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) HasErrors() bool { return len(e) > 0 }

// Merge copies other into e.
func (e Errors) Merge(other Errors) {
	for f, msgs := range other {
		e[f] = append(e[f], msgs...)
	}
}

// Required records "This field is required." when v is blank.
func (e Errors) Required(field, v string) bool {
	if strings.TrimSpace(v) == "" {
		e.Add(field, "This field is required.")
		return false
	}
	return true
}

// MinLen records an error when the trimmed v has fewer than n characters.
func (e Errors) MinLen(field, v string, n int, msg string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(v)) < n {
		e.Add(field, msg)
		return false
	}
	return true
}

// MaxLen records an error when v has more than n characters.
func (e Errors) MaxLen(field, v string, n int) bool {
	if utf8.RuneCountInString(v) > n {
		e.Add(field, "Ensure this field has no more than "+itoa(n)+" characters.")
		return false
	}
	return true
}

// Email records an error for a non-empty invalid address.
func (e Errors) Email(field, v string) bool {
	if v != "" && !IsValidEmail(v) {
		e.Add(field, "Enter a valid email address.")
		return false
	}
	return true
}

// URL records an error for a non-empty value that is not an http(s) URL.
func (e Errors) URL(field, v string) bool {
	if v != "" && !IsValidURL(v) {
		e.Add(field, "Enter a valid URL.")
		return false
	}
	return true
}

// Choice records an error when ok is false for a non-empty v.
func (e Errors) Choice(field, v string, ok bool) bool {
	if v != "" && !ok {
		e.Add(field, `"`+v+`" is not a valid choice.`)
		return false
	}
	return true
}

// IsValidEmail checks a bare addr-spec: one @, no spaces, no display name,
// and no empty, leading, trailing or doubled dots in either part.
func IsValidEmail(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 || strings.ContainsAny(s, "<>") {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return false
	}
	return dotAtom(local) && dotAtom(domain)
}

func dotAtom(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return false
	}
	return !strings.Contains(s, "..")
}

// IsValidURL reports whether s is an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
