package mwapi

import "net/url"

// Params holds action API parameters. It is a url.Values with helpers for the API's
// encoding conventions.
type Params url.Values

// Set replaces the value of name.
func (p Params) Set(name, value string) {
	url.Values(p).Set(name, value)
}

// Get returns the first value of name, or "".
func (p Params) Get(name string) string {
	return url.Values(p).Get(name)
}

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	return url.Values(p).Has(name)
}

// SetOptional encodes an optional boolean flag: present ("1") for a non-nil value,
// omitted entirely for nil. Any existing value for name is removed first.
func (p Params) SetOptional(name string, flag *bool) {
	url.Values(p).Del(name)
	if flag != nil && *flag {
		p.Set(name, "1")
	}
}

// Encode returns the URL encoded form of the parameters.
func (p Params) Encode() string {
	return url.Values(p).Encode()
}

// Optional maps true to a non-nil flag and false to nil, the absent marker.
func Optional(b bool) *bool {
	if b {
		return &b
	}
	return nil
}
