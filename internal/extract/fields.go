package extract

import "sort"

// Fields maps canonical field names to extracted values. It is a value type:
// With returns a new mapping and never touches the receiver, so one header
// mapping can seed many rows safely.
type Fields struct {
	m map[string]string
}

// NewFields builds a mapping from kv. The map is copied.
func NewFields(kv map[string]string) Fields {
	m := make(map[string]string, len(kv))
	for k, v := range kv {
		m[k] = v
	}
	return Fields{m: m}
}

// Get returns the value for key, empty when absent.
func (f Fields) Get(key string) string {
	return f.m[key]
}

// Has reports whether key holds a non-empty value.
func (f Fields) Has(key string) bool {
	return f.m[key] != ""
}

// With returns a copy of f with key set to value.
func (f Fields) With(key, value string) Fields {
	m := make(map[string]string, len(f.m)+1)
	for k, v := range f.m {
		m[k] = v
	}
	m[key] = value
	return Fields{m: m}
}

// WithAll returns a copy of f with every entry of kv applied.
func (f Fields) WithAll(kv map[string]string) Fields {
	m := make(map[string]string, len(f.m)+len(kv))
	for k, v := range f.m {
		m[k] = v
	}
	for k, v := range kv {
		m[k] = v
	}
	return Fields{m: m}
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f.m))
	for k := range f.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying mapping.
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f.m))
	for k, v := range f.m {
		m[k] = v
	}
	return m
}
