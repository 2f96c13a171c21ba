package models

import (
	"sort"
	"strings"
)

// Record maps a field name (e.g. "Nombre", "Apellidos", "Teléfono") to its string value.
// Equality is field-by-field string equality.
type Record map[string]string

// Clone returns an independent copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same fields with the same values
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Fields returns the record's field names in sorted order
func (r Record) Fields() []string {
	fields := make([]string, 0, len(r))
	for k := range r {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Key returns a canonical string for the record, used for multiset counting.
// Two records have the same key iff they are Equal.
func (r Record) Key() string {
	var b strings.Builder
	for _, f := range r.Fields() {
		b.WriteString(f)
		b.WriteByte('\x1f')
		b.WriteString(r[f])
		b.WriteByte('\x1e')
	}
	return b.String()
}

// String renders the record in field order for logs
func (r Record) String() string {
	parts := make([]string, 0, len(r))
	for _, f := range r.Fields() {
		parts = append(parts, f+"="+r[f])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SameFieldSet reports whether two field lists contain the same names, ignoring order
func SameFieldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, f := range a {
		seen[f]++
	}
	for _, f := range b {
		if seen[f] == 0 {
			return false
		}
		seen[f]--
	}
	return true
}
