// Package prefill copies identity fields from a saved record into another
// form's state without overwriting anything the user already entered.
package prefill

import (
	"strings"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
)

// Source field names read from handoff records.
const (
	SourceName       = "name"
	SourceDepartment = "department"
)

// Apply fills empty identity fields of target from source and reports
// whether anything changed. Running it again with the same source is a
// no-op.
func Apply(target *domain.Record, id *form.Identity, source *domain.Record) bool {
	if target == nil || id == nil || source == nil {
		return false
	}

	changed := false
	fill := func(field, value string) {
		if field == "" || value == "" {
			return
		}
		if strings.TrimSpace(target.Get(field)) != "" {
			return
		}
		target.Set(field, value)
		changed = true
	}

	name := strings.TrimSpace(source.Get(SourceName))
	if id.FullName != "" {
		fill(id.FullName, name)
	} else {
		first, last := SplitName(name)
		fill(id.First, first)
		fill(id.Last, last)
	}
	fill(id.Department, strings.TrimSpace(source.Get(SourceDepartment)))
	return changed
}

// SplitName splits a full name into the first word and the remainder.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
