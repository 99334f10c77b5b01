// Package session holds the open form sessions: it decides which stored
// copy a session starts from, applies edits, keeps the draft slot current
// and promotes drafts to the canonical slot.
package session

import (
	"expensedesk/internal/domain"
	"expensedesk/internal/form"
)

// Reconcile picks the active state and mode for a session from its stored
// canonical and draft copies. Both are projected onto the schema before
// comparison, so a draft that only differs by preview handles or absent
// empty fields counts as equal.
func Reconcile(schema *form.Schema, canonical, draft *domain.Record) (*domain.Record, domain.Mode) {
	if canonical != nil {
		canon := schema.Project(canonical)
		if draft != nil {
			d := schema.Project(draft)
			if !d.Equal(canon) {
				return d, domain.ModeEditing
			}
		}
		return canon, domain.ModeReadOnly
	}
	if draft != nil {
		return schema.Project(draft), domain.ModeEditing
	}
	return schema.Default(), domain.ModeEditing
}
