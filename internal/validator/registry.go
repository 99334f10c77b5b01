package validator

import (
	"context"
	"log/slog"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
)

// Registry maps a form kind to its ordered validators.
type Registry struct {
	validators map[domain.FormKind][]Validator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[domain.FormKind][]Validator)}
}

// NewFromForms builds a registry from every schema's rules.
func NewFromForms(forms *form.Registry) *Registry {
	r := NewRegistry()
	engine := newEngine()
	for _, s := range forms.All() {
		for _, rule := range s.Rules {
			r.Register(s.Kind, &fieldRule{engine: engine, rule: rule})
		}
	}
	return r
}

// Register appends a validator for kind.
func (r *Registry) Register(kind domain.FormKind, v Validator) {
	r.validators[kind] = append(r.validators[kind], v)
}

// Validate runs kind's validators in order and returns the first failure as
// a *domain.ValidationError, or nil.
func (r *Registry) Validate(ctx context.Context, kind domain.FormKind, rec *domain.Record) error {
	for _, v := range r.validators[kind] {
		if verr := v.Validate(ctx, rec); verr != nil {
			slog.DebugContext(ctx, "validator.Validate: rule failed", "kind", kind, "rule", v.RuleKey())
			return verr
		}
	}
	return nil
}
