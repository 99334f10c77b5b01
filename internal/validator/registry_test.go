package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/validator"
)

func validationField(t *testing.T, err error) string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Field
}

func TestRegistry_Application(t *testing.T) {
	reg := validator.NewFromForms(form.NewRegistry())
	ctx := context.Background()

	valid := &domain.Record{Fields: map[string]string{
		"name": "Asha", "department": "CSE", "amount": "1500.50", "purpose": "Conference", "date": "2026-11-01",
	}}
	assert.NoError(t, reg.Validate(ctx, domain.FormApplication, valid))

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"missing name", "name", "   "},
		{"missing department", "department", ""},
		{"zero amount", "amount", "0"},
		{"non numeric amount", "amount", "12a"},
		{"negative amount", "amount", "-5"},
		{"missing date", "date", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid.Clone()
			rec.Set(tt.field, tt.value)
			err := reg.Validate(ctx, domain.FormApplication, rec)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.field, validationField(t, err))
		})
	}
}

func TestRegistry_ProfileEmail(t *testing.T) {
	reg := validator.NewFromForms(form.NewRegistry())
	rec := &domain.Record{Fields: map[string]string{"name": "Asha", "email": "not-an-email", "department": "CSE"}}

	err := reg.Validate(context.Background(), domain.FormProfile, rec)

	assert.Equal(t, "email", validationField(t, err))
}

func TestRegistry_FirstFailureInSchemaOrder(t *testing.T) {
	reg := validator.NewFromForms(form.NewRegistry())

	err := reg.Validate(context.Background(), domain.FormProfile, domain.NewRecord())

	assert.Equal(t, "name", validationField(t, err))
}

func TestRegistry_OptionalAmount(t *testing.T) {
	reg := validator.NewFromForms(form.NewRegistry())
	rec := &domain.Record{Fields: map[string]string{"firstName": "A", "lastName": "B", "amount": ""}}

	assert.NoError(t, reg.Validate(context.Background(), domain.FormAdvanceSettlement, rec))

	rec.Set("amount", "ten")
	assert.Equal(t, "amount", validationField(t, reg.Validate(context.Background(), domain.FormAdvanceSettlement, rec)))
}

func TestRegistry_UnknownKindHasNoRules(t *testing.T) {
	reg := validator.NewFromForms(form.NewRegistry())

	assert.NoError(t, reg.Validate(context.Background(), domain.FormKind("nope"), domain.NewRecord()))
}

type stubRule struct {
	key   string
	fail  bool
	calls *[]string
}

func (r stubRule) RuleKey() string { return r.key }

func (r stubRule) Validate(context.Context, *domain.Record) *domain.ValidationError {
	*r.calls = append(*r.calls, r.key)
	if r.fail {
		return &domain.ValidationError{Field: r.key, Reason: "bad"}
	}
	return nil
}

func TestRegistry_StopsAtFirstFailure(t *testing.T) {
	var calls []string
	reg := validator.NewRegistry()
	reg.Register(domain.FormProfile, stubRule{key: "name", calls: &calls})
	reg.Register(domain.FormProfile, stubRule{key: "email", fail: true, calls: &calls})
	reg.Register(domain.FormProfile, stubRule{key: "phone", fail: true, calls: &calls})

	err := reg.Validate(context.Background(), domain.FormProfile, domain.NewRecord())

	assert.Equal(t, "email", validationField(t, err))
	assert.Equal(t, []string{"name", "email"}, calls)
}
