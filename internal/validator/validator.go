package validator

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
)

// Validator checks one field of a record.
type Validator interface {
	Validate(ctx context.Context, rec *domain.Record) *domain.ValidationError
	RuleKey() string
}

var amountPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// newEngine returns a go-playground validator with the form tags
// registered.
func newEngine() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return amountPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if !amountPattern.MatchString(s) {
			return false
		}
		d, err := decimal.NewFromString(s)
		return err == nil && d.IsPositive()
	})
	return v
}

// fieldRule applies a tag expression to one scalar field.
type fieldRule struct {
	engine *validator.Validate
	rule   form.Rule
}

func (r *fieldRule) RuleKey() string {
	return r.rule.Field + ":" + r.rule.Tag
}

func (r *fieldRule) Validate(ctx context.Context, rec *domain.Record) *domain.ValidationError {
	value := strings.TrimSpace(rec.Get(r.rule.Field))
	if err := r.engine.VarCtx(ctx, value, r.rule.Tag); err != nil {
		return &domain.ValidationError{Field: r.rule.Field, Reason: r.rule.Reason}
	}
	return nil
}
