// Package totals derives the summary amounts of an expense table.
package totals

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"expensedesk/internal/domain"
)

// AmountField is the row column summed into the totals.
const AmountField = "amount"

var hundred = decimal.NewFromInt(100)

// leadingNumber matches the numeric prefix a lenient float parse accepts.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading number of s. Empty, non-numeric or
// out-of-range input yields zero, so one malformed entry never poisons an
// aggregate.
func ParseAmount(s string) decimal.Decimal {
	sub := leadingNumber.FindStringSubmatch(strings.TrimSpace(s))
	if sub == nil {
		return decimal.Zero
	}
	if sub[2] == "" {
		d, err := decimal.NewFromString(sub[0])
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	// Exponent forms go through float64 so the scale stays within its range.
	f, err := strconv.ParseFloat(sub[0], 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Compute sums the rows' amounts and applies the tax rate. advance is nil
// for forms without an advance; otherwise Remaining and Excess are set and
// floored at zero.
func Compute(rows []domain.Row, rate string, advance *string) domain.Totals {
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(ParseAmount(row.Get(AmountField)))
	}

	pct := ParseAmount(rate)
	tax := sum.Mul(pct).Div(hundred)
	t := domain.Totals{
		Sum:        sum,
		TaxPercent: pct,
		Tax:        tax,
		GrandTotal: sum.Add(tax),
	}

	if advance != nil {
		adv := ParseAmount(*advance)
		remaining := decimal.Max(decimal.Zero, adv.Sub(sum))
		excess := decimal.Max(decimal.Zero, sum.Sub(adv))
		t.Advance = &adv
		t.Remaining = &remaining
		t.Excess = &excess
	}
	return t
}

// ForRecord computes totals using the record's rate and advance fields.
// Empty field names mean the form has no such input.
func ForRecord(rec *domain.Record, rateField, advanceField string) domain.Totals {
	var rate string
	if rateField != "" {
		rate = rec.Get(rateField)
	}
	var advance *string
	if advanceField != "" {
		v := rec.Get(advanceField)
		advance = &v
	}
	return Compute(rec.Table, rate, advance)
}
