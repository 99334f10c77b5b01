package totals_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/domain"
	"expensedesk/internal/totals"
)

func rowsWithAmounts(amounts ...string) []domain.Row {
	rows := make([]domain.Row, len(amounts))
	for i, a := range amounts {
		rows[i] = domain.Row{Values: map[string]string{"amount": a}}
	}
	return rows
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"50.5", "50.5"},
		{"", "0"},
		{"abc", "0"},
		{"  42 ", "42"},
		{"12abc", "12"},
		{".5", "0.5"},
		{"-3", "-3"},
		{"1e2", "100"},
		{"NaN", "0"},
		{"Infinity", "0"},
		{"2.5E1", "25"},
		{"1e999999999", "0"},
		{"-1e999999999", "0"},
		{"1e-999999999", "0"},
		{"1e308x", "1e308"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertDecimal(t, tt.want, totals.ParseAmount(tt.in))
		})
	}
}

func TestCompute_MalformedAmountsCountAsZero(t *testing.T) {
	got := totals.Compute(rowsWithAmounts("100", "abc", "", "50.5"), "10", nil)

	assertDecimal(t, "150.5", got.Sum)
	assertDecimal(t, "10", got.TaxPercent)
	assertDecimal(t, "15.05", got.Tax)
	assertDecimal(t, "165.55", got.GrandTotal)
	assert.Nil(t, got.Advance)
	assert.Nil(t, got.Remaining)
	assert.Nil(t, got.Excess)
}

func TestCompute_InvalidRateDefaultsToZero(t *testing.T) {
	got := totals.Compute(rowsWithAmounts("20", "30"), "gst", nil)

	assertDecimal(t, "50", got.Sum)
	assertDecimal(t, "0", got.Tax)
	assertDecimal(t, "50", got.GrandTotal)
}

func TestCompute_AdvanceExceeded(t *testing.T) {
	advance := "150"
	got := totals.Compute(rowsWithAmounts("200"), "", &advance)

	require.NotNil(t, got.Remaining)
	require.NotNil(t, got.Excess)
	assertDecimal(t, "150", *got.Advance)
	assertDecimal(t, "0", *got.Remaining)
	assertDecimal(t, "50", *got.Excess)
}

func TestCompute_AdvanceNotUsedUp(t *testing.T) {
	advance := "150"
	got := totals.Compute(rowsWithAmounts("60", "40"), "", &advance)

	require.NotNil(t, got.Remaining)
	assertDecimal(t, "50", *got.Remaining)
	assertDecimal(t, "0", *got.Excess)
}

func TestCompute_EmptyAdvance(t *testing.T) {
	advance := ""
	got := totals.Compute(rowsWithAmounts("25"), "", &advance)

	assertDecimal(t, "0", *got.Remaining)
	assertDecimal(t, "25", *got.Excess)
}

func TestForRecord(t *testing.T) {
	rec := &domain.Record{
		Fields: map[string]string{"gst": "18", "advanceAmount": "1000"},
		Table:  rowsWithAmounts("100"),
	}

	withBill := totals.ForRecord(rec, "gst", "")
	assertDecimal(t, "18", withBill.Tax)
	assert.Nil(t, withBill.Advance)

	withoutBill := totals.ForRecord(rec, "", "advanceAmount")
	assertDecimal(t, "0", withoutBill.Tax)
	assertDecimal(t, "900", *withoutBill.Remaining)
}

func TestCompute_HugeExponentReturnsPromptly(t *testing.T) {
	done := make(chan domain.Totals, 1)
	go func() {
		done <- totals.Compute(rowsWithAmounts("1e999999999", "10", "1e-999999999"), "1e400", nil)
	}()

	select {
	case got := <-done:
		assertDecimal(t, "10", got.Sum)
		assertDecimal(t, "0", got.TaxPercent)
		assert.Equal(t, "10.00", got.GrandTotal.StringFixed(2))
	case <-time.After(2 * time.Second):
		t.Fatal("Compute did not return for an out-of-range exponent")
	}
}
