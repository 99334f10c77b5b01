package email_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/email"
	"expensedesk/internal/port"
)

var submitted = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func TestRenderReceipt_WithTotals(t *testing.T) {
	r, err := email.RenderReceipt(port.ReceiptInput{
		ToName:      "Asha <Rao>",
		FormTitle:   "Advance Settlement",
		Reference:   "ref-1",
		SubmittedAt: submitted,
		GrandTotal:  "165.55",
		Advance:     "150.00",
		Rows:        3,
	}, "https://desk.college.edu", "Expense Desk")

	require.NoError(t, err)
	assert.Equal(t, "Advance Settlement submitted", r.Subject)
	assert.Contains(t, r.Text, "Hi Asha <Rao>,")
	assert.Contains(t, r.Text, "16 Oct 2026 09:30 UTC")
	assert.Contains(t, r.Text, "Grand total: 165.55")
	assert.Contains(t, r.Text, "Advance taken: 150.00")
	assert.Contains(t, r.Text, "review it at https://desk.college.edu")
	assert.Contains(t, r.HTML, "Asha &lt;Rao&gt;")
	assert.Contains(t, r.HTML, `href="https://desk.college.edu"`)
}

func TestRenderReceipt_WithoutTable(t *testing.T) {
	r, err := email.RenderReceipt(port.ReceiptInput{
		ToName: "Asha", FormTitle: "Advance Application", Reference: "ref-2", SubmittedAt: submitted,
	}, "", "Expense Desk")

	require.NoError(t, err)
	assert.NotContains(t, r.Text, "Grand total")
	assert.NotContains(t, r.Text, "review it at")
	assert.NotContains(t, r.HTML, "href=")
}
