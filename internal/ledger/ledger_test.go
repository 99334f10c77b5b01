package ledger_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/ledger"
)

type fakeHandles struct {
	issued   []string
	released map[string]int
}

func newFakeHandles() *fakeHandles {
	return &fakeHandles{released: make(map[string]int)}
}

func (f *fakeHandles) Issue(objectKey string) string {
	h := fmt.Sprintf("handle-%d-%s", len(f.issued)+1, objectKey)
	f.issued = append(f.issued, h)
	return h
}

func (f *fakeHandles) Release(handle string) {
	f.released[handle]++
}

func withBill(t *testing.T) *form.Schema {
	t.Helper()
	s, err := form.NewRegistry().Get(domain.FormWithBill)
	require.NoError(t, err)
	return s
}

func serials(rec *domain.Record) []string {
	out := make([]string, len(rec.Table))
	for i, r := range rec.Table {
		out[i] = r.SrNo
	}
	return out
}

func TestLedger_AddRemoveKeepsSerialsContiguous(t *testing.T) {
	schema := withBill(t)
	l := ledger.New(schema, newFakeHandles())
	rec := schema.Default()

	for i := 0; i < 4; i++ {
		require.NoError(t, l.AddRow(rec))
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, serials(rec))

	require.NoError(t, l.SetRowField(rec, 2, "purpose", "taxi"))
	require.NoError(t, l.RemoveRow(rec, 1))
	assert.Equal(t, []string{"1", "2", "3", "4"}, serials(rec))
	assert.Equal(t, "taxi", rec.Table[1].Get("purpose"))

	require.NoError(t, l.RemoveRow(rec, 0))
	require.NoError(t, l.RemoveRow(rec, 2))
	assert.Equal(t, []string{"1", "2"}, serials(rec))

	require.NoError(t, l.AddRow(rec))
	assert.Equal(t, []string{"1", "2", "3"}, serials(rec))
}

func TestLedger_RemoveLastRowRefused(t *testing.T) {
	schema := withBill(t)
	l := ledger.New(schema, newFakeHandles())
	rec := schema.Default()
	require.NoError(t, l.SetRowField(rec, 0, "amount", "12"))
	before := rec.Clone()

	err := l.RemoveRow(rec, 0)

	assert.ErrorIs(t, err, domain.ErrCannotRemoveLastRow)
	assert.Len(t, rec.Table, 1)
	assert.True(t, before.Equal(rec))
}

func TestLedger_OutOfRange(t *testing.T) {
	schema := withBill(t)
	l := ledger.New(schema, newFakeHandles())
	rec := schema.Default()
	require.NoError(t, l.AddRow(rec))

	assert.ErrorIs(t, l.RemoveRow(rec, 2), domain.ErrOutOfRange)
	assert.ErrorIs(t, l.RemoveRow(rec, -1), domain.ErrOutOfRange)
	assert.ErrorIs(t, l.SetRowField(rec, 5, "amount", "1"), domain.ErrOutOfRange)
	assert.ErrorIs(t, l.Attach(rec, 9, nil), domain.ErrOutOfRange)
}

func TestLedger_SetRowFieldUnknownColumn(t *testing.T) {
	schema := withBill(t)
	l := ledger.New(schema, newFakeHandles())
	rec := schema.Default()

	assert.ErrorIs(t, l.SetRowField(rec, 0, "expenditure", "x"), domain.ErrUnknownField)
}

func TestLedger_AmountKeptVerbatim(t *testing.T) {
	schema := withBill(t)
	l := ledger.New(schema, newFakeHandles())
	rec := schema.Default()

	require.NoError(t, l.SetRowField(rec, 0, "amount", "12,5 rs"))
	assert.Equal(t, "12,5 rs", rec.Table[0].Get("amount"))
}

func TestLedger_ReplacingAttachmentReleasesOldHandleOnce(t *testing.T) {
	schema := withBill(t)
	h := newFakeHandles()
	l := ledger.New(schema, h)
	rec := schema.Default()

	require.NoError(t, l.Attach(rec, 0, &domain.FileRef{Name: "a.png", Size: 10, ContentType: "image/png", ObjectKey: "k1"}))
	first := rec.Table[0].BillFile.URL
	assert.True(t, rec.Table[0].BillFile.IsImage)

	require.NoError(t, l.Attach(rec, 0, &domain.FileRef{Name: "b.pdf", Size: 20, ContentType: "application/pdf", ObjectKey: "k2"}))

	assert.Equal(t, 1, h.released[first])
	att := rec.Table[0].BillFile
	require.NotNil(t, att)
	assert.Equal(t, "b.pdf", att.Name)
	assert.Equal(t, "k2", att.ObjectKey)
	assert.False(t, att.IsImage)
	assert.NotEqual(t, first, att.URL)
	assert.Zero(t, h.released[att.URL])
}

func TestLedger_DetachReleases(t *testing.T) {
	schema := withBill(t)
	h := newFakeHandles()
	l := ledger.New(schema, h)
	rec := schema.Default()
	require.NoError(t, l.Attach(rec, 0, &domain.FileRef{Name: "a.jpg", ContentType: "image/jpeg", ObjectKey: "k1"}))
	handle := rec.Table[0].BillFile.URL

	require.NoError(t, l.Attach(rec, 0, nil))

	assert.Nil(t, rec.Table[0].BillFile)
	assert.Equal(t, 1, h.released[handle])
}

func TestLedger_RemoveRowReleasesItsHandle(t *testing.T) {
	schema := withBill(t)
	h := newFakeHandles()
	l := ledger.New(schema, h)
	rec := schema.Default()
	require.NoError(t, l.AddRow(rec))
	require.NoError(t, l.Attach(rec, 1, &domain.FileRef{Name: "a.jpg", ContentType: "image/jpeg", ObjectKey: "k1"}))
	handle := rec.Table[1].BillFile.URL

	require.NoError(t, l.RemoveRow(rec, 1))

	assert.Equal(t, 1, h.released[handle])
	assert.Len(t, rec.Table, 1)
}

func TestLedger_ReissueDropsUnbackedAttachments(t *testing.T) {
	schema := withBill(t)
	h := newFakeHandles()
	l := ledger.New(schema, h)
	rec := schema.Default()
	require.NoError(t, l.AddRow(rec))
	rec.Table[0].BillFile = &domain.Attachment{Name: "old.png", URL: "blob:stale", ObjectKey: "k1"}
	rec.Table[1].BillFile = &domain.Attachment{Name: "lost.png", URL: "blob:stale2"}

	l.Reissue(rec)

	require.NotNil(t, rec.Table[0].BillFile)
	assert.NotEqual(t, "blob:stale", rec.Table[0].BillFile.URL)
	assert.Nil(t, rec.Table[1].BillFile)
}

func TestLedger_NotTabular(t *testing.T) {
	schema, err := form.NewRegistry().Get(domain.FormProfile)
	require.NoError(t, err)
	l := ledger.New(schema, newFakeHandles())

	assert.ErrorIs(t, l.AddRow(schema.Default()), domain.ErrNotTabular)
}

func TestIsImage(t *testing.T) {
	assert.True(t, ledger.IsImage("image/png"))
	assert.True(t, ledger.IsImage("IMAGE/JPEG"))
	assert.False(t, ledger.IsImage("application/pdf"))
	assert.False(t, ledger.IsImage(""))
}
