package preview_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/domain"
	"expensedesk/internal/preview"
)

func TestRegistry_IssueResolveRelease(t *testing.T) {
	reg := preview.NewRegistry()
	userID := uuid.New()
	h := reg.ForUser(userID)

	handle := h.Issue("users/x/a.png")
	require.True(t, strings.HasPrefix(handle, preview.PathPrefix))
	assert.Equal(t, 1, reg.Live())

	key, err := reg.Resolve(userID, preview.Token(handle))
	require.NoError(t, err)
	assert.Equal(t, "users/x/a.png", key)

	h.Release(handle)
	h.Release(handle)
	assert.Equal(t, 0, reg.Live())

	_, err = reg.Resolve(userID, preview.Token(handle))
	assert.ErrorIs(t, err, domain.ErrPreviewReleased)
}

func TestRegistry_OtherUserCannotResolve(t *testing.T) {
	reg := preview.NewRegistry()
	handle := reg.ForUser(uuid.New()).Issue("k")

	_, err := reg.Resolve(uuid.New(), preview.Token(handle))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_ReleaseUnknownIsNoop(t *testing.T) {
	reg := preview.NewRegistry()
	h := reg.ForUser(uuid.New())
	keep := h.Issue("k")

	h.Release("blob:http://stale")

	assert.Equal(t, 1, reg.Live())
	h.Release(keep)
	assert.Equal(t, 0, reg.Live())
}
