// Package preview issues short-lived handles that let a user view an
// attachment blob while the form session that owns it is open.
package preview

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"expensedesk/internal/domain"
)

// PathPrefix is the URL path under which handles are served.
const PathPrefix = "/api/v1/previews/"

type entry struct {
	userID    uuid.UUID
	objectKey string
}

// Registry tracks live handles. The zero value is not usable; use
// NewRegistry.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// ForUser returns a handle issuer bound to one user.
func (r *Registry) ForUser(userID uuid.UUID) *UserHandles {
	return &UserHandles{registry: r, userID: userID}
}

// Resolve returns the object key behind a live token owned by userID.
func (r *Registry) Resolve(userID uuid.UUID, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[token]
	if !ok {
		return "", domain.ErrPreviewReleased
	}
	if e.userID != userID {
		return "", domain.ErrNotFound
	}
	return e.objectKey, nil
}

// Live returns the number of unreleased handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) issue(userID uuid.UUID, objectKey string) string {
	token := uuid.New().String()
	r.mu.Lock()
	r.entries[token] = entry{userID: userID, objectKey: objectKey}
	r.mu.Unlock()
	return PathPrefix + token
}

func (r *Registry) release(handle string) {
	token := Token(handle)
	r.mu.Lock()
	delete(r.entries, token)
	r.mu.Unlock()
}

// Token extracts the token from a handle URL.
func Token(handle string) string {
	return strings.TrimPrefix(handle, PathPrefix)
}

// UserHandles issues and releases handles for one user.
type UserHandles struct {
	registry *Registry
	userID   uuid.UUID
}

// Issue registers objectKey and returns its handle URL.
func (h *UserHandles) Issue(objectKey string) string {
	return h.registry.issue(h.userID, objectKey)
}

// Release forgets a handle. Releasing twice is a no-op.
func (h *UserHandles) Release(handle string) {
	h.registry.release(handle)
}
