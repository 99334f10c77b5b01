package session

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"expensedesk/internal/debounce"
	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/ledger"
	"expensedesk/internal/port"
	"expensedesk/internal/prefill"
	"expensedesk/internal/totals"
)

// DefaultDebounce is the quiet period before an edit is written to the
// draft slot.
const DefaultDebounce = 700 * time.Millisecond

const writeTimeout = 10 * time.Second

// Validator checks a record before it is promoted to the canonical slot.
type Validator interface {
	Validate(ctx context.Context, kind domain.FormKind, rec *domain.Record) error
}

// Sweeper deletes stored blobs that no slot references anymore.
type Sweeper interface {
	Sweep(ctx context.Context, objectKeys []string)
}

// Deps are the collaborators of one session.
type Deps struct {
	Store     port.SessionStore
	Handles   ledger.Handles
	Validator Validator
	Notifier  port.Notifier
	Sweeper   Sweeper
	Debounce  time.Duration
	Now       func() time.Time
}

// State is a snapshot of a session safe to hand to other goroutines.
type State struct {
	Kind         domain.FormKind `json:"kind"`
	Mode         domain.Mode     `json:"mode"`
	Record       *domain.Record  `json:"record"`
	Totals       *domain.Totals  `json:"totals,omitempty"`
	HasCanonical bool            `json:"hasCanonical"`
	DraftPending bool            `json:"draftPending"`
}

// Session is one user's open form of one kind. All methods are safe for
// concurrent use; calls are applied one at a time.
type Session struct {
	mu        sync.Mutex
	schema    *form.Schema
	deps      Deps
	ledger    *ledger.Ledger
	debouncer *debounce.Debouncer

	active    *domain.Record
	canonical *domain.Record
	mode      domain.Mode
	gen       uint64
	known     map[string]struct{}

	rendering  bool
	submitting bool
	closed     bool
	lastUsed   time.Time
}

// Open loads the stored copies for schema and returns a session in the
// mode the reconciliation table selects.
func Open(ctx context.Context, schema *form.Schema, deps Deps) *Session {
	if deps.Debounce <= 0 {
		deps.Debounce = DefaultDebounce
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{
		schema:    schema,
		deps:      deps,
		ledger:    ledger.New(schema, deps.Handles),
		debouncer: debounce.New(deps.Debounce),
		known:     make(map[string]struct{}),
	}

	canonical := deps.Store.Load(ctx, schema.CanonicalKey)
	draft := deps.Store.Load(ctx, schema.DraftKey)
	s.active, s.mode = Reconcile(schema, canonical, draft)
	if draft != nil && canonical != nil && s.mode == domain.ModeReadOnly {
		// A draft equal to the canonical copy holds nothing unsaved.
		deps.Store.Remove(ctx, schema.DraftKey)
	}
	if canonical != nil {
		s.canonical = schema.Project(canonical).Portable()
	}
	s.remember(canonical, draft)
	s.ledger.Reissue(s.active)
	if s.mode == domain.ModeEditing {
		s.applyPrefill(ctx)
	}
	s.lastUsed = deps.Now()

	slog.DebugContext(ctx, "session.Open", "kind", schema.Kind, "mode", s.mode,
		"has_canonical", canonical != nil, "has_draft", draft != nil)
	return s
}

// Kind returns the form kind of the session.
func (s *Session) Kind() domain.FormKind {
	return s.schema.Kind
}

// Schema returns the form schema of the session.
func (s *Session) Schema() *form.Schema {
	return s.schema
}

// View returns the current state.
func (s *Session) View() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()
	return s.stateLocked(), nil
}

// SetFields assigns scalar fields. Every name must belong to the form; none
// are applied otherwise.
func (s *Session) SetFields(ctx context.Context, fields map[string]string) (State, error) {
	return s.mutate(ctx, func(rec *domain.Record) error {
		for name := range fields {
			if !s.schema.HasField(name) {
				return domain.ErrUnknownField
			}
		}
		for name, value := range fields {
			rec.Set(name, value)
		}
		return nil
	})
}

// SetField assigns one scalar field.
func (s *Session) SetField(ctx context.Context, field, value string) (State, error) {
	return s.SetFields(ctx, map[string]string{field: value})
}

// AddRow appends a blank row.
func (s *Session) AddRow(ctx context.Context) (State, error) {
	return s.mutate(ctx, s.ledger.AddRow)
}

// RemoveRow removes the row at index.
func (s *Session) RemoveRow(ctx context.Context, index int) (State, error) {
	return s.mutate(ctx, func(rec *domain.Record) error {
		return s.ledger.RemoveRow(rec, index)
	})
}

// SetRowField assigns one column of one row.
func (s *Session) SetRowField(ctx context.Context, index int, field, value string) (State, error) {
	return s.mutate(ctx, func(rec *domain.Record) error {
		return s.ledger.SetRowField(rec, index, field, value)
	})
}

// Attach binds an uploaded file to the row at index; nil detaches.
func (s *Session) Attach(ctx context.Context, index int, file *domain.FileRef) (State, error) {
	return s.mutate(ctx, func(rec *domain.Record) error {
		if err := s.ledger.Attach(rec, index, file); err != nil {
			return err
		}
		if file != nil && file.ObjectKey != "" {
			s.known[file.ObjectKey] = struct{}{}
		}
		return nil
	})
}

// AddCustomField appends a label/value pair and returns its id in the state.
func (s *Session) AddCustomField(ctx context.Context, label, value string) (State, string, error) {
	id := uuid.New().String()
	st, err := s.mutate(ctx, func(rec *domain.Record) error {
		rec.CustomFields = append(rec.CustomFields, domain.CustomField{ID: id, Label: label, Value: value})
		return nil
	})
	if err != nil {
		return st, "", err
	}
	return st, id, nil
}

// SetCustomField replaces the label and value of a custom field.
func (s *Session) SetCustomField(ctx context.Context, id, label, value string) (State, error) {
	return s.mutate(ctx, func(rec *domain.Record) error {
		for i := range rec.CustomFields {
			if rec.CustomFields[i].ID == id {
				rec.CustomFields[i].Label = label
				rec.CustomFields[i].Value = value
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// RemoveCustomField deletes a custom field.
func (s *Session) RemoveCustomField(ctx context.Context, id string) (State, error) {
	return s.mutate(ctx, func(rec *domain.Record) error {
		for i := range rec.CustomFields {
			if rec.CustomFields[i].ID == id {
				rec.CustomFields = append(rec.CustomFields[:i], rec.CustomFields[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// Edit switches a read-only session to editing. Nothing is written until
// the first change.
func (s *Session) Edit(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()
	s.mode = domain.ModeEditing
	return s.stateLocked(), nil
}

// Save validates the active state and promotes it to the canonical slot,
// removing the draft. A failed validation changes nothing.
func (s *Session) Save(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()

	if s.deps.Validator != nil {
		if err := s.deps.Validator.Validate(ctx, s.schema.Kind, s.active); err != nil {
			return s.stateLocked(), err
		}
	}

	s.cancelPendingLocked()
	canonical := s.active.Portable()
	s.deps.Store.Save(ctx, s.schema.CanonicalKey, canonical)
	s.deps.Store.Remove(ctx, s.schema.DraftKey)
	s.canonical = canonical
	s.mode = domain.ModeReadOnly
	s.sweepLocked(ctx)

	s.notify(ctx, domain.NoticeSuccess, s.schema.Title+" saved")
	slog.InfoContext(ctx, "session.Save: promoted draft", "kind", s.schema.Kind)
	return s.stateLocked(), nil
}

// Cancel discards unsaved changes. With a canonical copy the session
// returns to it read-only; otherwise it starts over from the default.
func (s *Session) Cancel(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()
	if s.mode != domain.ModeEditing {
		return s.stateLocked(), nil
	}

	s.cancelPendingLocked()
	s.deps.Store.Remove(ctx, s.schema.DraftKey)
	s.ledger.ReleaseAll(s.active)
	if s.canonical != nil {
		s.active = s.canonical.Clone()
		s.ledger.Reissue(s.active)
		s.mode = domain.ModeReadOnly
	} else {
		s.resetLocked(ctx)
	}
	s.sweepLocked(ctx)
	return s.stateLocked(), nil
}

// Delete removes both stored copies and starts over from the default.
func (s *Session) Delete(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()

	s.cancelPendingLocked()
	s.deps.Store.Remove(ctx, s.schema.CanonicalKey)
	s.deps.Store.Remove(ctx, s.schema.DraftKey)
	s.ledger.ReleaseAll(s.active)
	s.canonical = nil
	s.resetLocked(ctx)
	s.sweepLocked(ctx)

	s.notify(ctx, domain.NoticeInfo, s.schema.Title+" deleted")
	return s.stateLocked(), nil
}

// Flush writes any pending draft immediately.
func (s *Session) Flush() {
	s.debouncer.Flush()
}

// Close flushes the pending draft, releases every preview handle and
// sweeps blobs no stored copy references. Closing twice is a no-op.
func (s *Session) Close(ctx context.Context) {
	s.debouncer.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	s.ledger.ReleaseAll(s.active)
	s.sweepLocked(ctx)
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// IdleSince returns when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// BeginRender marks a render in flight and returns the state to render.
// The returned func must be called when rendering ends.
func (s *Session) BeginRender() (State, func(), error) {
	return s.begin(&s.rendering)
}

// BeginSubmit marks a submission in flight and returns the state to send.
// The returned func must be called when the submission ends.
func (s *Session) BeginSubmit() (State, func(), error) {
	return s.begin(&s.submitting)
}

func (s *Session) begin(flag *bool) (State, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, nil, domain.ErrSessionClosed
	}
	if *flag {
		return State{}, nil, domain.ErrOperationInProgress
	}
	*flag = true
	s.touch()
	done := func() {
		s.mu.Lock()
		*flag = false
		s.mu.Unlock()
	}
	return s.stateLocked(), done, nil
}

func (s *Session) mutate(ctx context.Context, fn func(rec *domain.Record) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, domain.ErrSessionClosed
	}
	s.touch()
	if s.mode != domain.ModeEditing {
		return s.stateLocked(), domain.ErrReadOnly
	}
	if err := fn(s.active); err != nil {
		return s.stateLocked(), err
	}
	s.scheduleDraftLocked()
	return s.stateLocked(), nil
}

func (s *Session) scheduleDraftLocked() {
	gen := s.gen
	snapshot := s.active.Portable()
	s.debouncer.Schedule(func() { s.writeDraft(gen, snapshot) })
}

func (s *Session) writeDraft(gen uint64, rec *domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.mode != domain.ModeEditing {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	s.deps.Store.Save(ctx, s.schema.DraftKey, rec)
}

// cancelPendingLocked drops a scheduled draft write and invalidates one
// that is already waiting for the lock.
func (s *Session) cancelPendingLocked() {
	s.debouncer.Cancel()
	s.gen++
}

func (s *Session) resetLocked(ctx context.Context) {
	s.active = s.schema.Default()
	s.mode = domain.ModeEditing
	s.applyPrefill(ctx)
}

func (s *Session) applyPrefill(ctx context.Context) {
	if s.schema.Identity == nil {
		return
	}
	for _, key := range s.schema.PrefillFrom {
		if key == s.schema.CanonicalKey {
			continue
		}
		prefill.Apply(s.active, s.schema.Identity, s.deps.Store.Load(ctx, key))
	}
}

// sweepLocked hands every blob seen by this session that neither the
// canonical copy nor the active state references to the sweeper.
func (s *Session) sweepLocked(ctx context.Context) {
	referenced := make(map[string]struct{})
	for _, k := range s.canonical.ObjectKeys() {
		referenced[k] = struct{}{}
	}
	for _, k := range s.active.ObjectKeys() {
		referenced[k] = struct{}{}
	}

	var orphans []string
	for k := range s.known {
		if _, ok := referenced[k]; !ok {
			orphans = append(orphans, k)
		}
	}
	s.known = referenced
	if len(orphans) == 0 || s.deps.Sweeper == nil {
		return
	}
	sort.Strings(orphans)
	s.deps.Sweeper.Sweep(ctx, orphans)
}

func (s *Session) remember(records ...*domain.Record) {
	for _, rec := range records {
		for _, k := range rec.ObjectKeys() {
			s.known[k] = struct{}{}
		}
	}
}

func (s *Session) notify(ctx context.Context, kind domain.NoticeKind, msg string) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify(ctx, kind, strings.TrimSpace(msg))
	}
}

func (s *Session) touch() {
	s.lastUsed = s.deps.Now()
}

func (s *Session) stateLocked() State {
	st := State{
		Kind:         s.schema.Kind,
		Mode:         s.mode,
		Record:       s.active.Clone(),
		HasCanonical: s.canonical != nil,
		DraftPending: s.debouncer.Pending(),
	}
	if s.schema.Tabular() || s.schema.RateField != "" || s.schema.AdvanceField != "" {
		t := totals.ForRecord(s.active, s.schema.RateField, s.schema.AdvanceField)
		st.Totals = &t
	}
	return st
}
