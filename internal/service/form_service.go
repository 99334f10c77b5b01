package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/port"
	"expensedesk/internal/preview"
	"expensedesk/internal/render"
	"expensedesk/internal/session"
)

// NavigateHome is the route hint returned after a successful submission.
const NavigateHome = "home"

// FormView is a session state plus an optional route hint for the client.
type FormView struct {
	session.State
	Navigate string `json:"navigate,omitempty"`
}

// DocumentInput selects the output format and page setup of a rendered form.
type DocumentInput struct {
	Format  string
	Options domain.RenderOptions
}

// RenderedDocument is a rendered form ready to be sent as a download.
type RenderedDocument struct {
	FileName    string
	ContentType string
	Body        []byte
}

// FormStatus tells the dashboard which copies of a form exist.
type FormStatus struct {
	Kind         domain.FormKind `json:"kind"`
	Title        string          `json:"title"`
	HasCanonical bool            `json:"hasCanonical"`
	HasDraft     bool            `json:"hasDraft"`
}

// HomeView is the dashboard of a user.
type HomeView struct {
	Profile map[string]string `json:"profile"`
	Forms   []FormStatus      `json:"forms"`
}

// FormService drives the form sessions of authenticated users.
type FormService interface {
	Forms() []*form.Schema
	View(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	SetFields(ctx context.Context, userID uuid.UUID, kind domain.FormKind, fields map[string]string) (*FormView, error)
	AddRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	UpdateRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int, field, value string) (*FormView, error)
	RemoveRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int) (*FormView, error)
	Attach(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int, input FileUploadInput) (*FormView, error)
	Detach(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int) (*FormView, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, input FileUploadInput) (*FormView, error)
	AddCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, label, value string) (*FormView, string, error)
	UpdateCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, id, label, value string) (*FormView, error)
	RemoveCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, id string) (*FormView, error)
	Edit(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	Save(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	Cancel(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	Delete(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	Close(ctx context.Context, userID uuid.UUID, kind domain.FormKind)
	Submit(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error)
	Document(ctx context.Context, userID uuid.UUID, kind domain.FormKind, input DocumentInput) (*RenderedDocument, error)
	PreviewURL(ctx context.Context, userID uuid.UUID, token string) (string, error)
	Home(ctx context.Context, userID uuid.UUID) (*HomeView, error)
	Submissions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error)
}

// FormServiceDeps are the collaborators of the form service.
type FormServiceDeps struct {
	Forms       *form.Registry
	Sessions    *session.Manager
	Files       FileService
	Previews    *preview.Registry
	StoreFor    func(userID uuid.UUID) port.SessionStore
	Validator   session.Validator
	Submitter   port.SubmissionClient
	Submissions port.SubmissionRepository
	Users       port.UserRepository
	Email       port.EmailSender
	Notifier    port.Notifier
	Now         func() time.Time
}

type formService struct {
	deps FormServiceDeps
}

// NewFormService creates a new FormService implementation.
func NewFormService(deps FormServiceDeps) FormService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &formService{deps: deps}
}

// submissionPayload is the JSON body posted to the backend.
type submissionPayload struct {
	Form        domain.FormKind `json:"form"`
	SubmittedBy uuid.UUID       `json:"submittedBy"`
	SubmittedAt time.Time       `json:"submittedAt"`
	Record      *domain.Record  `json:"record"`
	Totals      *domain.Totals  `json:"totals,omitempty"`
}

func (s *formService) Forms() []*form.Schema {
	return s.deps.Forms.All()
}

func (s *formService) View(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.View()
	})
}

func (s *formService) SetFields(ctx context.Context, userID uuid.UUID, kind domain.FormKind, fields map[string]string) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.SetFields(ctx, fields)
	})
}

func (s *formService) AddRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.AddRow(ctx)
	})
}

func (s *formService) UpdateRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int, field, value string) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.SetRowField(ctx, index, field, value)
	})
}

func (s *formService) RemoveRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.RemoveRow(ctx, index)
	})
}

func (s *formService) Attach(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int, input FileUploadInput) (*FormView, error) {
	sess, err := s.deps.Sessions.Get(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if !sess.Schema().Tabular() {
		return nil, domain.ErrNotTabular
	}
	st, err := sess.View()
	if err != nil {
		return nil, err
	}
	if st.Mode != domain.ModeEditing {
		return nil, domain.ErrReadOnly
	}
	if index < 0 || index >= len(st.Record.Table) {
		return nil, domain.ErrOutOfRange
	}

	ref, err := s.deps.Files.UploadAttachment(ctx, userID, kind, input)
	if err != nil {
		return nil, err
	}
	st, err = sess.Attach(ctx, index, ref)
	if err != nil {
		// The row changed between the check and the attach.
		s.deps.Files.Discard(ctx, ref.ObjectKey)
		return nil, err
	}
	return &FormView{State: st}, nil
}

func (s *formService) Detach(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.Attach(ctx, index, nil)
	})
}

func (s *formService) SetAvatar(ctx context.Context, userID uuid.UUID, input FileUploadInput) (*FormView, error) {
	dataURL, err := s.deps.Files.AvatarDataURL(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.with(ctx, userID, domain.FormProfile, func(sess *session.Session) (session.State, error) {
		return sess.SetField(ctx, sess.Schema().AvatarField, dataURL)
	})
}

func (s *formService) AddCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, label, value string) (*FormView, string, error) {
	var id string
	view, err := s.with(ctx, userID, kind, func(sess *session.Session) (st session.State, err error) {
		st, id, err = sess.AddCustomField(ctx, label, value)
		return st, err
	})
	if err != nil {
		return nil, "", err
	}
	return view, id, nil
}

func (s *formService) UpdateCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, id, label, value string) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.SetCustomField(ctx, id, label, value)
	})
}

func (s *formService) RemoveCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, id string) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.RemoveCustomField(ctx, id)
	})
}

func (s *formService) Edit(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.Edit(ctx)
	})
}

func (s *formService) Save(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	view, err := s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.Save(ctx)
	})
	if err != nil {
		return nil, err
	}
	schema, err := s.deps.Forms.Get(kind)
	if err != nil {
		return nil, err
	}
	view.Navigate = schema.NextAfterSave
	return view, nil
}

func (s *formService) Cancel(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.Cancel(ctx)
	})
}

func (s *formService) Delete(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	return s.with(ctx, userID, kind, func(sess *session.Session) (session.State, error) {
		return sess.Delete(ctx)
	})
}

func (s *formService) Close(ctx context.Context, userID uuid.UUID, kind domain.FormKind) {
	s.deps.Sessions.Close(ctx, userID, kind)
}

func (s *formService) Submit(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*FormView, error) {
	sess, err := s.deps.Sessions.Get(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	schema := sess.Schema()
	if schema.SubmitPath == "" {
		return nil, domain.ErrNotSubmittable
	}

	st, done, err := sess.BeginSubmit()
	if err != nil {
		return nil, err
	}
	defer done()

	if s.deps.Validator != nil {
		if err := s.deps.Validator.Validate(ctx, kind, st.Record); err != nil {
			return nil, err
		}
	}

	payload := submissionPayload{
		Form:        kind,
		SubmittedBy: userID,
		SubmittedAt: s.deps.Now().UTC(),
		Record:      st.Record.Portable(),
		Totals:      st.Totals,
	}
	submitErr := s.deps.Submitter.Submit(ctx, schema.SubmitPath, payload)

	sub := &domain.Submission{UserID: userID, FormKind: kind, Status: domain.SubmissionSucceeded}
	if submitErr != nil {
		sub.Status = domain.SubmissionFailed
		sub.ErrorMessage = submitErr.Error()
	}
	if err := s.deps.Submissions.Create(ctx, sub); err != nil {
		slog.ErrorContext(ctx, "formService.Submit: recording submission failed", "kind", kind, "error", err)
	}

	if submitErr != nil {
		slog.WarnContext(ctx, "formService.Submit: backend rejected submission", "kind", kind, "error", submitErr)
		s.notify(ctx, domain.NoticeError, "Failed to submit "+schema.Title)
		if !errors.Is(submitErr, domain.ErrSubmissionFailed) {
			return nil, &domain.SubmissionError{Message: submitErr.Error()}
		}
		return nil, submitErr
	}

	slog.InfoContext(ctx, "formService.Submit: submitted", "kind", kind, "submission_id", sub.ID)
	s.notify(ctx, domain.NoticeSuccess, schema.Title+" submitted")
	s.sendReceipt(ctx, userID, schema, sub, payload)
	return &FormView{State: st, Navigate: NavigateHome}, nil
}

func (s *formService) sendReceipt(ctx context.Context, userID uuid.UUID, schema *form.Schema, sub *domain.Submission, payload submissionPayload) {
	if s.deps.Email == nil || s.deps.Users == nil {
		return
	}
	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "formService.sendReceipt: user lookup failed", "user_id", userID, "error", err)
		return
	}
	in := port.ReceiptInput{
		ToEmail:     user.Email,
		ToName:      user.FullName,
		FormTitle:   schema.Title,
		Reference:   sub.ID.String(),
		SubmittedAt: payload.SubmittedAt,
	}
	if schema.Tabular() && payload.Totals != nil {
		in.GrandTotal = payload.Totals.GrandTotal.StringFixed(2)
		if payload.Totals.Advance != nil {
			in.Advance = payload.Totals.Advance.StringFixed(2)
		}
		if payload.Record != nil {
			in.Rows = len(payload.Record.Table)
		}
	}
	if err := s.deps.Email.SendSubmissionReceipt(ctx, in); err != nil {
		slog.WarnContext(ctx, "formService.sendReceipt: email failed", "user_id", userID, "error", err)
	}
}

func (s *formService) Document(ctx context.Context, userID uuid.UUID, kind domain.FormKind, input DocumentInput) (*RenderedDocument, error) {
	renderer, err := render.ForFormat(input.Format)
	if err != nil {
		return nil, err
	}
	sess, err := s.deps.Sessions.Get(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	st, done, err := sess.BeginRender()
	if err != nil {
		return nil, err
	}
	defer done()

	now := s.deps.Now()
	schema := sess.Schema()
	doc := render.Build(schema, st.Record, st.Totals, now)

	var buf bytes.Buffer
	if err := renderer.Render(ctx, doc, input.Options, &buf); err != nil {
		return nil, fmt.Errorf("formService.Document: %w", err)
	}

	name := render.BuildFilename(schema.FileName, renderer.Extension(), now)
	if input.Options.FileName != "" {
		name = render.SanitizeFilename(input.Options.FileName) + "." + renderer.Extension()
	}
	return &RenderedDocument{FileName: name, ContentType: renderer.ContentType(), Body: buf.Bytes()}, nil
}

func (s *formService) PreviewURL(ctx context.Context, userID uuid.UUID, token string) (string, error) {
	key, err := s.deps.Previews.Resolve(userID, token)
	if err != nil {
		return "", err
	}
	return s.deps.Files.PresignedURL(ctx, key)
}

func (s *formService) Home(ctx context.Context, userID uuid.UUID) (*HomeView, error) {
	store := s.deps.StoreFor(userID)
	view := &HomeView{Profile: map[string]string{}}

	profileSchema, err := s.deps.Forms.Get(domain.FormProfile)
	if err != nil {
		return nil, err
	}
	if profile := store.Load(ctx, profileSchema.CanonicalKey); profile != nil {
		for _, f := range profileSchema.Fields {
			view.Profile[f.Name] = profile.Get(f.Name)
		}
	} else if s.deps.Users != nil {
		if user, err := s.deps.Users.GetByID(ctx, userID); err == nil {
			view.Profile["name"] = user.FullName
			view.Profile["email"] = user.Email
		}
	}

	stored := make(map[string]bool)
	for _, key := range store.Keys(ctx) {
		stored[key] = true
	}
	for _, schema := range s.deps.Forms.All() {
		view.Forms = append(view.Forms, FormStatus{
			Kind:         schema.Kind,
			Title:        schema.Title,
			HasCanonical: stored[schema.CanonicalKey],
			HasDraft:     stored[schema.DraftKey],
		})
	}
	return view, nil
}

func (s *formService) Submissions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	subs, total, err := s.deps.Submissions.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("formService.Submissions: %w", err)
	}
	return subs, total, nil
}

// with runs fn on the user's session. Idle eviction may close the session
// between Get and fn; fn then sees ErrSessionClosed before changing
// anything, and is run once more on a freshly opened session.
func (s *formService) with(ctx context.Context, userID uuid.UUID, kind domain.FormKind, fn func(*session.Session) (session.State, error)) (*FormView, error) {
	st, err := s.once(ctx, userID, kind, fn)
	if errors.Is(err, domain.ErrSessionClosed) {
		slog.DebugContext(ctx, "formService.with: session closed underneath, reopening", "kind", kind)
		st, err = s.once(ctx, userID, kind, fn)
	}
	return wrap(st, err)
}

func (s *formService) once(ctx context.Context, userID uuid.UUID, kind domain.FormKind, fn func(*session.Session) (session.State, error)) (session.State, error) {
	sess, err := s.deps.Sessions.Get(ctx, userID, kind)
	if err != nil {
		return session.State{}, err
	}
	return fn(sess)
}

func (s *formService) notify(ctx context.Context, kind domain.NoticeKind, msg string) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.Notify(ctx, kind, msg)
	}
}

func wrap(st session.State, err error) (*FormView, error) {
	if err != nil {
		return nil, err
	}
	return &FormView{State: st}, nil
}
