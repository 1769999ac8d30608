// Package server exposes loaded forms over HTTP. Payloads are JSON objects of
// field values; validation failures answer 422 with the error map.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/storage"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// SubmitHandler completes a valid submission for formID. Returning a
// *RejectError maps backend field errors onto the response.
type SubmitHandler func(ctx context.Context, formID string, values form.Values) error

// RejectError carries field errors reported by a SubmitHandler. Keys follow the
// paths accepted by form.Controller.ApplyServerErrors.
type RejectError struct {
	Errors map[string][]string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("server: submission rejected (%d fields)", len(e.Errors))
}

// Server serves the forms held by a ruleset.Store.
type Server struct {
	forms      *ruleset.Store
	submit     SubmitHandler
	drafts     storage.Store
	sanitizer  form.Sanitizer
	logger     form.Logger
	validation []validation.Option
	logRequest bool
}

// Option configures a Server.
type Option func(*Server)

// WithSubmitHandler installs the handler run for valid submissions.
func WithSubmitHandler(fn SubmitHandler) Option {
	return func(s *Server) {
		s.submit = fn
	}
}

// WithDrafts enables the draft endpoints backed by store.
func WithDrafts(store storage.Store) Option {
	return func(s *Server) {
		s.drafts = store
	}
}

// WithSanitizer rewrites incoming values before validation.
func WithSanitizer(fn form.Sanitizer) Option {
	return func(s *Server) {
		s.sanitizer = fn
	}
}

// WithLogger receives submit failures.
func WithLogger(logger form.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithValidationOptions applies engine options ahead of each form's own.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(s *Server) {
		s.validation = append(s.validation, opts...)
	}
}

// WithRequestLogging enables chi's request logger.
func WithRequestLogging() Option {
	return func(s *Server) {
		s.logRequest = true
	}
}

// New returns a Server for forms.
func New(forms *ruleset.Store, opts ...Option) *Server {
	s := &Server{forms: forms}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler builds the router.
//
//	GET    /forms
//	GET    /forms/{id}
//	POST   /forms/{id}/validate
//	POST   /forms/{id}/submit
//	GET    /forms/{id}/drafts/{key}
//	PUT    /forms/{id}/drafts/{key}
//	DELETE /forms/{id}/drafts/{key}
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.logRequest {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/forms", s.listForms)
	r.Route("/forms/{id}", func(r chi.Router) {
		r.Get("/", s.describeForm)
		r.Post("/validate", s.validateForm)
		r.Post("/submit", s.submitForm)
		if s.drafts != nil {
			r.Get("/drafts/{key}", s.getDraft)
			r.Put("/drafts/{key}", s.putDraft)
			r.Delete("/drafts/{key}", s.deleteDraft)
		}
	})
	return r
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (ruleset.Form, bool) {
	f, ok := s.forms.Form(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "form not found")
	}
	return f, ok
}

// controller applies the server-wide validation options first so a form's
// declared strategy and locale take precedence.
func (s *Server) controller(f ruleset.Form, submit form.SubmitFunc) *form.Controller {
	opts := []form.Option{
		form.WithValidationOptions(append(append([]validation.Option(nil), s.validation...), f.ValidationOptions()...)...),
	}
	if s.sanitizer != nil {
		opts = append(opts, form.WithSanitizer(s.sanitizer))
	}
	if s.logger != nil {
		opts = append(opts, form.WithLogger(s.logger))
	}
	if submit != nil {
		opts = append(opts, form.WithSubmit(submit))
	}
	return form.New(form.Values(f.Defaults), f.Rules, opts...)
}

func (s *Server) listForms(w http.ResponseWriter, _ *http.Request) {
	ids := s.forms.IDs()
	out := make([]formDescriptor, 0, len(ids))
	for _, id := range ids {
		f, _ := s.forms.Form(id)
		out = append(out, describe(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) describeForm(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(f))
}

func (s *Server) validateForm(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := s.controller(f, nil)
	for field, value := range values {
		c.SetValue(field, value)
	}
	if c.Validate() {
		writeJSON(w, http.StatusOK, validationResponse{Valid: true})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: c.Errors()})
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		c         *form.Controller
		formErrs  []string
		submitErr error
	)
	c = s.controller(f, func(ctx context.Context, v form.Values) error {
		if s.submit == nil {
			return nil
		}
		err := s.submit(ctx, f.ID, v)
		var reject *RejectError
		if errors.As(err, &reject) {
			formErrs = c.ApplyServerErrors(reject.Errors)
		}
		submitErr = err
		return err
	})
	for field, value := range values {
		c.SetValue(field, value)
	}

	if c.Submit(r.Context()) {
		writeJSON(w, http.StatusOK, submitResponse{Submitted: true, Values: c.Values()})
		return
	}

	errs := c.Errors()
	switch {
	case len(errs) > 0 || len(formErrs) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Errors: errs, FormErrors: formErrs})
	case submitErr != nil:
		writeError(w, http.StatusBadGateway, "submission failed")
	default:
		writeError(w, http.StatusInternalServerError, "submission failed")
	}
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	values, err := storage.Restore(r.Context(), s.drafts, draftKey(f.ID, chi.URLParam(r, "key")), form.Values(f.Defaults))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load draft failed")
		return
	}
	if values == nil {
		values = form.Values{}
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) putDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.sanitizer != nil {
		for field, value := range values {
			values[field] = s.sanitizer(field, value)
		}
	}
	if err := storage.Save(r.Context(), s.drafts, draftKey(f.ID, chi.URLParam(r, "key")), values); err != nil {
		writeError(w, http.StatusInternalServerError, "save draft failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.drafts.Delete(r.Context(), draftKey(f.ID, chi.URLParam(r, "key"))); err != nil {
		writeError(w, http.StatusInternalServerError, "delete draft failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func draftKey(formID, key string) string {
	return formID + "/" + key
}
