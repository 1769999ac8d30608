package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const maxBodyBytes = 1 << 20

type fieldDescriptor struct {
	Name      string `json:"name"`
	Required  bool   `json:"required,omitempty"`
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Custom    bool   `json:"custom,omitempty"`
}

type formDescriptor struct {
	ID       string            `json:"id"`
	Title    string            `json:"title,omitempty"`
	Strategy string            `json:"strategy,omitempty"`
	Locale   string            `json:"locale,omitempty"`
	Defaults map[string]any    `json:"defaults,omitempty"`
	Fields   []fieldDescriptor `json:"fields"`
}

type validationResponse struct {
	Valid  bool        `json:"valid"`
	Errors form.Errors `json:"errors,omitempty"`
}

type submitResponse struct {
	Submitted  bool        `json:"submitted"`
	Values     form.Values `json:"values,omitempty"`
	Errors     form.Errors `json:"errors,omitempty"`
	FormErrors []string    `json:"formErrors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func describe(f ruleset.Form) formDescriptor {
	out := formDescriptor{
		ID:       f.ID,
		Title:    f.Title,
		Locale:   f.Locale,
		Defaults: f.Defaults,
		Fields:   make([]fieldDescriptor, 0, f.Rules.Len()),
	}
	if f.StrategySet {
		out.Strategy = f.Strategy.String()
	}
	f.Rules.Each(func(field string, rule *validation.FieldRule) {
		d := fieldDescriptor{
			Name:      field,
			Required:  rule.Required,
			MinLength: rule.MinLength,
			MaxLength: rule.MaxLength,
			Custom:    rule.Custom != nil,
		}
		if rule.Pattern != nil {
			d.Pattern = rule.Pattern.String()
		}
		out.Fields = append(out.Fields, d)
	})
	return out
}

func decodeValues(r *http.Request) (form.Values, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, errors.New("request body too large")
	}
	values := form.Values{}
	if len(body) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	return values, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
