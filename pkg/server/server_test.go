package server_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/format"
	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/server"
	"github.com/goliatone/go-formkit/pkg/storage"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const rulesYAML = `
forms:
  signup:
    title: Sign up
    defaults:
      plan: free
    fields:
      - name: username
        required: true
        minLength: 3
      - name: email
        required: true
        validators: [email]
`

type discard struct{}

func (discard) Printf(string, ...any) {}

func newTestServer(t *testing.T, opts ...server.Option) *httptest.Server {
	t.Helper()
	store, err := ruleset.LoadFS(fstest.MapFS{"signup.yaml": {Data: []byte(rulesYAML)}})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	opts = append([]server.Option{server.WithLogger(discard{})}, opts...)
	srv := httptest.NewServer(server.New(store, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
	}
	return resp.StatusCode, out
}

func TestListAndDescribe(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/forms")
	if err != nil {
		t.Fatalf("GET /forms: %v", err)
	}
	defer resp.Body.Close()
	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0]["id"] != "signup" || list[0]["title"] != "Sign up" {
		t.Fatalf("unexpected list: %v", list)
	}

	status, body := do(t, http.MethodGet, srv.URL+"/forms/signup", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	fields, _ := body["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected two fields, got %v", body["fields"])
	}
	first, _ := fields[0].(map[string]any)
	if first["name"] != "username" || first["minLength"] != float64(3) {
		t.Fatalf("unexpected first field: %v", first)
	}

	if status, _ := do(t, http.MethodGet, srv.URL+"/forms/missing", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t)

	status, body := do(t, http.MethodPost, srv.URL+"/forms/signup/validate", `{"username":"ab","email":"nope"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	want := map[string]any{
		"valid": false,
		"errors": map[string]any{
			"username": []any{"Must be at least 3 characters"},
			"email":    []any{"Invalid email address"},
		},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	status, body = do(t, http.MethodPost, srv.URL+"/forms/signup/validate", `{"username":"ada","email":"ada@example.com"}`)
	if status != http.StatusOK || body["valid"] != true {
		t.Fatalf("expected valid, got %d %v", status, body)
	}

	if status, _ := do(t, http.MethodPost, srv.URL+"/forms/signup/validate", `[1,2]`); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestValidateLayersServerAndFormSettings(t *testing.T) {
	store, err := ruleset.LoadFS(fstest.MapFS{
		"signup.yaml": {Data: []byte(rulesYAML)},
		"strict.yaml": {Data: []byte("forms:\n  strict:\n    strategy: exhaustive\n    locale: en\n    fields:\n      - name: name\n        required: true\n        minLength: 3\n")},
	})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	handler := server.New(store,
		server.WithLogger(discard{}),
		server.WithValidationOptions(
			validation.WithStrategy(validation.StrategyShortCircuit),
			validation.WithMessages(validation.ChineseMessages()),
		),
	).Handler()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	_, body := do(t, http.MethodPost, srv.URL+"/forms/signup/validate", `{}`)
	want := map[string]any{
		"valid": false,
		"errors": map[string]any{
			"username": []any{"此字段为必填项"},
			"email":    []any{"此字段为必填项"},
		},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("server settings should apply to undeclared forms (-want +got):\n%s", diff)
	}

	_, body = do(t, http.MethodPost, srv.URL+"/forms/strict/validate", `{}`)
	want = map[string]any{
		"valid": false,
		"errors": map[string]any{
			"name": []any{"This field is required", "Must be at least 3 characters"},
		},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("declared form settings should win (-want +got):\n%s", diff)
	}

	_, signup := do(t, http.MethodGet, srv.URL+"/forms/signup", "")
	_, strict := do(t, http.MethodGet, srv.URL+"/forms/strict", "")
	gotHeaders := map[string][]any{
		"signup": {signup["strategy"], signup["locale"]},
		"strict": {strict["strategy"], strict["locale"]},
	}
	wantHeaders := map[string][]any{
		"signup": {nil, nil},
		"strict": {"exhaustive", "en"},
	}
	if diff := cmp.Diff(wantHeaders, gotHeaders); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit(t *testing.T) {
	var got form.Values
	srv := newTestServer(t,
		server.WithSanitizer(format.SanitizeValue),
		server.WithSubmitHandler(func(_ context.Context, formID string, values form.Values) error {
			if formID != "signup" {
				return errors.New("wrong form")
			}
			switch values["username"] {
			case "taken":
				return &server.RejectError{Errors: map[string][]string{
					"/data/username": {"Already taken"},
					"_form":          {"Try again later"},
				}}
			case "boom":
				return errors.New("backend down")
			}
			got = values
			return nil
		}))

	status, body := do(t, http.MethodPost, srv.URL+"/forms/signup/submit", `{"username":"<b>ada</b>","email":"ada@example.com"}`)
	if status != http.StatusOK || body["submitted"] != true {
		t.Fatalf("expected submitted, got %d %v", status, body)
	}
	want := form.Values{"username": "ada", "email": "ada@example.com", "plan": "free"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	status, body = do(t, http.MethodPost, srv.URL+"/forms/signup/submit", `{"username":"taken","email":"ada@example.com"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	wantRejected := map[string]any{
		"submitted":  false,
		"errors":     map[string]any{"username": []any{"Already taken"}},
		"formErrors": []any{"Try again later"},
	}
	if diff := cmp.Diff(wantRejected, body); diff != "" {
		t.Fatalf("rejection mismatch (-want +got):\n%s", diff)
	}

	if status, _ := do(t, http.MethodPost, srv.URL+"/forms/signup/submit", `{"username":"boom","email":"ada@example.com"}`); status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}

	if status, _ := do(t, http.MethodPost, srv.URL+"/forms/signup/submit", `{}`); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid payload, got %d", status)
	}
}

func TestDrafts(t *testing.T) {
	srv := newTestServer(t, server.WithDrafts(storage.NewMemory()))
	url := srv.URL + "/forms/signup/drafts/u1"

	status, body := do(t, http.MethodGet, url, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if diff := cmp.Diff(map[string]any{"plan": "free"}, body); diff != "" {
		t.Fatalf("empty draft mismatch (-want +got):\n%s", diff)
	}

	if status, _ := do(t, http.MethodPut, url, `{"username":"ada"}`); status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	_, body = do(t, http.MethodGet, url, "")
	if diff := cmp.Diff(map[string]any{"plan": "free", "username": "ada"}, body); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	if status, _ := do(t, http.MethodDelete, url, ""); status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	_, body = do(t, http.MethodGet, url, "")
	if diff := cmp.Diff(map[string]any{"plan": "free"}, body); diff != "" {
		t.Fatalf("deleted draft mismatch (-want +got):\n%s", diff)
	}
}

func TestDraftRoutesDisabledWithoutStore(t *testing.T) {
	srv := newTestServer(t)
	status, _ := do(t, http.MethodGet, srv.URL+"/forms/signup/drafts/u1", "")
	if status != http.StatusNotFound && status != http.StatusMethodNotAllowed {
		t.Fatalf("expected draft routes to be absent, got %d", status)
	}
}
