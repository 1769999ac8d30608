package ruleset_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/ruleset"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const signupYAML = `
forms:
  signup:
    title: Sign up
    strategy: short-circuit
    locale: zh
    defaults:
      newsletter: true
    fields:
      - name: username
        required: true
        minLength: 3
        maxLength: 20
        pattern: "^[a-z0-9_]+$"
      - name: email
        required: true
        validators: [email]
`

const loginJSON = `{
  "forms": {
    "login": {
      "fields": [
        {"name": "email", "required": true},
        {"name": "password", "required": true, "minLength": 8}
      ]
    }
  }
}`

func TestLoadFSCompilesJSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/signup.yaml": {Data: []byte(signupYAML)},
		"forms/login.json":  {Data: []byte(loginJSON)},
		"forms/README.md":   {Data: []byte("ignored")},
	}

	store, err := ruleset.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"login", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	signup, ok := store.Form("signup")
	if !ok {
		t.Fatalf("signup form missing")
	}
	if signup.Title != "Sign up" || signup.Strategy != validation.StrategyShortCircuit || !signup.StrategySet || signup.Locale != "zh" {
		t.Fatalf("unexpected form header: %+v", signup)
	}
	if signup.Source != "forms/signup.yaml" {
		t.Fatalf("unexpected source %q", signup.Source)
	}
	if diff := cmp.Diff([]string{"username", "email"}, signup.Rules.Fields()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"newsletter": true}, signup.Defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	result := validation.ValidateForm(map[string]any{
		"username": "Bad Name",
		"email":    "nope",
	}, signup.Rules, signup.ValidationOptions()...)
	want := map[string][]string{
		"username": {"格式不正确"},
		"email":    {"邮箱格式不正确"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	login, err := store.MustForm("login")
	if err != nil {
		t.Fatalf("MustForm: %v", err)
	}
	rule, _ := login.Rules.Rule("password")
	if rule.MinLength != 8 || !rule.Required {
		t.Fatalf("unexpected password rule: %+v", rule)
	}
	if _, err := store.MustForm("missing"); !errors.Is(err, ruleset.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestLoadFSErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want error
	}{
		{
			name: "empty file",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("  \n")}},
			want: ruleset.ErrEmptyFile,
		},
		{
			name: "garbage",
			fsys: fstest.MapFS{"a.json": {Data: []byte("{forms: [")}},
			want: ruleset.ErrInvalidDocument,
		},
		{
			name: "unknown validator",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: x\n        validators: [emial]\n")}},
			want: ruleset.ErrUnknownValidator,
		},
		{
			name: "bad pattern",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: x\n        pattern: \"([\"\n")}},
			want: ruleset.ErrInvalidPattern,
		},
		{
			name: "inverted bounds",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: x\n        minLength: 5\n        maxLength: 2\n")}},
			want: ruleset.ErrInvalidLength,
		},
		{
			name: "unknown strategy",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    strategy: shortcut\n    fields: []\n")}},
			want: ruleset.ErrInvalidStrategy,
		},
		{
			name: "message without validators",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: x\n        required: true\n        message: Please fill x\n")}},
			want: ruleset.ErrOrphanMessage,
		},
		{
			name: "duplicate form",
			fsys: fstest.MapFS{
				"a.yaml": {Data: []byte("forms:\n  f:\n    fields: []\n")},
				"b.yaml": {Data: []byte("forms:\n  f:\n    fields: []\n")},
			},
			want: ruleset.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ruleset.LoadFS(tt.fsys)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFSWithCustomRegistry(t *testing.T) {
	registry := validation.NewRegistry()
	registry.Register("even", validation.CustomBool(func(v any) bool {
		return len(validation.Stringify(v))%2 == 0
	}))
	fsys := fstest.MapFS{"a.yaml": {Data: []byte("forms:\n  f:\n    fields:\n      - name: code\n        validators: [even]\n        message: Needs an even length\n")}}

	store, err := ruleset.LoadFS(fsys, ruleset.WithRegistry(registry))
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	form, _ := store.Form("f")
	rule, _ := form.Rules.Rule("code")
	res := validation.ValidateField("abc", rule)
	if diff := cmp.Diff([]string{"Needs an even length"}, res.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSNil(t *testing.T) {
	store, err := ruleset.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("expected empty store, got %v %v", store, err)
	}
}

func TestLintCollectsEverything(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(`
forms:
  f:
    fields:
      - name: email
        validators: [emial]
      - name: email
      - name: code
        pattern: "(["
      - name: ""
`)},
		"b.json": {Data: []byte("")},
	}

	issues, err := ruleset.Lint(fsys)
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(issues) != 5 {
		t.Fatalf("expected 5 issues, got %d: %v", len(issues), issues)
	}
	if !errors.Is(issues[0].Err, ruleset.ErrUnknownValidator) || !strings.Contains(issues[0].String(), `did you mean "email"?`) {
		t.Fatalf("expected suggestion, got %v", issues[0])
	}
	if !errors.Is(issues[1].Err, ruleset.ErrDuplicate) || issues[1].Field != "email" {
		t.Fatalf("expected duplicate field issue, got %v", issues[1])
	}
	if !errors.Is(issues[2].Err, ruleset.ErrInvalidPattern) {
		t.Fatalf("expected pattern issue, got %v", issues[2])
	}
	if !errors.Is(issues[4].Err, ruleset.ErrEmptyFile) {
		t.Fatalf("expected empty file issue, got %v", issues[4])
	}
}

func TestLintReportsStrategyAndOrphanMessage(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(`
forms:
  f:
    strategy: shortcut
    fields:
      - name: note
        message: Say something
      - name: email
        validators: [email]
        message: Bad email
`)},
	}

	issues, err := ruleset.Lint(fsys)
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	type found struct {
		Form, Field string
		Strategy    bool
		Orphan      bool
	}
	got := make([]found, 0, len(issues))
	for _, issue := range issues {
		got = append(got, found{
			Form:     issue.Form,
			Field:    issue.Field,
			Strategy: errors.Is(issue.Err, ruleset.ErrInvalidStrategy),
			Orphan:   errors.Is(issue.Err, ruleset.ErrOrphanMessage),
		})
	}
	want := []found{
		{Form: "f", Strategy: true},
		{Form: "f", Field: "note", Orphan: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestFormValidationOptionsOnlyDeclared(t *testing.T) {
	forms, err := ruleset.Parse([]byte(loginJSON), "login.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	login := forms[0]
	if login.StrategySet || len(login.ValidationOptions()) != 0 {
		t.Fatalf("undeclared strategy and locale should emit no options: %+v", login)
	}

	global := []validation.Option{
		validation.WithStrategy(validation.StrategyShortCircuit),
		validation.WithMessages(validation.ChineseMessages()),
	}
	values := map[string]any{"email": "", "password": ""}
	res := validation.ValidateForm(values, login.Rules, append(global, login.ValidationOptions()...)...)
	want := map[string][]string{
		"email":    {"此字段为必填项"},
		"password": {"此字段为必填项"},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("global options should stay in force (-want +got):\n%s", diff)
	}

	declared, err := ruleset.Parse([]byte("forms:\n  f:\n    strategy: exhaustive\n    locale: en\n    fields:\n      - name: code\n        required: true\n        minLength: 3\n"), "f.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res = validation.ValidateForm(map[string]any{"code": ""}, declared[0].Rules, append(global, declared[0].ValidationOptions()...)...)
	want = map[string][]string{"code": {"This field is required", "Must be at least 3 characters"}}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("declared options should win (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	forms, err := ruleset.Parse([]byte(loginJSON), "login.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(forms) != 1 || forms[0].ID != "login" {
		t.Fatalf("unexpected forms: %+v", forms)
	}
}

func TestStoreAdd(t *testing.T) {
	store, err := ruleset.NewStore(ruleset.Form{ID: "a"}, ruleset.Form{ID: " b "})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if err := store.Add(ruleset.Form{ID: "a"}); !errors.Is(err, ruleset.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := store.Add(ruleset.Form{ID: ""}); err == nil {
		t.Fatalf("expected error for blank id")
	}
	f, _ := store.Form("b")
	if f.Rules == nil || f.Rules.Len() != 0 {
		t.Fatalf("expected empty rule set, got %v", f.Rules)
	}
}
