package validation

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Patterns shared by the helper functions and the rule presets.
var (
	EmailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ChinesePhonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
	IDCardPattern       = regexp.MustCompile(`^[1-9]\d{5}(18|19|20)\d{2}((0[1-9])|(1[0-2]))(([0-2][1-9])|10|20|30|31)\d{3}[0-9Xx]$`)
	UsernamePattern     = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// DefaultPasswordMinLength is used by PasswordRule and the password_strength
// validator.
const DefaultPasswordMinLength = 8

var (
	tagValidatorOnce sync.Once
	tagValidator     *validator.Validate
)

func tags() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New()
	})
	return tagValidator
}

// Email reports whether s looks like an e-mail address.
func Email(s string) bool {
	return EmailPattern.MatchString(s)
}

// ChinesePhone reports whether s is an 11 digit mainland mobile number.
func ChinesePhone(s string) bool {
	return ChinesePhonePattern.MatchString(s)
}

// IDCard reports whether s matches the 18 character resident id layout.
// Only the structure is checked; the checksum digit is not verified.
func IDCard(s string) bool {
	return IDCardPattern.MatchString(s)
}

// URL reports whether s is an absolute URL with a scheme.
func URL(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return tags().Var(s, "url") == nil
}

// Strength grades a password.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// StrengthReport is returned by PasswordStrength.
type StrengthReport struct {
	Valid       bool
	Strength    Strength
	Suggestions []string
}

// PasswordStrength scores password on length and character classes. The
// password is valid when it reaches minLength and satisfies at least three of
// the five criteria. A non-positive minLength uses DefaultPasswordMinLength.
// Suggestions are in English; see PasswordStrengthWith.
func PasswordStrength(password string, minLength int) StrengthReport {
	return PasswordStrengthWith(password, minLength, DefaultCheckMessages())
}

// PasswordStrengthWith is PasswordStrength with suggestions taken from msgs.
func PasswordStrengthWith(password string, minLength int, msgs CheckMessages) StrengthReport {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	msgs = msgs.merged()

	var suggestions []string
	score := 0
	length := utf8.RuneCountInString(password)

	if length < minLength {
		suggestions = append(suggestions, thresholdMessage(msgs.PasswordLength, minLength))
	} else {
		score++
	}
	if !lowerPattern.MatchString(password) {
		suggestions = append(suggestions, msgs.PasswordLower)
	} else {
		score++
	}
	if !upperPattern.MatchString(password) {
		suggestions = append(suggestions, msgs.PasswordUpper)
	} else {
		score++
	}
	if !digitPattern.MatchString(password) {
		suggestions = append(suggestions, msgs.PasswordDigit)
	} else {
		score++
	}
	if !specialPattern.MatchString(password) {
		suggestions = append(suggestions, msgs.PasswordSpecial)
	} else {
		score++
	}

	strength := StrengthStrong
	switch {
	case score < 3:
		strength = StrengthWeak
	case score < 5:
		strength = StrengthMedium
	}

	return StrengthReport{
		Valid:       score >= 3 && length >= minLength,
		Strength:    strength,
		Suggestions: suggestions,
	}
}

// EmailRule returns a required e-mail rule.
func EmailRule() *FieldRule {
	return &FieldRule{Required: true, Pattern: EmailPattern}
}

// PhoneRule returns a required mainland mobile number rule.
func PhoneRule() *FieldRule {
	return &FieldRule{Required: true, Pattern: ChinesePhonePattern}
}

// PasswordRule returns a required password rule backed by PasswordStrength.
func PasswordRule() *FieldRule {
	return PasswordRuleFor("")
}

// PasswordRuleFor is PasswordRule with suggestions in the catalogue for locale.
func PasswordRuleFor(locale string) *FieldRule {
	return &FieldRule{
		Required:  true,
		MinLength: DefaultPasswordMinLength,
		Custom:    passwordStrengthCheck(CheckMessagesForLocale(locale)),
	}
}

// UsernameRule returns a required 3-20 character username rule.
func UsernameRule() *FieldRule {
	return &FieldRule{
		Required:  true,
		MinLength: 3,
		MaxLength: 20,
		Pattern:   UsernamePattern,
	}
}

func passwordStrengthCheck(msgs CheckMessages) CustomFunc {
	msgs = msgs.merged()
	return func(value any) CustomResult {
		report := PasswordStrengthWith(Stringify(value), DefaultPasswordMinLength, msgs)
		if report.Valid {
			return Pass()
		}
		return Fail(strings.Join(report.Suggestions, msgs.Separator))
	}
}

func stringCheck(check func(string) bool, message string) CustomFunc {
	return func(value any) CustomResult {
		if check(Stringify(value)) {
			return Pass()
		}
		return Fail(message)
	}
}

// Registry holds named custom checks so declarative rule sources can refer to
// them by name.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]CustomFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]CustomFunc)}
}

// DefaultRegistry returns a new registry seeded with the built-in checks
// (email, phone, idcard, url and password_strength) reporting in English.
func DefaultRegistry() *Registry {
	return RegistryWithMessages(DefaultCheckMessages())
}

// RegistryForLocale is DefaultRegistry with failures reported in the
// catalogue for locale.
func RegistryForLocale(locale string) *Registry {
	return RegistryWithMessages(CheckMessagesForLocale(locale))
}

// RegistryWithMessages returns a registry of the built-in checks reporting
// failures from msgs.
func RegistryWithMessages(msgs CheckMessages) *Registry {
	msgs = msgs.merged()
	r := NewRegistry()
	r.Register("email", stringCheck(Email, msgs.Email))
	r.Register("phone", stringCheck(ChinesePhone, msgs.Phone))
	r.Register("idcard", stringCheck(IDCard, msgs.IDCard))
	r.Register("url", stringCheck(URL, msgs.URL))
	r.Register("password_strength", passwordStrengthCheck(msgs))
	return r
}

// Register stores fn under name, replacing any previous entry. Blank names and
// nil functions are ignored.
func (r *Registry) Register(name string, fn CustomFunc) {
	name = strings.TrimSpace(name)
	if r == nil || name == "" || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.funcs == nil {
		r.funcs = make(map[string]CustomFunc)
	}
	r.funcs[name] = fn
}

// Lookup returns the check registered under name.
func (r *Registry) Lookup(name string) (CustomFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[strings.TrimSpace(name)]
	return fn, ok
}

// Names lists the registered check names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Chain combines checks, stopping at the first failure.
func Chain(fns ...CustomFunc) CustomFunc {
	return func(value any) CustomResult {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if res := fn(value); res.Failed() {
				return res
			}
		}
		return Pass()
	}
}
