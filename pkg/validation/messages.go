package validation

import (
	"fmt"
	"strings"
)

// Translation keys looked up through a Translator. MinLength and MaxLength
// translations must contain a single %d verb for the threshold.
const (
	KeyRequired  = "validation.required"
	KeyMinLength = "validation.minLength"
	KeyMaxLength = "validation.maxLength"
	KeyPattern   = "validation.pattern"
	KeyCustom    = "validation.custom"
)

// Messages is the catalogue used when a check fails.
type Messages struct {
	Required  string
	MinLength string
	MaxLength string
	Pattern   string
	Custom    string
}

// DefaultMessages returns the English catalogue.
func DefaultMessages() Messages {
	return Messages{
		Required:  "This field is required",
		MinLength: "Must be at least %d characters",
		MaxLength: "Must be at most %d characters",
		Pattern:   "Invalid format",
		Custom:    "Validation failed",
	}
}

// ChineseMessages returns the zh-CN catalogue.
func ChineseMessages() Messages {
	return Messages{
		Required:  "此字段为必填项",
		MinLength: "最少需要%d个字符",
		MaxLength: "最多允许%d个字符",
		Pattern:   "格式不正确",
		Custom:    "验证失败",
	}
}

// MessagesForLocale picks a built-in catalogue. Unknown locales get English.
func MessagesForLocale(locale string) Messages {
	if isChinese(locale) {
		return ChineseMessages()
	}
	return DefaultMessages()
}

// CheckMessages is the catalogue used by the built-in named checks and the
// password strength suggestions. PasswordLength must contain a single %d verb
// for the minimum length.
type CheckMessages struct {
	Email           string
	Phone           string
	IDCard          string
	URL             string
	PasswordLength  string
	PasswordLower   string
	PasswordUpper   string
	PasswordDigit   string
	PasswordSpecial string
	// Separator joins password suggestions into a single failure message.
	Separator string
}

// DefaultCheckMessages returns the English check catalogue.
func DefaultCheckMessages() CheckMessages {
	return CheckMessages{
		Email:           "Invalid email address",
		Phone:           "Invalid phone number",
		IDCard:          "Invalid ID card number",
		URL:             "Invalid URL",
		PasswordLength:  "use at least %d characters",
		PasswordLower:   "include a lowercase letter",
		PasswordUpper:   "include an uppercase letter",
		PasswordDigit:   "include a digit",
		PasswordSpecial: "include a special character",
		Separator:       ", ",
	}
}

// ChineseCheckMessages returns the zh-CN check catalogue.
func ChineseCheckMessages() CheckMessages {
	return CheckMessages{
		Email:           "邮箱格式不正确",
		Phone:           "手机号格式不正确",
		IDCard:          "身份证号格式不正确",
		URL:             "网址格式不正确",
		PasswordLength:  "密码长度至少%d位",
		PasswordLower:   "包含小写字母",
		PasswordUpper:   "包含大写字母",
		PasswordDigit:   "包含数字",
		PasswordSpecial: "包含特殊字符",
		Separator:       "，",
	}
}

// CheckMessagesForLocale picks a built-in check catalogue. Unknown locales
// get English.
func CheckMessagesForLocale(locale string) CheckMessages {
	if isChinese(locale) {
		return ChineseCheckMessages()
	}
	return DefaultCheckMessages()
}

func isChinese(locale string) bool {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "zh", "zh-cn", "zh_cn", "zh-hans":
		return true
	default:
		return false
	}
}

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// TranslatorFunc adapts a plain function to Translator.
type TranslatorFunc func(locale, key string) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string) (string, error) {
	return fn(locale, key)
}

// merged fills blank entries with defaults so a partial catalogue is usable.
func (m Messages) merged() Messages {
	def := DefaultMessages()
	if strings.TrimSpace(m.Required) == "" {
		m.Required = def.Required
	}
	if strings.TrimSpace(m.MinLength) == "" {
		m.MinLength = def.MinLength
	}
	if strings.TrimSpace(m.MaxLength) == "" {
		m.MaxLength = def.MaxLength
	}
	if strings.TrimSpace(m.Pattern) == "" {
		m.Pattern = def.Pattern
	}
	if strings.TrimSpace(m.Custom) == "" {
		m.Custom = def.Custom
	}
	return m
}

// merged fills blank entries with the English defaults. The separator is
// kept as given when it is only whitespace.
func (m CheckMessages) merged() CheckMessages {
	def := DefaultCheckMessages()
	fill := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	fill(&m.Email, def.Email)
	fill(&m.Phone, def.Phone)
	fill(&m.IDCard, def.IDCard)
	fill(&m.URL, def.URL)
	fill(&m.PasswordLength, def.PasswordLength)
	fill(&m.PasswordLower, def.PasswordLower)
	fill(&m.PasswordUpper, def.PasswordUpper)
	fill(&m.PasswordDigit, def.PasswordDigit)
	fill(&m.PasswordSpecial, def.PasswordSpecial)
	if m.Separator == "" {
		m.Separator = def.Separator
	}
	return m
}

func (c *config) message(key, fallback string) string {
	if c.translator == nil {
		return fallback
	}
	out, err := c.translator.Translate(c.locale, key)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}

func (c *config) requiredMessage() string {
	return c.message(KeyRequired, c.messages.Required)
}

func (c *config) minLengthMessage(n int) string {
	return thresholdMessage(c.message(KeyMinLength, c.messages.MinLength), n)
}

func (c *config) maxLengthMessage(n int) string {
	return thresholdMessage(c.message(KeyMaxLength, c.messages.MaxLength), n)
}

func (c *config) patternMessage() string {
	return c.message(KeyPattern, c.messages.Pattern)
}

func (c *config) customMessage() string {
	return c.message(KeyCustom, c.messages.Custom)
}

func thresholdMessage(format string, n int) string {
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, n)
	}
	return format
}
