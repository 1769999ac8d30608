// Package format holds display helpers for numbers, money, sizes, phone
// numbers, and free text.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultSeparator = ","
	defaultCurrency  = "¥"
	defaultEllipsis  = "..."
)

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB"}

// Number formats num with a thousands separator on the integer part. An
// empty separator uses ",". NaN formats as "0".
func Number(num float64, separator string) string {
	if math.IsNaN(num) {
		return "0"
	}
	if separator == "" {
		separator = defaultSeparator
	}
	return groupDecimal(strconv.FormatFloat(num, 'f', -1, 64), separator)
}

// Currency formats amount with symbol, decimals fraction digits, and a ","
// thousands separator. An empty symbol uses "¥"; negative decimals use 2.
func Currency(amount float64, symbol string, decimals int) string {
	if symbol == "" {
		symbol = defaultCurrency
	}
	if decimals < 0 {
		decimals = 2
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbol + strconv.FormatFloat(0, 'f', decimals, 64)
	}
	return symbol + groupDecimal(strconv.FormatFloat(amount, 'f', decimals, 64), defaultSeparator)
}

// FileSize renders bytes using binary units, trimming trailing zeros from the
// decimals fraction digits: 1536 -> "1.5 KB".
func FileSize(bytes int64, decimals int) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}
	if bytes < 1024 {
		return fmt.Sprintf("%d Bytes", bytes)
	}

	scaled := float64(bytes)
	i := 0
	for scaled >= 1024 && i < len(fileSizeUnits)-1 {
		scaled /= 1024
		i++
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(scaled, 'f', decimals, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + fileSizeUnits[i]
}

// Percentage renders a 0..1 ratio as a percentage with decimals digits.
func Percentage(value float64, decimals int) string {
	if math.IsNaN(value) {
		return "0%"
	}
	if decimals < 0 {
		decimals = 2
	}
	return strconv.FormatFloat(value*100, 'f', decimals, 64) + "%"
}

// Phone groups an 11 digit mobile number as 3-4-4 using separator (" " when
// empty). Inputs with another digit count are returned unchanged.
func Phone(phone, separator string) string {
	if separator == "" {
		separator = " "
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) != 11 {
		return phone
	}
	return digits[:3] + separator + digits[3:7] + separator + digits[7:]
}

// Truncate shortens text to at most maxLength runes, ending with suffix
// ("..." when empty).
func Truncate(text string, maxLength int, suffix string) string {
	if suffix == "" {
		suffix = defaultEllipsis
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	keep := maxLength - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(text)
	return string(runes[:keep]) + suffix
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// CamelCase joins separator-delimited words ("-" when empty) into camelCase.
func CamelCase(s, separator string) string {
	if separator == "" {
		separator = "-"
	}
	words := strings.Split(s, separator)
	var b strings.Builder
	b.Grow(len(s))
	for i, word := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		b.WriteString(Capitalize(word))
	}
	return b.String()
}

func groupDecimal(number, separator string) string {
	sign := ""
	if strings.HasPrefix(number, "-") {
		sign, number = "-", number[1:]
	}
	integer, fraction, hasFraction := strings.Cut(number, ".")

	var b strings.Builder
	b.Grow(len(number) + len(integer)/3*len(separator) + 1)
	b.WriteString(sign)
	for i, r := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteString(separator)
		}
		b.WriteRune(r)
	}
	if hasFraction {
		b.WriteByte('.')
		b.WriteString(fraction)
	}
	return b.String()
}
