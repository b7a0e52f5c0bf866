// Package format renders prices, dates and short texts the way the storefront
// shows them to Russian-speaking customers.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DisplayDateLayout is the date format the API stores delivery dates in.
	DisplayDateLayout = "02.01.2006"
	// InputDateLayout is the format of date inputs.
	InputDateLayout = "2006-01-02"

	timestampLayout = "02.01.2006, 15:04"

	NotSpecified = "Не указано"
)

var groupSeparator, decimalSeparator = localeSeparators(message.NewPrinter(language.Russian))

// localeSeparators reads the group and decimal marks the printer uses, so the
// digits themselves never pass through a float.
func localeSeparators(p *message.Printer) (group, dec string) {
	grouped := p.Sprint(number.Decimal(1234567))
	group = grouped[1:strings.Index(grouped, "234")]

	fraction := p.Sprint(number.Decimal(0.5, number.MinFractionDigits(1)))
	dec = fraction[1 : len(fraction)-1]
	return group, dec
}

// Price groups thousands the ru-RU way and keeps at most two fraction digits.
func Price(p decimal.Decimal) string {
	digits := p.Round(2).String()

	var b strings.Builder
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		b.WriteByte('-')
		digits = rest
	}

	whole, fraction, _ := strings.Cut(digits, ".")
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteByte(whole[i])
	}
	if fraction != "" {
		b.WriteString(decimalSeparator)
		b.WriteString(fraction)
	}
	return b.String()
}

// Rubles is Price followed by the currency suffix used across the shop.
func Rubles(p decimal.Decimal) string {
	return Price(p) + " руб."
}

// InputDate converts "DD.MM.YYYY" into "YYYY-MM-DD".
func InputDate(display string) (string, error) {
	t, err := time.Parse(DisplayDateLayout, strings.TrimSpace(display))
	if err != nil {
		return "", fmt.Errorf("parse display date %q: %w", display, err)
	}
	return t.Format(InputDateLayout), nil
}

// DisplayDate converts "YYYY-MM-DD" into "DD.MM.YYYY".
func DisplayDate(input string) (string, error) {
	t, err := time.Parse(InputDateLayout, strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("parse input date %q: %w", input, err)
	}
	return t.Format(DisplayDateLayout), nil
}

// Delivery renders a delivery slot. Unparseable dates are shown as is.
func Delivery(date, interval string) string {
	if date == "" || interval == "" {
		return NotSpecified
	}
	if t, err := time.Parse(DisplayDateLayout, date); err == nil {
		date = t.Format(DisplayDateLayout)
	}
	return date + " " + interval
}

func Timestamp(t time.Time) string {
	if t.IsZero() {
		return NotSpecified
	}
	return t.Format(timestampLayout)
}

// ReplaceLastWord swaps the last whitespace-delimited token of text for word.
func ReplaceLastWord(text, word string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return word
	}
	words[len(words)-1] = word
	return strings.Join(words, " ")
}

// Truncate cuts s to max runes and marks the cut with an ellipsis.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
