package amount

import (
	"strconv"
	"strings"
)

// FormatOptions controls amount rendering.
type FormatOptions struct {
	// WithCurrency prefixes the number with the currency code ("CAD 12.00").
	WithCurrency bool
	// BlankZero renders a zero amount as the empty string.
	BlankZero bool
	// DecimalSep is the decimal separator. Defaults to '.'.
	DecimalSep rune
	// GroupingSep groups integer digits in threes when nonzero.
	GroupingSep rune
}

// Format renders a as text with as many fractional digits as the currency's
// exponent. The untyped zero renders with two fractional digits. The sign
// always comes before any grouping separator ("-123,456.00", never
// "-,123...").
func Format(a Amount, opts FormatOptions) string {
	if opts.BlankZero && a.Value == 0 {
		return ""
	}
	decimalSep := opts.DecimalSep
	if decimalSep == 0 {
		decimalSep = '.'
	}
	exponent := 2
	if a.Currency != nil {
		exponent = a.Currency.Exponent
	}

	value := a.Value
	neg := value < 0
	if neg {
		value = -value
	}
	digits := strconv.FormatInt(value, 10)
	if len(digits) < exponent+1 {
		digits = strings.Repeat("0", exponent+1-len(digits)) + digits
	}
	intPart := digits[:len(digits)-exponent]
	fracPart := digits[len(digits)-exponent:]

	var b strings.Builder
	if opts.WithCurrency && a.Currency != nil {
		b.WriteString(a.Currency.Code)
		b.WriteByte(' ')
	}
	if neg {
		b.WriteByte('-')
	}
	if opts.GroupingSep != 0 {
		b.WriteString(groupDigits(intPart, opts.GroupingSep))
	} else {
		b.WriteString(intPart)
	}
	if exponent > 0 {
		b.WriteRune(decimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}

// groupDigits inserts sep between groups of three digits, counted from the
// right.
func groupDigits(digits string, sep rune) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
