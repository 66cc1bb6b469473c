package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sebkoller/bookkeep/currency"
)

// ParseOptions controls how Parse interprets its input.
type ParseOptions struct {
	// WithExpression allows arithmetic expressions (+ - * / and parentheses)
	// in the input.
	WithExpression bool
	// AutoDecimalPlace interprets a literal without a decimal separator as
	// already scaled by the currency's exponent ("1234" -> 12.34 USD).
	// Ignored when the input is an expression.
	AutoDecimalPlace bool
	// StrictCurrency rejects unrecognized currency codes even when a
	// default currency is supplied.
	StrictCurrency bool
}

// ParseError reports a malformed amount or expression.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

// UnsupportedCurrencyError reports a currency code that isn't registered.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %q", e.Code)
}

// Parse parses a textual amount.
//
// The grammar accepts an optional 3-letter currency code as prefix or suffix
// (case-insensitive), a numeric literal with an optional leading minus or
// surrounding parentheses (both mean negative), an optional grouping
// separator and a decimal separator. The decimal separator is the last
// non-digit character immediately preceding the final digit run and must be
// "." or ","; a final group of exactly 3 digits is read as a grouping
// separator instead, unless the currency itself has a 3-digit exponent.
// Other punctuation around the number is ignored.
//
// An empty input parses to the untyped zero. A nonzero result always carries
// a currency: either the explicit code or the default; inputs that resolve
// to neither fail.
func Parse(reg *currency.Registry, text, defaultCurrency string, opts ParseOptions) (Amount, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Amount{}, nil
	}

	cur, rest, err := extractCurrency(reg, s, defaultCurrency, opts.StrictCurrency)
	if err != nil {
		return Amount{}, err
	}
	exponent := 2
	if cur != nil {
		exponent = cur.Exponent
	}

	var value int64
	if opts.WithExpression && looksLikeExpression(rest) {
		result, err := evalExpression(rest, exponent)
		if err != nil {
			return Amount{}, &ParseError{Input: text, Reason: err.Error()}
		}
		value = result.Shift(int32(exponent)).Round(0).IntPart()
	} else {
		value, err = parseLiteral(rest, exponent, opts.AutoDecimalPlace)
		if err != nil {
			return Amount{}, &ParseError{Input: text, Reason: err.Error()}
		}
	}

	if value == 0 {
		// Zero is zero in any currency.
		return Amount{}, nil
	}
	if cur == nil {
		return Amount{}, &ParseError{Input: text, Reason: "no currency could be resolved"}
	}
	return Amount{Value: value, Currency: cur}, nil
}

// extractCurrency strips a currency code from either end of s and resolves
// the amount's currency. An alphabetic run longer than 3 letters at an end
// is garbage that invalidates the whole amount.
func extractCurrency(reg *currency.Registry, s, defaultCurrency string, strict bool) (*currency.Currency, string, error) {
	var cur *currency.Currency
	sawUnknown := ""

	strip := func(run string) bool {
		if cur != nil {
			return true // a code was already found; drop the run as garbage
		}
		if c, ok := reg.Get(run); ok {
			cur = c
			return true
		}
		if len(run) == 3 {
			sawUnknown = run
			return true
		}
		return true
	}

	// Trailing run.
	end := len(s)
	for end > 0 && isASCIILetter(s[end-1]) {
		end--
	}
	if run := s[end:]; run != "" {
		if len(run) > 3 {
			return nil, "", &ParseError{Input: s, Reason: fmt.Sprintf("garbage near %q", run)}
		}
		strip(run)
		s = strings.TrimSpace(s[:end])
	}

	// Leading run.
	start := 0
	for start < len(s) && isASCIILetter(s[start]) {
		start++
	}
	if run := s[:start]; run != "" {
		if len(run) > 3 {
			return nil, "", &ParseError{Input: s, Reason: fmt.Sprintf("garbage near %q", run)}
		}
		strip(run)
		s = strings.TrimSpace(s[start:])
	}

	if cur == nil {
		if strict && sawUnknown != "" {
			return nil, "", &UnsupportedCurrencyError{Code: strings.ToUpper(sawUnknown)}
		}
		if defaultCurrency != "" {
			if c, ok := reg.Get(defaultCurrency); ok {
				cur = c
			}
		}
		if cur == nil && sawUnknown != "" {
			return nil, "", &UnsupportedCurrencyError{Code: strings.ToUpper(sawUnknown)}
		}
	} else if strict && sawUnknown != "" {
		return nil, "", &UnsupportedCurrencyError{Code: strings.ToUpper(sawUnknown)}
	}
	return cur, s, nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSeparator(b byte) bool {
	return b == '.' || b == ',' || b == '\'' || b == ' '
}

// looksLikeExpression reports whether s needs the expression evaluator. A
// lone leading minus is a sign, not an operator.
func looksLikeExpression(s string) bool {
	if strings.ContainsAny(s, "+*/()") {
		return true
	}
	return strings.LastIndexByte(s, '-') > 0
}

// parseLiteral parses a plain numeric literal into a scaled integer value.
func parseLiteral(s string, exponent int, autoDecimalPlace bool) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	// Drop garbage characters, keeping digits and separator candidates.
	// Surrounding parentheses also mean negative.
	var b strings.Builder
	sawParen := false
	for i := 0; i < len(s); i++ {
		switch {
		case isDigit(s[i]) || isSeparator(s[i]):
			b.WriteByte(s[i])
		case s[i] == '(' || s[i] == ')':
			sawParen = true
		}
	}
	if sawParen {
		neg = true
	}
	// Only trailing separators are noise. A leading "." or "," is a decimal
	// separator for a literal without an integer part (".42").
	cleaned := strings.TrimRight(b.String(), "., '")
	cleaned = strings.TrimLeft(cleaned, " '")
	if cleaned == "" {
		return 0, fmt.Errorf("no number found")
	}

	d, hasDecimalSep, err := literalDecimal(cleaned, exponent)
	if err != nil {
		return 0, err
	}

	var value int64
	if autoDecimalPlace && !hasDecimalSep {
		// The literal is already scaled; just reinterpret the digits.
		value = d.IntPart()
	} else {
		value = d.Shift(int32(exponent)).Round(0).IntPart()
	}
	if neg {
		value = -value
	}
	return value, nil
}

// literalDecimal converts a cleaned digit-and-separator string into a
// decimal, resolving the grouping-vs-decimal separator ambiguity.
//
// The last non-digit character before the final digit run is the decimal
// separator candidate. It really is a decimal separator when it is "." or
// "," and the final run doesn't look like a 3-digit group (exactly 3 digits
// while the currency exponent is not 3). Quotes and spaces always group.
func literalDecimal(s string, exponent int) (decimal.Decimal, bool, error) {
	runStart := len(s)
	for runStart > 0 && isDigit(s[runStart-1]) {
		runStart--
	}
	if runStart == len(s) {
		return decimal.Zero, false, fmt.Errorf("no number found")
	}

	if runStart == 0 {
		// Pure digits.
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid number %q", s)
		}
		return d, false, nil
	}

	sep := s[runStart-1]
	finalRun := s[runStart:]
	isDecimalSep := (sep == '.' || sep == ',') && !(len(finalRun) == 3 && exponent != 3)

	if isDecimalSep {
		intPart := stripNonDigits(s[:runStart-1])
		d, err := decimal.NewFromString(intPart + "." + finalRun)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid number %q", s)
		}
		return d, true, nil
	}

	digits := stripNonDigits(s)
	if digits == "" {
		return decimal.Zero, false, fmt.Errorf("no number found")
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid number %q", s)
	}
	return d, false, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
