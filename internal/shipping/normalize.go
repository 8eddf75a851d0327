package shipping

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// minIdentityLen is the length a person or company name must exceed.
const minIdentityLen = 2

// NormalizeWeight rounds w to one decimal place, half away from zero.
func NormalizeWeight(w float64) float64 {
	v, _ := decimal.NewFromFloat(w).Round(1).Float64()
	return v
}

// NormalizeDeclaredValue rounds v to two decimal places, half away from zero.
func NormalizeDeclaredValue(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// FormatWeight renders a normalized weight with exactly one decimal.
func FormatWeight(w float64) string {
	return decimal.NewFromFloat(w).StringFixed(1)
}

// FormatMoney renders a normalized amount with exactly two decimals.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Identity is the resolved person/company pair for one contact block.
type Identity struct {
	PersonName  string
	CompanyName string
	// CompanyPrimary is set when the company name carries the identity.
	CompanyPrimary bool
}

// ResolveIdentity applies the identity rule: a person name longer than two
// characters is primary, otherwise a company name longer than two characters
// is, otherwise the contact is rejected. Blank values are dropped.
func ResolveIdentity(operation string, nameField, companyField Field, name, company string) (Identity, error) {
	name = strings.TrimSpace(name)
	company = strings.TrimSpace(company)
	switch {
	case utf8.RuneCountInString(name) > minIdentityLen:
		return Identity{PersonName: name, CompanyName: company}, nil
	case utf8.RuneCountInString(company) > minIdentityLen:
		return Identity{PersonName: name, CompanyName: company, CompanyPrimary: true}, nil
	default:
		return Identity{}, &ValidationError{
			Operation: operation,
			Field:     nameField,
			Reason: fmt.Sprintf(
				"either the %s or the %s value must be bigger than %d characters",
				nameField, companyField, minIdentityLen,
			),
		}
	}
}
