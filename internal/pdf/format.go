package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var moisFR = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// DateFR formats t as "15 juin 2026".
func DateFR(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), moisFR[t.Month()-1], t.Year())
}

// Montant formats d with two decimals, a space every three digits and a
// comma separator: 1234567.5 → "1 234 567,50 DA".
func Montant(d decimal.Decimal, devise string) string {
	s := Nombre(d, 2)
	if devise == "" {
		return s
	}
	return s + " " + devise
}

// Nombre formats d with the given number of decimals in French notation.
func Nombre(d decimal.Decimal, places int32) string {
	fixed := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() && !d.Round(places).IsZero() {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// Quantite drops trailing zeros: 2 → "2", 1.5 → "1,5".
func Quantite(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// Pourcentage formats a rate: 19 → "19 %", 9.5 → "9,5 %".
func Pourcentage(d decimal.Decimal) string {
	return Quantite(d) + " %"
}

func prefixed(prefix, v string) string {
	if v == "" {
		return ""
	}
	return prefix + v
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
