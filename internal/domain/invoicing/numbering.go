package invoicing

import (
	"fmt"
	"strings"
	"time"
)

// Family identifies an independently sequenced document series
type Family string

const (
	FamilyInvoice      Family = "FAC"
	FamilyQuote        Family = "DEVIS"
	FamilyDeliveryNote Family = "BL"
)

// legacyQuotePrefix is the short quote prefix still found on older documents
const legacyQuotePrefix = "DEV"

// numberWidth is the zero-padded width of the sequential segment
const numberWidth = 4

// IsValid checks if the family is a known document series
func (f Family) IsValid() bool {
	switch f {
	case FamilyInvoice, FamilyQuote, FamilyDeliveryNote:
		return true
	}
	return false
}

// String returns the prefix of the family
func (f Family) String() string {
	return string(f)
}

// ParseFamily maps a prefix to its family. The legacy "DEV" prefix maps to quotes.
func ParseFamily(prefix string) (Family, bool) {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	if p == legacyQuotePrefix {
		return FamilyQuote, true
	}
	f := Family(p)
	return f, f.IsValid()
}

// YearSuffix returns the two-digit year used in document numbers
func YearSuffix(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// FormatNumber renders a document number such as FAC-25-0004
func FormatNumber(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%0*d", prefix, YearSuffix(t), numberWidth, seq)
}

// NextNumber computes the next identifier of a series for the year of now.
//
// Only entries starting with "{prefix}-{yy}" are considered. The segment after
// the second hyphen is read as a number; anything unreadable counts as 0. The
// result is max+1, so an empty list (or a new year) yields "...-0001".
//
// NextNumber is pure. Two callers working from the same snapshot get the same
// answer, so it must be paired with a serializing allocator when numbers are
// persisted.
func NextNumber(prefix string, existing []string, now time.Time) string {
	return FormatNumber(prefix, now, LastSequence(prefix, existing, now)+1)
}

// LastSequence returns the highest sequence issued under prefix for the year
// of now, or 0 when there is none.
func LastSequence(prefix string, existing []string, now time.Time) int {
	head := prefix + "-" + YearSuffix(now)

	highest := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, head) {
			continue
		}
		if seq := SequenceOf(number); seq > highest {
			highest = seq
		}
	}
	return highest
}

// SeedPrefixes lists the prefixes whose numbers count toward the family's
// sequence. Quotes also honour the legacy "DEV" prefix.
func (f Family) SeedPrefixes() []string {
	if f == FamilyQuote {
		return []string{string(f), legacyQuotePrefix}
	}
	return []string{string(f)}
}

// SequenceOf extracts the sequential segment of a document number.
// Leading digits of the third hyphen-separated segment are parsed;
// a missing or non-numeric segment yields 0.
func SequenceOf(number string) int {
	parts := strings.SplitN(number, "-", 4)
	if len(parts) < 3 {
		return 0
	}
	seq := 0
	for _, r := range parts[2] {
		if r < '0' || r > '9' {
			break
		}
		seq = seq*10 + int(r-'0')
		if seq > 1<<30 {
			return 0
		}
	}
	return seq
}
