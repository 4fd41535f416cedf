package invoicing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var in2025 = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"empty list starts the year at 0001", "FAC", nil, "FAC-25-0001"},
		{"max plus one ignoring prior year", "FAC", []string{"FAC-25-0001", "FAC-25-0003", "FAC-24-0099"}, "FAC-25-0004"},
		{"only prior year entries", "FAC", []string{"FAC-24-0099", "FAC-23-0500"}, "FAC-25-0001"},
		{"other prefixes do not count", "DEVIS", []string{"FAC-25-0042", "BL-25-0007"}, "DEVIS-25-0001"},
		{"short prefix is not confused with long one", "DEV", []string{"DEVIS-25-0010"}, "DEV-25-0001"},
		{"malformed suffix counts as zero", "BL", []string{"BL-25-abcd", "BL-25-", "BL-25"}, "BL-25-0001"},
		{"leading digits are read", "BL", []string{"BL-25-0012-bis"}, "BL-25-0013"},
		{"empty strings are tolerated", "FAC", []string{"", "FAC-25-0002", ""}, "FAC-25-0003"},
		{"unordered input", "FAC", []string{"FAC-25-0009", "FAC-25-0002", "FAC-25-0010"}, "FAC-25-0011"},
		{"grows past four digits", "FAC", []string{"FAC-25-9999"}, "FAC-25-10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextNumber(tt.prefix, tt.existing, in2025))
		})
	}
}

func TestNextNumber_IsDeterministic(t *testing.T) {
	existing := []string{"FAC-25-0001", "FAC-25-0003"}
	assert.Equal(t, NextNumber("FAC", existing, in2025), NextNumber("FAC", existing, in2025))
}

func TestNextNumber_YearRollover(t *testing.T) {
	existing := []string{"FAC-25-0120"}
	newYear := time.Date(2026, time.January, 1, 0, 0, 1, 0, time.UTC)

	assert.Equal(t, "FAC-26-0001", NextNumber("FAC", existing, newYear))
}

// Two callers reading the same snapshot before either writes compute the same
// number. The generator alone is not a source of uniqueness.
func TestNextNumber_ConcurrentReadersCollide(t *testing.T) {
	snapshot := []string{"FAC-25-0001", "FAC-25-0003", "FAC-25-0004"}

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = NextNumber("FAC", snapshot, in2025)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, "FAC-25-0005", results[0])
	assert.Equal(t, results[0], results[1])
}

func TestSequenceOf(t *testing.T) {
	assert.Equal(t, 4, SequenceOf("FAC-25-0004"))
	assert.Equal(t, 0, SequenceOf("FAC-25"))
	assert.Equal(t, 0, SequenceOf("garbage"))
	assert.Equal(t, 0, SequenceOf("FAC-25-x1"))
}

func TestParseFamily(t *testing.T) {
	f, ok := ParseFamily("dev")
	assert.True(t, ok)
	assert.Equal(t, FamilyQuote, f)

	f, ok = ParseFamily("BL")
	assert.True(t, ok)
	assert.Equal(t, FamilyDeliveryNote, f)

	_, ok = ParseFamily("XYZ")
	assert.False(t, ok)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "BL-25-0042", FormatNumber("BL", in2025, 42))
	assert.Equal(t, "FAC-05-0001", FormatNumber("FAC", time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC), 1))
}

func TestLastSequence(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := []string{"DEV-25-0007", "DEVIS-25-0003", "DEVIS-24-0010"}

	assert.Equal(t, 3, LastSequence("DEVIS", existing, now))
	assert.Equal(t, 7, LastSequence("DEV", existing, now))
	assert.Equal(t, 0, LastSequence("BL", existing, now))
	assert.Equal(t, []string{"DEVIS", "DEV"}, FamilyQuote.SeedPrefixes())
	assert.Equal(t, []string{"FAC"}, FamilyInvoice.SeedPrefixes())
}
