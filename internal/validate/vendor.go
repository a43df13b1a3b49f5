// Package validate implements vendor validation against reference data.
package validate

import (
	"fmt"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/agnivade/levenshtein"
)

// DefaultFuzzyThreshold is the minimum normalized similarity for a fuzzy
// vendor suggestion.
const DefaultFuzzyThreshold = 0.72

// VendorValidator checks extracted vendor names against the vendor list.
// It never auto-corrects; a close match only produces a suggestion.
type VendorValidator struct {
	// FuzzyThreshold is the minimum similarity (0..1) before a near-miss
	// is suggested to the reviewer.
	FuzzyThreshold float64
}

// NewVendorValidator creates a validator with the default fuzzy threshold.
func NewVendorValidator() *VendorValidator {
	return &VendorValidator{FuzzyThreshold: DefaultFuzzyThreshold}
}

// Validate checks a vendor name against the reference vendors. The lookup
// is case-insensitive and whitespace-normalized. It has no side effects.
func (v *VendorValidator) Validate(name string, vendors []model.Vendor) model.ValidationResult {
	normalized := Normalize(name)
	if normalized == "" {
		return model.ValidationResult{
			Valid:    false,
			Message:  "no vendor name extracted",
			Severity: model.SeverityCritical,
		}
	}

	for i := range vendors {
		if Normalize(vendors[i].Name) != normalized {
			continue
		}
		if !vendors[i].IsActive() {
			return model.ValidationResult{
				Valid:    false,
				Message:  fmt.Sprintf("vendor %q is inactive", vendors[i].Name),
				Severity: model.SeverityWarning,
			}
		}
		return model.ValidationResult{
			Valid:    true,
			Message:  fmt.Sprintf("vendor %q found", vendors[i].Name),
			Severity: model.SeverityNone,
		}
	}

	if match, score := v.closestMatch(normalized, vendors); match != nil {
		return model.ValidationResult{
			Valid: false,
			Message: fmt.Sprintf("vendor %q not found; did you mean %q? (similarity %.2f)",
				strings.TrimSpace(name), match.Name, score),
			Severity: model.SeverityWarning,
		}
	}

	return model.ValidationResult{
		Valid:    false,
		Message:  fmt.Sprintf("vendor %q not found", strings.TrimSpace(name)),
		Severity: model.SeverityCritical,
	}
}

// closestMatch returns the best fuzzy candidate above the threshold, or nil.
// Containment (one name inside the other) counts as a strong candidate, the
// rest is normalized Levenshtein similarity.
func (v *VendorValidator) closestMatch(normalized string, vendors []model.Vendor) (*model.Vendor, float64) {
	threshold := v.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	var best *model.Vendor
	bestScore := 0.0

	for i := range vendors {
		candidate := Normalize(vendors[i].Name)
		if candidate == "" {
			continue
		}

		score := similarity(normalized, candidate)
		if strings.Contains(normalized, candidate) || strings.Contains(candidate, normalized) {
			if score < 0.9 {
				score = 0.9
			}
		}

		if score > bestScore {
			bestScore = score
			best = &vendors[i]
		}
	}

	if best == nil || bestScore < threshold {
		return nil, 0
	}
	return best, bestScore
}

// similarity is 1 minus the Levenshtein distance normalized by the longer
// string length.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}

// Normalize lowercases a name and collapses internal whitespace.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
