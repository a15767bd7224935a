package template

import (
	"regexp"
	"strings"
)

// BillOfLading detects Bill-of-Lading pages inside a shipment PDF and
// pulls out the gross weight that drives weight proration. BOL pages are
// never parsed for line items.
type BillOfLading struct {
	grossWeight *regexp.Regexp
	billNumber  *regexp.Regexp
	container   *regexp.Regexp
}

func NewBillOfLading() *BillOfLading {
	return &BillOfLading{
		// "GROSS WEIGHT 4.950,000 KGS" / "Gross weight: 4950 kg"
		grossWeight: regexp.MustCompile(`(?i)gross\s+weight\s*:?\s*([\d.,]+)\s*(?:kgs?|kilos)`),
		// "B/L No.: MEDUJ1234567" / "Bill of Lading number: ..."
		billNumber: regexp.MustCompile(`(?i)(?:b/l|bill\s+of\s+lading)\s*(?:no|number|n)?\.?\s*:?\s*([A-Z]{2,4}[A-Z0-9-]{5,})`),
		// ISO 6346 container: four letters then seven digits.
		container: regexp.MustCompile(`\b([A-Z]{4})\s?(\d{7})\b`),
	}
}

// CanProcess reports whether a page is a Bill of Lading.
func (t *BillOfLading) CanProcess(text string) bool {
	return strings.Contains(strings.ToLower(text), "bill of lading")
}

// Confidence scores BOL likelihood for completeness with the template
// registry; BOL pages are detected per page, not chosen per document.
func (t *BillOfLading) Confidence(text string) float64 {
	if !t.CanProcess(text) {
		return 0
	}
	score := 0.5
	if t.grossWeight.MatchString(text) {
		score += 0.3
	}
	if t.container.MatchString(text) {
		score += 0.2
	}
	return score
}

// ExtractGrossWeight returns the shipment gross weight in kg, or 0 when
// the page carries none. Both European ("4.950,000") and US ("4,950.00")
// groupings appear on real BOLs; the separator that occurs last is taken
// as the decimal point.
func (t *BillOfLading) ExtractGrossWeight(text string) float64 {
	m := t.grossWeight.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return parseAmbiguousNumber(m[1])
}

// ExtractBillNumber returns the B/L number, or "".
func (t *BillOfLading) ExtractBillNumber(text string) string {
	if m := t.billNumber.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ExtractContainerNumber returns the first container number, or "".
func (t *BillOfLading) ExtractContainerNumber(text string) string {
	if m := t.container.FindStringSubmatch(text); m != nil {
		return m[1] + m[2]
	}
	return ""
}

// parseAmbiguousNumber handles figures whose grouping convention is
// unknown: whichever of '.' and ',' appears last is the decimal
// separator, the other is grouping. A single separator followed by
// exactly three digits is treated as grouping ("4.950" is 4950 kg).
func parseAmbiguousNumber(s string) float64 {
	s = strings.TrimSpace(s)
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot < 0 && lastComma < 0:
		return parseCommaFloat(s)
	case lastComma > lastDot:
		if lastDot < 0 && len(s)-lastComma-1 == 3 && strings.Count(s, ",") == 1 {
			return parseCommaFloat(strings.ReplaceAll(s, ",", ""))
		}
		s = strings.ReplaceAll(s, ".", "")
		return parseCommaFloat(s)
	default:
		if lastComma < 0 && len(s)-lastDot-1 == 3 && strings.Count(s, ".") == 1 {
			return parseCommaFloat(strings.ReplaceAll(s, ".", ""))
		}
		s = strings.ReplaceAll(s, ",", "")
		return parseCommaFloat(s)
	}
}
