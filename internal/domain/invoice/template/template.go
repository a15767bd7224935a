// Package template turns already-extracted PDF page text into invoice
// line items. Each supplier layout is one Template; the Registry picks
// the highest-confidence template for a document. PDF-to-text extraction
// itself happens upstream and is not this package's concern.
package template

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tariffmill/tariffmill/internal/domain/invoice"
	"github.com/tariffmill/tariffmill/pkg/money"
)

// Template parses one supplier's invoice layout.
type Template interface {
	Name() string
	// Confidence scores how well the document text matches this layout,
	// in [0,1]. Zero means the template cannot process the text.
	Confidence(text string) float64
	// ExtractLineItems parses every line item it recognizes in the text.
	// Invoice and project numbers are tagged by the page processor, not
	// here, since one document can span several invoices.
	ExtractLineItems(text string) []invoice.LineItem
}

// Registry holds the known templates.
type Registry struct {
	templates []Template
}

// NewRegistry builds a registry with the default template set.
func NewRegistry() *Registry {
	return &Registry{templates: []Template{
		NewMmcite(),
		NewMmciteBrazil(),
	}}
}

// Register adds a template.
func (r *Registry) Register(t Template) {
	r.templates = append(r.templates, t)
}

// Best returns the highest-confidence template for the text, or nil when
// nothing matches.
func (r *Registry) Best(text string) Template {
	var best Template
	var bestScore float64
	for _, t := range r.templates {
		if score := t.Confidence(text); score > bestScore {
			best, bestScore = t, score
		}
	}
	return best
}

var (
	invoiceNumberRe = regexp.MustCompile(`(?:Proforma\s+)?[Ii]nvoice\s+(?:number|n)\.?\s*:?\s*(\d+(?:/\d+)?)`)
	projectNumberRe = regexp.MustCompile(`(?i)(?:\d+\.\s*)?Project\s*(?:n\.?)?\s*:?\s*(US\d+[A-Z]\d+)`)
)

// InvoiceNumber finds the invoice number on a page. Slashes (Brazilian
// "2025/1850") are replaced for file name safety.
func InvoiceNumber(text string) string {
	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		return strings.ReplaceAll(m[1], "/", "-")
	}
	return ""
}

// ProjectNumber finds the project code ("US25A0196") on a page.
func ProjectNumber(text string) string {
	if m := projectNumberRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// IsPackingList reports whether a page is a packing list rather than an
// invoice.
func IsPackingList(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "packing list") || strings.Contains(lower, "packing slip")
}

// parseCommaFloat parses a number that may use a comma decimal separator
// ("16,76"). Returns 0 when the string is empty or malformed.
func parseCommaFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseEuropeanAmount normalizes a European-grouped amount ("1.646,70")
// to the two-decimal interchange string ("1646.70"). Empty on failure.
func parseEuropeanAmount(s string) string {
	m, err := money.NewFromString(s, money.USD, true)
	if err != nil {
		return ""
	}
	return m.String()
}

// dedupKey identifies a line item within one extraction pass; multi-page
// invoices repeat header rows and would otherwise duplicate items.
func dedupKey(part string, qty float64, price string) string {
	return part + "|" + strconv.FormatFloat(qty, 'f', -1, 64) + "|" + price
}
