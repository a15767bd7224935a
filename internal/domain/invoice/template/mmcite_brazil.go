package template

import (
	"regexp"
	"strings"

	"github.com/tariffmill/tariffmill/internal/domain/invoice"
)

// MmciteBrazil parses the Brazilian mmcité layout, where each row carries
// the NCM code and HTS code inline:
//
//	SL505 94032090 9403.20.0080 105,60 USD 0,00 3,00 316,80 USD
//	350.2.2 73089090 7308.90.6000 1,40 USD 0,00 1690,00 2.366,00 USD
//	PQA111t_FSC (pint) 94017900 9401.69.8031 401,00 USD 0,00 2,00 802,00 USD
type MmciteBrazil struct {
	line *regexp.Regexp
}

func NewMmciteBrazil() *MmciteBrazil {
	return &MmciteBrazil{
		// part ncm(8 digits) hts(NNNN.NN.NNNN) unitUSD vat qty totalUSD
		line: regexp.MustCompile(`(?i)^([A-Za-z0-9][A-Za-z0-9\-_.]+(?:\s*\([^)]+\))?)\s+(\d{8})\s+(\d{4}\.\d{2}\.\d{4})\s+([\d.,]+)\s*USD\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s*USD`),
	}
}

func (t *MmciteBrazil) Name() string { return "mmcite-brazil" }

func (t *MmciteBrazil) Confidence(text string) float64 {
	var score float64
	if strings.Contains(text, "Invoice number:") {
		score += 0.2
	}
	hits := 0
	for _, line := range strings.Split(text, "\n") {
		if t.line.MatchString(strings.TrimSpace(line)) {
			hits++
		}
	}
	switch {
	case hits >= 3:
		score += 0.8
	case hits > 0:
		score += 0.5
	}
	if score > 1 {
		score = 1
	}
	return score
}

func (t *MmciteBrazil) ExtractLineItems(text string) []invoice.LineItem {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool)
	var items []invoice.LineItem

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		m := t.line.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		qty := parseCommaFloat(m[6])
		price := parseEuropeanAmount(m[7])
		key := dedupKey(m[1], qty, price)
		if seen[key] {
			continue
		}
		seen[key] = true

		item := invoice.LineItem{
			PartNumber: m[1],
			Quantity:   qty,
			TotalPrice: price,
		}
		applyMaterialBlock(&item, lookahead(lines, i))
		items = append(items, item)
	}
	return items
}
