package template

import (
	"regexp"
	"strings"

	"github.com/tariffmill/tariffmill/internal/domain/invoice"
)

// Mmcite parses the Czech mmcité invoice layouts: regular invoices with a
// project code column, proformas without one, and the loose variants that
// only carry a trailing USD amount. Line item rows are followed within a
// few lines by a material block ("Steel: 53% Weight of steel: 10,4kg ...")
// that is captured onto the item.
type Mmcite struct {
	line          *regexp.Regexp
	proforma      *regexp.Regexp
	simple        *regexp.Regexp
	proformaLoose *regexp.Regexp
	trailingUSD   *regexp.Regexp
}

func NewMmcite() *Mmcite {
	return &Mmcite{
		// PartNo ProjectCode Qty [ks|pc] PriceCZK VAT PriceUSD
		// e.g. "LPU151-J02000 US25A0238 3,00 ks 11.579,04 CZK 0 1.646,70 USD"
		line: regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\-]+(?:-[A-Z0-9]+)?)\s+(US\d+[A-Z]\d+)\s+(\d+[,.]?\d*)\s*(?:ks|pc)?\s+([\d.,]+)\s*(?:CZK)?\s+(\d+)\s+([\d.,]+)\s*USD`),
		// Proformas drop the project code column.
		proforma: regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\-]+(?:-[A-Z0-9]+)?)\s+(\d+[,.]?\d*)\s*(?:ks|pc)\s+([\d.,]+)\s*CZK\s+(\d+)\s+([\d.,]+)\s*USD`),
		// Looser rows: part + project + qty, USD somewhere at line end.
		simple:        regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\-]+(?:-[A-Z0-9]+)?)\s+(US\d+[A-Z]\d+)\s+(\d+[,.]?\d*)\s*(?:ks|pc)?`),
		proformaLoose: regexp.MustCompile(`(?i)^([A-Z][A-Z0-9\-]+(?:-[A-Z0-9]+)?)\s+(\d+[,.]?\d*)\s*(?:ks|pc)?`),
		trailingUSD:   regexp.MustCompile(`([\d.,]+)\s*USD\s*$`),
	}
}

func (t *Mmcite) Name() string { return "mmcite" }

func (t *Mmcite) Confidence(text string) float64 {
	lower := strings.ToLower(text)
	var score float64
	if strings.Contains(lower, "mmcité") || strings.Contains(lower, "mmcite") {
		score += 0.3
	}
	if strings.Contains(text, "CZK") {
		score += 0.3
	}
	if strings.Contains(lower, " ks ") || strings.Contains(lower, " ks\n") {
		score += 0.1
	}
	for _, line := range strings.Split(text, "\n") {
		if t.line.MatchString(strings.TrimSpace(line)) || t.proforma.MatchString(strings.TrimSpace(line)) {
			score += 0.3
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

func (t *Mmcite) ExtractLineItems(text string) []invoice.LineItem {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool)
	var items []invoice.LineItem

	appendItem := func(i int, part, qtyStr, priceStr string) {
		qty := parseCommaFloat(qtyStr)
		price := parseEuropeanAmount(priceStr)
		key := dedupKey(part, qty, price)
		if seen[key] {
			return
		}
		seen[key] = true

		item := invoice.LineItem{
			PartNumber: part,
			Quantity:   qty,
			TotalPrice: price,
		}
		applyMaterialBlock(&item, lookahead(lines, i))
		items = append(items, item)
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "type / desciption") || strings.Contains(lower, "type / description") {
			continue
		}
		// Summary lines ("Total 1.646,70 USD") would satisfy the loose
		// patterns and show up as a part named "Total".
		if strings.HasPrefix(lower, "total") {
			continue
		}

		if m := t.line.FindStringSubmatch(line); m != nil {
			appendItem(i, m[1], m[3], m[6])
			continue
		}
		if m := t.proforma.FindStringSubmatch(line); m != nil {
			appendItem(i, m[1], m[2], m[5])
			continue
		}
		if m := t.simple.FindStringSubmatch(line); m != nil {
			if usd := t.trailingUSD.FindStringSubmatch(line); usd != nil {
				appendItem(i, m[1], m[3], usd[1])
			}
			continue
		}
		if m := t.proformaLoose.FindStringSubmatch(line); m != nil {
			if usd := t.trailingUSD.FindStringSubmatch(line); usd != nil {
				appendItem(i, m[1], m[2], usd[1])
			}
		}
	}
	return items
}

var (
	steelPctRe    = regexp.MustCompile(`(?i)Steel:\s*(\d+(?:[,.]?\d*)?)%`)
	steelKgRe     = regexp.MustCompile(`(?i)Steel:\s*\d+(?:[,.]?\d*)?%[,\s]*(\d+[,.]?\d*)\s*kg`)
	steelKgAltRe  = regexp.MustCompile(`(?i)Weight of steel:\s*(\d+[,.]?\d*)\s*kg`)
	steelValRe    = regexp.MustCompile(`(?i)Value of steel:\s*(\d+[,.]?\d*)\s*\$`)
	alumPctRe     = regexp.MustCompile(`(?i)Aluminum:\s*(\d+(?:[,.]?\d*)?)%`)
	alumKgRe      = regexp.MustCompile(`(?i)Aluminum:\s*\d+(?:[,.]?\d*)?%[,\s]*(\d+[,.]?\d*)\s*kg`)
	alumKgAltRe   = regexp.MustCompile(`(?i)Weight of aluminum:\s*(\d+[,.]?\d*)\s*kg`)
	alumValRe     = regexp.MustCompile(`(?i)Value of aluminum:\s*(\d+[,.]?\d*)\s*\$`)
	netWeightRe   = regexp.MustCompile(`(?i)Net weight:\s*(\d+[,.]?\d*)\s*kg`)
	materialCueRe = regexp.MustCompile(`(?i)(?:Steel|Aluminum):`)
)

// lookahead gathers up to four lines after a line item row, where the
// material block prints. It stops growing once a material cue appears.
func lookahead(lines []string, start int) string {
	var b strings.Builder
	for j := start + 1; j < len(lines) && j <= start+4; j++ {
		next := strings.TrimSpace(lines[j])
		b.WriteString(" ")
		b.WriteString(next)
		if materialCueRe.MatchString(next) {
			break
		}
	}
	return b.String()
}

// applyMaterialBlock fills the informational material fields from the
// text following a line item. The block comes in two shapes: compact
// ("Steel: 100%, 16,76kg") and spaced ("Weight of steel: 10,4kg").
func applyMaterialBlock(item *invoice.LineItem, context string) {
	if m := steelPctRe.FindStringSubmatch(context); m != nil {
		item.SteelPct = parseCommaFloat(m[1])
	}
	if m := steelKgRe.FindStringSubmatch(context); m != nil {
		item.SteelKg = parseCommaFloat(m[1])
	} else if m := steelKgAltRe.FindStringSubmatch(context); m != nil {
		item.SteelKg = parseCommaFloat(m[1])
	}
	if m := steelValRe.FindStringSubmatch(context); m != nil {
		item.SteelValue = parseCommaFloat(m[1])
	}
	if m := alumPctRe.FindStringSubmatch(context); m != nil {
		item.AluminumPct = parseCommaFloat(m[1])
	}
	if m := alumKgRe.FindStringSubmatch(context); m != nil {
		item.AluminumKg = parseCommaFloat(m[1])
	} else if m := alumKgAltRe.FindStringSubmatch(context); m != nil {
		item.AluminumKg = parseCommaFloat(m[1])
	}
	if m := alumValRe.FindStringSubmatch(context); m != nil {
		item.AluminumValue = parseCommaFloat(m[1])
	}
	if m := netWeightRe.FindStringSubmatch(context); m != nil {
		item.NetWeight = parseCommaFloat(m[1])
	}
}
