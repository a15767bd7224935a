package declaration

import "strings"

// Classifier assigns declaration codes, 232 status flags and country
// fields. Auto parts have no fixed code: whether an automotive derivative
// carries a 232 code depends on its HTS classification, so the classifier
// takes an HTS-to-code table (normally loaded from the reference
// spreadsheet import) and leaves the code empty on a miss.
type Classifier struct {
	autoCodes map[string]string
}

// NewClassifier builds a classifier. autoCodes maps normalized HTS codes
// (digits only, no dots) to declaration codes for auto-material rows; nil
// is valid and means no auto part gets a code.
func NewClassifier(autoCodes map[string]string) *Classifier {
	normalized := make(map[string]string, len(autoCodes))
	for hts, code := range autoCodes {
		normalized[normalizeHTS(hts)] = code
	}
	return &Classifier{autoCodes: normalized}
}

// Classify populates declaration code, status flag, country fields and the
// dual-declaration marker on every derivative row of ONE source line item.
// Dual detection is per source item: a steel row and an aluminum row from
// the same line mark both rows "07 & 08".
func (c *Classifier) Classify(rows []DerivativeRow) {
	var hasSteel, hasAluminum bool
	for i := range rows {
		switch rows[i].Material {
		case Steel:
			hasSteel = true
		case Aluminum:
			hasAluminum = true
		}
	}
	dual := hasSteel && hasAluminum

	for i := range rows {
		row := &rows[i]
		row.DeclarationCode = c.declarationCode(row.Material, row.Item.Part.HTSCode)
		row.StatusFlag = StatusFlag(row.Material)
		row.Dual = dual

		country := originCountry(row.Item.Part.CountryOrigin, row.Item.Part.MID)
		switch row.Material {
		case Steel:
			row.CountryMelt = country
		case Aluminum:
			row.CountryMelt = country
			row.CountryCast = country
			row.CountrySmelt = country
		case Copper:
			row.CountryMelt = country
			row.CountrySmelt = country
		case Wood:
			row.CountrySmelt = country
		}
	}
}

func (c *Classifier) declarationCode(m MaterialType, hts string) string {
	switch m {
	case Steel:
		return CodeSteel
	case Aluminum:
		return CodeAluminum
	case Copper:
		return CodeCopper
	case Wood:
		return CodeWood
	case Auto:
		return c.autoCode(hts)
	default:
		return ""
	}
}

// autoCode looks up the declaration code for an automotive HTS code,
// falling back through 8-, 6- and 4-digit prefixes the way the tariff
// schedule nests headings.
func (c *Classifier) autoCode(hts string) string {
	key := normalizeHTS(hts)
	if key == "" {
		return ""
	}
	for _, n := range []int{len(key), 8, 6, 4} {
		if n > len(key) {
			continue
		}
		if code, ok := c.autoCodes[key[:n]]; ok {
			return code
		}
	}
	return ""
}

// originCountry resolves the two-letter country for the melt/cast/smelt
// fields: the catalog's explicit country wins, otherwise the MID prefix.
// Too-short MIDs leave the fields empty rather than guessing.
func originCountry(countryOrigin, mid string) string {
	if c := strings.TrimSpace(countryOrigin); c != "" {
		return strings.ToUpper(c)
	}
	mid = strings.TrimSpace(mid)
	if len(mid) < 2 {
		return ""
	}
	return strings.ToUpper(mid[:2])
}
