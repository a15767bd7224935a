package declaration

import (
	"strings"

	"github.com/tariffmill/tariffmill/internal/domain/catalog"
)

// MaterialType identifies which Section 232 material bucket a derivative
// row declares under.
type MaterialType string

const (
	Steel    MaterialType = "steel"
	Aluminum MaterialType = "aluminum"
	Copper   MaterialType = "copper"
	Wood     MaterialType = "wood"
	Auto     MaterialType = "auto"
	Non232   MaterialType = "non_232"
)

// materialOrder fixes the emission order for derivative rows so output is
// deterministic regardless of how the composition arrived.
var materialOrder = [...]MaterialType{Steel, Aluminum, Copper, Wood, Auto, Non232}

// Declaration type codes per CBP filing convention. Steel (08) does not
// require the secondary toggle in the downstream customs system; the other
// 232 codes do, which is why status flags stay a separate field.
const (
	CodeSteel    = "08"
	CodeAluminum = "07"
	CodeCopper   = "11"
	CodeWood     = "10"

	// DualMarker flags line items that require simultaneous steel and
	// aluminum declarations.
	DualMarker = "07 & 08"
)

var statusFlags = map[MaterialType]string{
	Steel:    "232_Steel",
	Aluminum: "232_Aluminum",
	Copper:   "232_Copper",
	Wood:     "232_Wood",
	Auto:     "232_Auto",
	Non232:   "Non_232",
}

// StatusFlag returns the 232 status string the export carries for a material.
func StatusFlag(m MaterialType) string {
	return statusFlags[m]
}

// materialPct reads the composition percentage for one material off a
// catalog record.
func materialPct(p catalog.PartRecord, m MaterialType) float64 {
	switch m {
	case Steel:
		return p.SteelPct
	case Aluminum:
		return p.AluminumPct
	case Copper:
		return p.CopperPct
	case Wood:
		return p.WoodPct
	case Auto:
		return p.AutoPct
	case Non232:
		return p.NonSteelPct
	default:
		return 0
	}
}

// normalizeHTS strips dots and whitespace so auto-code lookups match
// regardless of how the catalog formats HTS codes.
func normalizeHTS(hts string) string {
	return strings.ReplaceAll(strings.TrimSpace(hts), ".", "")
}
