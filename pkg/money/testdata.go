package money

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator produces realistic invoice amounts and material splits
// for tests using gofakeit.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator with a specific seed so generated
// fixtures are reproducible across runs.
func NewTestDataGenerator(seed int64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// Amount generates a random USD amount between minCents and maxCents.
func (g *TestDataGenerator) Amount(minCents, maxCents int64) *Money {
	cents := g.faker.Number(int(minCents), int(maxCents))
	return New(int64(cents), USD)
}

// PartNumber generates a plausible furniture part number such as "LPU151-J02000".
func (g *TestDataGenerator) PartNumber() string {
	return fmt.Sprintf("%s%d-%s%d",
		strings.ToUpper(g.faker.LetterN(3)),
		g.faker.Number(100, 999),
		strings.ToUpper(g.faker.LetterN(1)),
		g.faker.Number(10000, 99999))
}

// MaterialSplit generates a steel/aluminum percentage pair that sums to 100.
func (g *TestDataGenerator) MaterialSplit() (steel, aluminum decimal.Decimal) {
	s := g.faker.Number(0, 100)
	steel = decimal.NewFromInt(int64(s))
	aluminum = decimal.NewFromInt(int64(100 - s))
	return steel, aluminum
}
