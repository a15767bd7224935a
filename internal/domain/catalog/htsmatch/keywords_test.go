package htsmatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keywordCSV = `keyword,hts_code,priority
park bench,9403.20.0080,10
bench,9401.69.8031,1
planter,3926.90.9989,1
,8708.29.5160,5
litter bin,,3
`

func TestLoadKeywords(t *testing.T) {
	keywords, err := LoadKeywords(strings.NewReader(keywordCSV))
	require.NoError(t, err)

	// Rows missing the keyword or the HTS code are dropped.
	require.Len(t, keywords, 3)
	assert.Equal(t, Keyword{Pattern: "park bench", HTSCode: "9403.20.0080", Priority: 10}, keywords[0])
	assert.Equal(t, Keyword{Pattern: "planter", HTSCode: "3926.90.9989", Priority: 1}, keywords[2])
}

func TestLoadKeywordsFeedSuggester(t *testing.T) {
	keywords, err := LoadKeywords(strings.NewReader(keywordCSV))
	require.NoError(t, err)

	s := NewSuggester(keywords)
	match := s.Suggest("PARK BENCH 1500MM GALVANIZED")
	require.NotNil(t, match)
	assert.Equal(t, "9403.20.0080", match.HTSCode)
}

func TestLoadKeywordsMalformed(t *testing.T) {
	_, err := LoadKeywords(strings.NewReader("keyword\nbench,extra\n"))
	assert.Error(t, err)
}
