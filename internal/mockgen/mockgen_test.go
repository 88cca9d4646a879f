package mockgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBrandCatalog(t *testing.T) {
	listings := Generate("barbour jacket")
	require.Len(t, listings, 6)

	assert.Equal(t, "Barbour Bedale", listings[0].FirstString("title"))
	assert.Equal(t, "£329.00", listings[0].FirstString("price"))
	assert.Equal(t, "Mock Retailer 1", listings[0].FirstString("source"))
	assert.Equal(t, "https://example.com/barbour-bedale", listings[0].FirstString("link"))

	// Price steps cycle at +5% per variant slot.
	assert.Equal(t, "£303.45", listings[1].FirstString("price")) // 289 * 1.05
	assert.Equal(t, "£383.90", listings[2].FirstString("price")) // 349 * 1.10
}

func TestGenerateGenericVariants(t *testing.T) {
	listings := Generate("obscure parka")
	require.Len(t, listings, 6)

	assert.Equal(t, "obscure parka Classic", listings[0].FirstString("title"))
	assert.Equal(t, "US$120.00", listings[0].FirstString("price"))
	assert.Equal(t, "obscure parka Premium", listings[1].FirstString("title"))
	assert.Equal(t, []string{"S", "M", "L"}, listings[0].Strings("sizes"))
	assert.Equal(t, "1.0kg", listings[0].FirstString("weight"))
	assert.Equal(t, "1.2kg", listings[1].FirstString("weight"))
}

func TestGenerateWomensSizing(t *testing.T) {
	listings := Generate("women parka")
	assert.Equal(t, []string{"XS", "S", "M"}, listings[0].Strings("sizes"))
}

func TestGenerateDeterministic(t *testing.T) {
	first := Generate("carhartt jacket")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Generate("carhartt jacket"))
	}
}
