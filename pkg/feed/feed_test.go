package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
goods:
  - id: 4216292
    category: 224
    name: Smartphone Apple iPhone XS Max 512GB (golden)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Screen size (inch)": "6.5"
      "Color": "golden"
  - id: 4216313
    category: 15
    name: Protective glass
    price: 350
    price_rrc: 490
    quantity: 100
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", f.Shop)
	require.Len(t, f.Categories, 2)
	assert.Equal(t, 224, f.Categories[0].ID)
	assert.Equal(t, "Smartphones", f.Categories[0].Name)

	require.Len(t, f.Goods, 2)
	g := f.Goods[0]
	assert.Equal(t, 4216292, g.ID)
	assert.Equal(t, 224, g.Category)
	assert.Equal(t, 110000.0, g.Price)
	assert.Equal(t, 116990.0, g.PriceRRC)
	assert.Equal(t, 14, g.Quantity)
	assert.Equal(t, "golden", g.Parameters["Color"])

	// Parameters section is optional per good.
	assert.Empty(t, f.Goods[1].Parameters)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("shop: [unterminated"))
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	_, err := Parse([]byte("shop: Empty\n"))
	assert.Error(t, err)
}

func TestParseGoodsOnly(t *testing.T) {
	doc := `
goods:
  - id: 1
    category: 7
    name: Cable
    price: 100
    price_rrc: 150
    quantity: 3
`
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, f.Goods, 1)
}
