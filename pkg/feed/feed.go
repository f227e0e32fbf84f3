package feed

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is one category entry in a supplier feed. The ID is the
// supplier's own category identifier, valid only within this document.
type Category struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// Good is one sellable item in a supplier feed. Category references the
// in-document category ID; Parameters are free-form name/value attributes.
type Good struct {
	ID         int               `yaml:"id"`
	Category   int               `yaml:"category"`
	Name       string            `yaml:"name"`
	Price      float64           `yaml:"price"`
	PriceRRC   float64           `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

// Feed is a supplier-submitted catalog document.
type Feed struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Goods      []Good     `yaml:"goods"`
}

// Parse decodes a YAML feed document and checks its overall shape.
// A document missing both the categories and goods sections is rejected.
func Parse(raw []byte) (*Feed, error) {
	var f Feed
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("malformed feed document: %w", err)
	}
	if len(f.Categories) == 0 && len(f.Goods) == 0 {
		return nil, fmt.Errorf("feed has no categories or goods")
	}
	return &f, nil
}
