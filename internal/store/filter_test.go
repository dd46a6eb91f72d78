package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmptyFilter(t *testing.T) {
	zero := int64(0)
	zeroPrice := decimal.Zero

	tests := []struct {
		name   string
		filter ProductFilter
		empty  bool
	}{
		{"zero value", ProductFilter{}, true},
		{"zero category and prices", ProductFilter{CategoryID: &zero, MinPrice: &zeroPrice, MaxPrice: &zeroPrice}, true},
		{"blank attribute value", ProductFilter{Attributes: []AttributeFilter{{AttributeID: 3, Value: "  "}}}, true},
		{"in stock", ProductFilter{InStock: true}, false},
		{"product type", ProductFilter{ProductType: "configurable"}, false},
		{"attribute", ProductFilter{Attributes: []AttributeFilter{{AttributeID: 3, Value: "Red"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.filter.IsEmpty())
		})
	}
}

func TestFilterCompile(t *testing.T) {
	category := int64(4)
	min := decimal.RequireFromString("10")
	max := decimal.RequireFromString("99.5")

	f := ProductFilter{
		CategoryID:  &category,
		MinPrice:    &min,
		MaxPrice:    &max,
		ProductType: "simple",
		InStock:     true,
		Attributes: []AttributeFilter{
			{AttributeID: 1, Value: "Red"},
			{AttributeID: 2, Value: " L "},
		},
	}

	where, args := f.predicate().compile()

	assert.Equal(t, " INNER JOIN product_categories pc ON p.id = pc.product_id"+
		" INNER JOIN product_attribute_values pav0 ON p.id = pav0.product_id"+
		" INNER JOIN product_attribute_values pav1 ON p.id = pav1.product_id"+
		" WHERE p.is_active = $1 AND pc.category_id = $2 AND p.price >= $3 AND p.price <= $4"+
		" AND p.product_type = $5 AND p.stock_status = $6"+
		" AND pav0.attribute_id = $7 AND pav0.value = $8"+
		" AND pav1.attribute_id = $9 AND pav1.value = $10", where)
	assert.Equal(t, []interface{}{true, category, min, max, "simple", "in_stock", int64(1), "Red", int64(2), "L"}, args)
}

func TestUnfilteredCompileOnlyRequiresActive(t *testing.T) {
	where, args := ProductFilter{}.predicate().compile()

	assert.Equal(t, " WHERE p.is_active = $1", where)
	assert.Equal(t, []interface{}{true}, args)
}
