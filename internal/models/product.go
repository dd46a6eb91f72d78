package models

import (
	"github.com/shopspring/decimal"
)

// Product types
const (
	ProductTypeSimple       = "simple"
	ProductTypeConfigurable = "configurable"
)

// Stock statuses
const (
	StockStatusInStock    = "in_stock"
	StockStatusOutOfStock = "out_of_stock"
)

const (
	maxSKULength         = 100
	maxProductNameLength = 255
	moneyPlaces          = 2
)

// Product is a sellable catalog item
type Product struct {
	BaseEntity
	sku            string
	name           string
	description    *string
	price          decimal.Decimal
	specialPrice   *decimal.Decimal
	productType    string
	attributeSetID int64
	stockQuantity  int
	stockStatus    string
	isActive       bool
}

// NewProduct creates a validated simple product with no stock
func NewProduct(sku, name string, price decimal.Decimal, attributeSetID int64) (*Product, error) {
	p := &Product{
		productType: ProductTypeSimple,
		stockStatus: StockStatusInStock,
		isActive:    true,
	}
	if err := p.SetSKU(sku); err != nil {
		return nil, err
	}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.SetAttributeSetID(attributeSetID); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) SKU() string { return p.sku }
func (p *Product) Name() string { return p.name }
func (p *Product) Description() *string { return p.description }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) SpecialPrice() *decimal.Decimal { return p.specialPrice }
func (p *Product) ProductType() string { return p.productType }
func (p *Product) AttributeSetID() int64 { return p.attributeSetID }
func (p *Product) StockQuantity() int { return p.stockQuantity }
func (p *Product) StockStatus() string { return p.stockStatus }
func (p *Product) IsActive() bool { return p.isActive }
func (p *Product) IsSimple() bool { return p.productType == ProductTypeSimple }
func (p *Product) IsConfigurable() bool { return p.productType == ProductTypeConfigurable }
func (p *Product) IsInStock() bool { return p.stockStatus == StockStatusInStock }
func (p *Product) SetDescription(s *string) { p.description = optionalString(s) }
func (p *Product) SetActive(active bool) { p.isActive = active }

func (p *Product) SetSKU(sku string) error {
	v, err := requiredString("product", "sku", sku, maxSKULength)
	if err != nil {
		return err
	}
	p.sku = v
	return nil
}

func (p *Product) SetName(name string) error {
	v, err := requiredString("product", "name", name, maxProductNameLength)
	if err != nil {
		return err
	}
	p.name = v
	return nil
}

// SetPrice assigns the regular price rounded to cents
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("product", "price", "cannot be negative")
	}
	p.price = price.Round(moneyPlaces)
	return nil
}

// SetSpecialPrice assigns or clears the promotional price
func (p *Product) SetSpecialPrice(price *decimal.Decimal) error {
	if price == nil {
		p.specialPrice = nil
		return nil
	}
	if price.IsNegative() {
		return invalid("product", "special_price", "cannot be negative")
	}
	v := price.Round(moneyPlaces)
	p.specialPrice = &v
	return nil
}

func (p *Product) SetProductType(productType string) error {
	switch productType {
	case ProductTypeSimple, ProductTypeConfigurable:
		p.productType = productType
		return nil
	}
	return invalid("product", "product_type", "must be %q or %q", ProductTypeSimple, ProductTypeConfigurable)
}

func (p *Product) SetAttributeSetID(id int64) error {
	if id <= 0 {
		return invalid("product", "attribute_set_id", "must be positive")
	}
	p.attributeSetID = id
	return nil
}

// SetStockQuantity assigns the quantity and derives the stock status from it
func (p *Product) SetStockQuantity(qty int) error {
	if qty < 0 {
		return invalid("product", "stock_quantity", "cannot be negative")
	}
	p.stockQuantity = qty
	if qty > 0 {
		p.stockStatus = StockStatusInStock
	} else {
		p.stockStatus = StockStatusOutOfStock
	}
	return nil
}

// SetStockStatus overrides the derived stock status
func (p *Product) SetStockStatus(status string) error {
	switch status {
	case StockStatusInStock, StockStatusOutOfStock:
		p.stockStatus = status
		return nil
	}
	return invalid("product", "stock_status", "must be %q or %q", StockStatusInStock, StockStatusOutOfStock)
}

// EffectivePrice is the special price when set, otherwise the regular price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.specialPrice != nil {
		return *p.specialPrice
	}
	return p.price
}

func (p *Product) HasDiscount() bool {
	return p.specialPrice != nil && p.specialPrice.LessThan(p.price)
}

// DiscountPercentage returns the discount rounded to one decimal, nil without a discount
func (p *Product) DiscountPercentage() *decimal.Decimal {
	if !p.HasDiscount() {
		return nil
	}
	pct := p.price.Sub(*p.specialPrice).Mul(decimal.NewFromInt(100)).Div(p.price).Round(1)
	return &pct
}
