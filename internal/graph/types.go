package graph

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"catalog-service/internal/models"
	"catalog-service/internal/store"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02 15:04:05"

// field resolves a value straight off the source object
func field[S any](typ graphql.Output, description string, get func(S) interface{}) *graphql.Field {
	return &graphql.Field{
		Type:        typ,
		Description: description,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := p.Source.(S)
			if !ok {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			return get(src), nil
		},
	}
}

// relation resolves a value through the request loader
func relation[S any](typ graphql.Output, description string, load func(context.Context, *Loader, S) (interface{}, error)) *graphql.Field {
	return &graphql.Field{
		Type:        typ,
		Description: description,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := p.Source.(S)
			if !ok {
				return nil, fmt.Errorf("unexpected source %T", p.Source)
			}
			l, err := loaderFrom(p.Context)
			if err != nil {
				return nil, err
			}
			return load(p.Context, l, src)
		},
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optMoney(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

func optString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func optID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return formatID(*id)
}

func timestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(timestampLayout)
}

var (
	nonNullID     = graphql.NewNonNull(graphql.ID)
	nonNullString = graphql.NewNonNull(graphql.String)
	nonNullInt    = graphql.NewNonNull(graphql.Int)
	nonNullFloat  = graphql.NewNonNull(graphql.Float)
	nonNullBool   = graphql.NewNonNull(graphql.Boolean)
)

func listOf(t graphql.Type) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

// catalogTypes holds the object and input types of the catalog schema
type catalogTypes struct {
	product         *graphql.Object
	category        *graphql.Object
	image           *graphql.Object
	attributeValue  *graphql.Object
	attribute       *graphql.Object
	attributeSet    *graphql.Object
	productFilter   *graphql.InputObject
	attributeFilter *graphql.InputObject
}

func newCatalogTypes() *catalogTypes {
	t := &catalogTypes{}

	t.image = graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductImage",
		Fields: graphql.Fields{
			"id":        field(nonNullID, "", func(i *models.ProductImage) interface{} { return formatID(i.ID()) }),
			"url":       field(nonNullString, "", func(i *models.ProductImage) interface{} { return i.URL() }),
			"altText":   field(graphql.String, "", func(i *models.ProductImage) interface{} { return optString(i.AltText()) }),
			"position":  field(nonNullInt, "", func(i *models.ProductImage) interface{} { return i.Position() }),
			"isPrimary": field(nonNullBool, "", func(i *models.ProductImage) interface{} { return i.IsPrimary() }),
		},
	})

	t.attributeValue = graphql.NewObject(graphql.ObjectConfig{
		Name:        "AttributeValue",
		Description: "Value of one attribute on one product",
		Fields: graphql.Fields{
			"id":            field(nonNullID, "", func(v *models.AttributeValue) interface{} { return formatID(v.ID()) }),
			"attributeId":   field(nonNullID, "", func(v *models.AttributeValue) interface{} { return formatID(v.AttributeID()) }),
			"attributeName": field(graphql.String, "", func(v *models.AttributeValue) interface{} { return optString(v.AttributeName()) }),
			"attributeCode": field(graphql.String, "", func(v *models.AttributeValue) interface{} { return optString(v.AttributeCode()) }),
			"value":         field(nonNullString, "", func(v *models.AttributeValue) interface{} { return v.Value() }),
		},
	})

	t.attribute = graphql.NewObject(graphql.ObjectConfig{
		Name: "Attribute",
		Fields: graphql.Fields{
			"id":   field(nonNullID, "", func(a store.AttributeWithOptions) interface{} { return formatID(a.Attribute.ID()) }),
			"name": field(nonNullString, "", func(a store.AttributeWithOptions) interface{} { return a.Attribute.Name() }),
			"code": field(nonNullString, "", func(a store.AttributeWithOptions) interface{} { return a.Attribute.Code() }),
			"type": field(nonNullString, "text or select", func(a store.AttributeWithOptions) interface{} { return a.Attribute.Type() }),
			"options": field(listOf(graphql.String), "Allowed values of a select attribute in display order",
				func(a store.AttributeWithOptions) interface{} { return a.OptionValues() }),
		},
	})

	t.attributeSet = graphql.NewObject(graphql.ObjectConfig{
		Name: "AttributeSet",
		Fields: graphql.Fields{
			"id":   field(nonNullID, "", func(s *store.AttributeSetWithAttributes) interface{} { return formatID(s.Set.ID()) }),
			"name": field(nonNullString, "", func(s *store.AttributeSetWithAttributes) interface{} { return s.Set.Name() }),
			"attributes": field(listOf(t.attribute), "",
				func(s *store.AttributeSetWithAttributes) interface{} { return nonNil(s.Attributes) }),
		},
	})

	t.category = graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          field(nonNullID, "", func(c *models.Category) interface{} { return formatID(c.ID()) }),
				"name":        field(nonNullString, "", func(c *models.Category) interface{} { return c.Name() }),
				"slug":        field(nonNullString, "", func(c *models.Category) interface{} { return c.Slug() }),
				"description": field(graphql.String, "", func(c *models.Category) interface{} { return optString(c.Description()) }),
				"parentId":    field(graphql.ID, "", func(c *models.Category) interface{} { return optID(c.ParentID()) }),
				"position":    field(nonNullInt, "", func(c *models.Category) interface{} { return c.Position() }),
				"isActive":    field(nonNullBool, "", func(c *models.Category) interface{} { return c.IsActive() }),
				"isRoot":      field(nonNullBool, "", func(c *models.Category) interface{} { return c.IsRoot() }),
				"createdAt":   field(graphql.String, "", func(c *models.Category) interface{} { return timestamp(c.CreatedAt()) }),
				"updatedAt":   field(graphql.String, "", func(c *models.Category) interface{} { return timestamp(c.UpdatedAt()) }),
				"path": relation(nonNullString, "Breadcrumb from the root, e.g. \"Clothing > Men\"",
					func(ctx context.Context, l *Loader, c *models.Category) (interface{}, error) {
						return l.Path(ctx, c)
					}),
				"parent": relation(t.category, "",
					func(ctx context.Context, l *Loader, c *models.Category) (interface{}, error) {
						if c.IsRoot() {
							return nil, nil
						}
						parent, err := l.Category(ctx, *c.ParentID())
						if err != nil || parent == nil {
							return nil, err
						}
						return parent, nil
					}),
				"children": relation(listOf(t.category), "Active direct children ordered by position and name",
					func(ctx context.Context, l *Loader, c *models.Category) (interface{}, error) {
						return l.Children(ctx, c.ID())
					}),
			}
		}),
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":           field(nonNullID, "", func(p *models.Product) interface{} { return formatID(p.ID()) }),
				"sku":          field(nonNullString, "", func(p *models.Product) interface{} { return p.SKU() }),
				"name":         field(nonNullString, "", func(p *models.Product) interface{} { return p.Name() }),
				"description":  field(graphql.String, "", func(p *models.Product) interface{} { return optString(p.Description()) }),
				"price":        field(nonNullFloat, "", func(p *models.Product) interface{} { return money(p.Price()) }),
				"specialPrice": field(graphql.Float, "", func(p *models.Product) interface{} { return optMoney(p.SpecialPrice()) }),
				"effectivePrice": field(nonNullFloat, "Special price when set, otherwise the regular price",
					func(p *models.Product) interface{} { return money(p.EffectivePrice()) }),
				"hasDiscount": field(nonNullBool, "", func(p *models.Product) interface{} { return p.HasDiscount() }),
				"discountPercentage": field(graphql.Float, "Discount in percent rounded to one decimal",
					func(p *models.Product) interface{} { return optMoney(p.DiscountPercentage()) }),
				"productType":    field(nonNullString, "simple or configurable", func(p *models.Product) interface{} { return p.ProductType() }),
				"attributeSetId": field(nonNullInt, "", func(p *models.Product) interface{} { return int(p.AttributeSetID()) }),
				"stockQuantity":  field(nonNullInt, "", func(p *models.Product) interface{} { return p.StockQuantity() }),
				"stockStatus":    field(nonNullString, "", func(p *models.Product) interface{} { return p.StockStatus() }),
				"inStock":        field(nonNullBool, "", func(p *models.Product) interface{} { return p.IsInStock() }),
				"isActive":       field(nonNullBool, "", func(p *models.Product) interface{} { return p.IsActive() }),
				"createdAt":      field(graphql.String, "", func(p *models.Product) interface{} { return timestamp(p.CreatedAt()) }),
				"updatedAt":      field(graphql.String, "", func(p *models.Product) interface{} { return timestamp(p.UpdatedAt()) }),
				"attributes": relation(listOf(t.attributeValue), "",
					func(ctx context.Context, l *Loader, p *models.Product) (interface{}, error) {
						return l.AttributeValues(ctx, p.ID())
					}),
				"images": relation(listOf(t.image), "Images ordered by position",
					func(ctx context.Context, l *Loader, p *models.Product) (interface{}, error) {
						return l.Images(ctx, p.ID())
					}),
				"primaryImage": relation(t.image, "Image flagged primary, otherwise the first one",
					func(ctx context.Context, l *Loader, p *models.Product) (interface{}, error) {
						images, err := l.Images(ctx, p.ID())
						if err != nil {
							return nil, err
						}
						if img := models.PrimaryImage(images); img != nil {
							return img, nil
						}
						return nil, nil
					}),
				"categories": relation(listOf(t.category), "",
					func(ctx context.Context, l *Loader, p *models.Product) (interface{}, error) {
						return l.Categories(ctx, p.ID())
					}),
				"variants": relation(graphql.NewList(graphql.NewNonNull(t.product)), "Child products of a configurable product",
					func(ctx context.Context, l *Loader, p *models.Product) (interface{}, error) {
						return l.Variants(ctx, p)
					}),
			}
		}),
	})

	t.attributeFilter = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AttributeFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"attributeId": &graphql.InputObjectFieldConfig{Type: nonNullID},
			"value":       &graphql.InputObjectFieldConfig{Type: nonNullString},
		},
	})

	t.productFilter = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"categoryId":  &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"minPrice":    &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"maxPrice":    &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"productType": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"inStock":     &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"attributes": &graphql.InputObjectFieldConfig{
				Type:        graphql.NewList(graphql.NewNonNull(t.attributeFilter)),
				Description: "Every listed attribute value must match",
			},
		},
	})

	return t
}
