package graph

import (
	"context"
	"time"

	"catalog-service/internal/store"
	"catalog-service/internal/util"

	"github.com/graphql-go/graphql"
)

// Request is one GraphQL operation as posted by a client
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Schema is the executable catalog schema
type Schema struct {
	schema       graphql.Schema
	catalog      Catalog
	defaultLimit int
}

// NewSchema registers the catalog read operations against catalog
func NewSchema(catalog Catalog, defaultLimit int) (*Schema, error) {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	s := &Schema{catalog: catalog, defaultLimit: defaultLimit}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: s.queryType(newCatalogTypes()),
	})
	if err != nil {
		return nil, err
	}
	s.schema = schema
	return s, nil
}

// Execute runs one operation with a fresh relation loader
func (s *Schema) Execute(ctx context.Context, req Request) *graphql.Result {
	start := time.Now()
	operation := req.OperationName
	if operation == "" {
		operation = "anonymous"
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        withLoader(ctx, NewLoader(s.catalog)),
	})

	status := "ok"
	if result.HasErrors() {
		status = "error"
	}
	util.GraphQLOperationsTotal.WithLabelValues(operation, status).Inc()
	util.GraphQLOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	return result
}

func (s *Schema) queryType(t *catalogTypes) *graphql.Object {
	idArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: nonNullID},
	}
	filterArg := &graphql.ArgumentConfig{Type: t.productFilter}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type:        listOf(t.product),
				Description: "Active products, newest first",
				Args: graphql.FieldConfigArgument{
					"filter": filterArg,
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: s.defaultLimit},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: s.resolveProducts,
			},
			"product": &graphql.Field{
				Type:    t.product,
				Args:    idArgs,
				Resolve: s.resolveProduct,
			},
			"productBySku": &graphql.Field{
				Type: t.product,
				Args: graphql.FieldConfigArgument{
					"sku": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: s.resolveProductBySKU,
			},
			"productsCount": &graphql.Field{
				Type: nonNullInt,
				Args: graphql.FieldConfigArgument{
					"filter": filterArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.catalog.ProductsCount(p.Context, productFilter(p.Args["filter"]))
				},
			},
			"categories": &graphql.Field{
				Type:        listOf(t.category),
				Description: "Active categories ordered by parent, position and name",
				Resolve:     s.resolveCategories,
			},
			"categoryTree": &graphql.Field{
				Type:        listOf(t.category),
				Description: "Root categories with their active descendants",
				Resolve:     s.resolveCategoryTree,
			},
			"category": &graphql.Field{
				Type:    t.category,
				Args:    idArgs,
				Resolve: s.resolveCategory,
			},
			"categoryBySlug": &graphql.Field{
				Type: t.category,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: nonNullString},
				},
				Resolve: s.resolveCategoryBySlug,
			},
			"attributeSets": &graphql.Field{
				Type: listOf(t.attributeSet),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sets, err := s.catalog.AttributeSets(p.Context)
					if err != nil {
						return nil, err
					}
					return nonNil(sets), nil
				},
			},
			"attributeSet": &graphql.Field{
				Type:    t.attributeSet,
				Args:    idArgs,
				Resolve: s.resolveAttributeSet,
			},
			"attributeValues": &graphql.Field{
				Type:        listOf(graphql.String),
				Description: "Distinct values an attribute takes on active products, optionally within one category",
				Args: graphql.FieldConfigArgument{
					"attributeId": &graphql.ArgumentConfig{Type: nonNullID},
					"categoryId":  &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: s.resolveAttributeValues,
			},
		},
	})
}

func (s *Schema) resolveProducts(p graphql.ResolveParams) (interface{}, error) {
	limit, offset, err := pageArgs(p.Args, s.defaultLimit)
	if err != nil {
		return nil, err
	}
	l, err := loaderFrom(p.Context)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.Products(p.Context, productFilter(p.Args["filter"]), limit, offset)
	if err != nil {
		return nil, err
	}
	l.RegisterProducts(products...)
	return nonNil(products), nil
}

func (s *Schema) resolveProduct(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}
	l, err := loaderFrom(p.Context)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.Product(p.Context, id)
	if err != nil || product == nil {
		return nil, err
	}
	l.PrimeProduct(product)
	return product.Product, nil
}

func (s *Schema) resolveProductBySKU(p graphql.ResolveParams) (interface{}, error) {
	sku, _ := p.Args["sku"].(string)
	l, err := loaderFrom(p.Context)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.ProductBySKU(p.Context, sku)
	if err != nil || product == nil {
		return nil, err
	}
	l.RegisterProducts(product)
	return product, nil
}

func (s *Schema) resolveCategories(p graphql.ResolveParams) (interface{}, error) {
	l, err := loaderFrom(p.Context)
	if err != nil {
		return nil, err
	}

	categories, err := s.catalog.Categories(p.Context)
	if err != nil {
		return nil, err
	}
	l.PrimeCategories(categories...)
	return nonNil(categories), nil
}

func (s *Schema) resolveCategoryTree(p graphql.ResolveParams) (interface{}, error) {
	l, err := loaderFrom(p.Context)
	if err != nil {
		return nil, err
	}

	tree, err := s.catalog.CategoryTree(p.Context)
	if err != nil {
		return nil, err
	}
	l.PrimeTree(tree)
	return tree.Roots(), nil
}

func (s *Schema) resolveCategory(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}
	return s.categoryWithChildren(p, func(ctx context.Context) (*store.CategoryWithChildren, error) {
		return s.catalog.Category(ctx, id)
	})
}

func (s *Schema) resolveCategoryBySlug(p graphql.ResolveParams) (interface{}, error) {
	slug, _ := p.Args["slug"].(string)
	return s.categoryWithChildren(p, func(ctx context.Context) (*store.CategoryWithChildren, error) {
		return s.catalog.CategoryBySlug(ctx, slug)
	})
}

// categoryWithChildren resolves a single category and caches its children for the request
func (s *Schema) categoryWithChildren(p graphql.ResolveParams, find func(context.Context) (*store.CategoryWithChildren, error)) (interface{}, error) {
	l, err := loaderFrom(p.Context)
	if err != nil {
		return nil, err
	}

	c, err := find(p.Context)
	if err != nil || c == nil {
		return nil, err
	}
	l.PrimeCategories(c.Category)
	l.PrimeChildren(c.Category.ID(), c.Children)
	return c.Category, nil
}

func (s *Schema) resolveAttributeSet(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}

	set, err := s.catalog.AttributeSet(p.Context, id)
	if err != nil || set == nil {
		return nil, err
	}
	return set, nil
}

func (s *Schema) resolveAttributeValues(p graphql.ResolveParams) (interface{}, error) {
	attributeID, err := idArg(p.Args, "attributeId")
	if err != nil {
		return nil, err
	}
	categoryID, err := optionalIDArg(p.Args, "categoryId")
	if err != nil {
		return nil, err
	}

	values, err := s.catalog.AttributeValues(p.Context, attributeID, categoryID)
	if err != nil {
		return nil, err
	}
	return nonNil(values), nil
}
