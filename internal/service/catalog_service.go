package service

import (
	"context"

	"catalog-service/internal/models"
	"catalog-service/internal/store"
	"catalog-service/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CatalogService maps catalog read operations onto repository calls
type CatalogService struct {
	products      *store.ProductRepository
	categories    *store.CategoryRepository
	attributes    *store.AttributeRepository
	attributeSets *store.AttributeSetRepository
}

// NewCatalogService creates a catalog service with one repository per entity family,
// all sharing the given store
func NewCatalogService(s *store.Store) *CatalogService {
	attributes := store.NewAttributeRepository(s)
	return &CatalogService{
		products:      store.NewProductRepository(s),
		categories:    store.NewCategoryRepository(s),
		attributes:    attributes,
		attributeSets: store.NewAttributeSetRepository(s, attributes),
	}
}

// Products lists active products. An empty filter takes the plain listing path.
func (s *CatalogService) Products(ctx context.Context, f store.ProductFilter, limit, offset int) ([]*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Products",
		attribute.Int("limit", limit), attribute.Int("offset", offset))
	defer span.End()

	var products []*models.Product
	var err error
	if f.IsEmpty() {
		products, err = s.products.FindActive(ctx, limit, offset)
	} else {
		products, err = s.products.FindWithFilters(ctx, f, limit, offset)
	}
	return products, s.fail(ctx, span, "products", err)
}

// ProductsCount counts products. An empty filter counts every stored product.
func (s *CatalogService) ProductsCount(ctx context.Context, f store.ProductFilter) (int, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ProductsCount")
	defer span.End()

	var n int
	var err error
	if f.IsEmpty() {
		n, err = s.products.Count(ctx)
	} else {
		n, err = s.products.CountWithFilters(ctx, f)
	}
	return n, s.fail(ctx, span, "productsCount", err)
}

// Product returns a product with attribute values and images, nil when absent
func (s *CatalogService) Product(ctx context.Context, id int64) (*store.ProductWithRelations, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Product", attribute.Int64("product_id", id))
	defer span.End()

	p, err := s.products.FindByIDWithRelations(ctx, id)
	return p, s.fail(ctx, span, "product", err)
}

func (s *CatalogService) ProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ProductBySKU", attribute.String("sku", sku))
	defer span.End()

	p, err := s.products.FindBySKU(ctx, sku)
	return p, s.fail(ctx, span, "productBySku", err)
}

func (s *CatalogService) Categories(ctx context.Context) ([]*models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Categories")
	defer span.End()

	categories, err := s.categories.FindActive(ctx)
	return categories, s.fail(ctx, span, "categories", err)
}

func (s *CatalogService) CategoryTree(ctx context.Context) (*models.CategoryTree, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CategoryTree")
	defer span.End()

	tree, err := s.categories.GetCategoryTree(ctx)
	return tree, s.fail(ctx, span, "categoryTree", err)
}

func (s *CatalogService) Category(ctx context.Context, id int64) (*store.CategoryWithChildren, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Category", attribute.Int64("category_id", id))
	defer span.End()

	c, err := s.categories.FindByIDWithChildren(ctx, id)
	return c, s.fail(ctx, span, "category", err)
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*store.CategoryWithChildren, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CategoryBySlug", attribute.String("slug", slug))
	defer span.End()

	c, err := s.categories.FindBySlugWithChildren(ctx, slug)
	return c, s.fail(ctx, span, "categoryBySlug", err)
}

func (s *CatalogService) AttributeSets(ctx context.Context) ([]*store.AttributeSetWithAttributes, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AttributeSets")
	defer span.End()

	sets, err := s.attributeSets.FindAllWithAttributes(ctx)
	return sets, s.fail(ctx, span, "attributeSets", err)
}

func (s *CatalogService) AttributeSet(ctx context.Context, id int64) (*store.AttributeSetWithAttributes, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AttributeSet", attribute.Int64("attribute_set_id", id))
	defer span.End()

	set, err := s.attributeSets.FindByIDWithAttributes(ctx, id)
	return set, s.fail(ctx, span, "attributeSet", err)
}

// AttributeValues lists the values an attribute takes on active products, for facet menus
func (s *CatalogService) AttributeValues(ctx context.Context, attributeID int64, categoryID *int64) ([]string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AttributeValues", attribute.Int64("attribute_id", attributeID))
	defer span.End()

	values, err := s.attributes.GetUsedValues(ctx, attributeID, categoryID)
	return values, s.fail(ctx, span, "attributeValues", err)
}

func (s *CatalogService) AttributeValuesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.AttributeValue, error) {
	values, err := s.products.LoadAttributeValuesFor(ctx, productIDs)
	return values, s.fail(ctx, nil, "product.attributes", err)
}

func (s *CatalogService) ImagesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.ProductImage, error) {
	images, err := s.products.LoadImagesFor(ctx, productIDs)
	return images, s.fail(ctx, nil, "product.images", err)
}

func (s *CatalogService) CategoriesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.Category, error) {
	categories, err := s.categories.FindByProductIDs(ctx, productIDs)
	return categories, s.fail(ctx, nil, "product.categories", err)
}

func (s *CatalogService) Variants(ctx context.Context, parentID int64) ([]*models.Product, error) {
	variants, err := s.products.FindVariants(ctx, parentID)
	return variants, s.fail(ctx, nil, "product.variants", err)
}

func (s *CatalogService) ChildCategories(ctx context.Context, parentID int64) ([]*models.Category, error) {
	children, err := s.categories.FindChildren(ctx, parentID)
	return children, s.fail(ctx, nil, "category.children", err)
}

func (s *CatalogService) CategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	return c, s.fail(ctx, nil, "category.parent", err)
}

// fail logs a storage error and marks the span. The error itself is returned untouched.
func (s *CatalogService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	if err == nil {
		return nil
	}
	util.LoggerFromContext(ctx).Error("Catalog query failed",
		zap.String("operation", operation),
		zap.Error(err))
	if span != nil {
		util.RecordError(span, err)
	}
	return err
}
