package graph

import (
	"context"
	"errors"
	"strings"
	"sync"

	"catalog-service/internal/models"
	"catalog-service/internal/store"
	"catalog-service/internal/util"
)

// Catalog is the read side the query surface resolves against
type Catalog interface {
	Products(ctx context.Context, f store.ProductFilter, limit, offset int) ([]*models.Product, error)
	ProductsCount(ctx context.Context, f store.ProductFilter) (int, error)
	Product(ctx context.Context, id int64) (*store.ProductWithRelations, error)
	ProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	Categories(ctx context.Context) ([]*models.Category, error)
	CategoryTree(ctx context.Context) (*models.CategoryTree, error)
	Category(ctx context.Context, id int64) (*store.CategoryWithChildren, error)
	CategoryBySlug(ctx context.Context, slug string) (*store.CategoryWithChildren, error)
	AttributeSets(ctx context.Context) ([]*store.AttributeSetWithAttributes, error)
	AttributeSet(ctx context.Context, id int64) (*store.AttributeSetWithAttributes, error)
	AttributeValues(ctx context.Context, attributeID int64, categoryID *int64) ([]string, error)

	AttributeValuesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.AttributeValue, error)
	ImagesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.ProductImage, error)
	CategoriesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.Category, error)
	Variants(ctx context.Context, parentID int64) ([]*models.Product, error)
	ChildCategories(ctx context.Context, parentID int64) ([]*models.Category, error)
	CategoryByID(ctx context.Context, id int64) (*models.Category, error)
}

var errNoLoader = errors.New("graph: no loader in request context")

type loaderKey struct{}

func withLoader(ctx context.Context, l *Loader) context.Context {
	return context.WithValue(ctx, loaderKey{}, l)
}

func loaderFrom(ctx context.Context) (*Loader, error) {
	l, ok := ctx.Value(loaderKey{}).(*Loader)
	if !ok {
		return nil, errNoLoader
	}
	return l, nil
}

// Loader fetches and caches entity relations for the lifetime of one request.
// Product relations are fetched for every product the request has seen so far
// in a single query, the first time any of them asks for that relation.
type Loader struct {
	catalog Catalog

	mu              sync.Mutex
	productIDs      []int64
	seenProducts    map[int64]bool
	attributeValues map[int64][]*models.AttributeValue
	images          map[int64][]*models.ProductImage
	categories      map[int64][]*models.Category
	variants        map[int64][]*models.Product
	children        map[int64][]*models.Category
	categoryByID    map[int64]*models.Category
}

// NewLoader creates an empty request loader
func NewLoader(catalog Catalog) *Loader {
	return &Loader{
		catalog:         catalog,
		seenProducts:    make(map[int64]bool),
		attributeValues: make(map[int64][]*models.AttributeValue),
		images:          make(map[int64][]*models.ProductImage),
		categories:      make(map[int64][]*models.Category),
		variants:        make(map[int64][]*models.Product),
		children:        make(map[int64][]*models.Category),
		categoryByID:    make(map[int64]*models.Category),
	}
}

// RegisterProducts makes products part of the next relation batch
func (l *Loader) RegisterProducts(products ...*models.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registerLocked(products)
}

func (l *Loader) registerLocked(products []*models.Product) {
	for _, p := range products {
		if !l.seenProducts[p.ID()] {
			l.seenProducts[p.ID()] = true
			l.productIDs = append(l.productIDs, p.ID())
		}
	}
}

// PrimeProduct caches relations that were loaded together with the product
func (l *Loader) PrimeProduct(p *store.ProductWithRelations) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.registerLocked([]*models.Product{p.Product})
	l.attributeValues[p.Product.ID()] = nonNil(p.AttributeValues)
	l.images[p.Product.ID()] = nonNil(p.Images)
}

// PrimeCategories caches categories by id for parent and path lookups
func (l *Loader) PrimeCategories(categories ...*models.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range categories {
		l.categoryByID[c.ID()] = c
	}
}

// PrimeChildren caches the children of parentID
func (l *Loader) PrimeChildren(parentID int64, children []*models.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.children[parentID] = nonNil(children)
	for _, c := range children {
		l.categoryByID[c.ID()] = c
	}
}

// PrimeTree caches every node of tree and its children
func (l *Loader) PrimeTree(tree *models.CategoryTree) {
	var walk func(categories []*models.Category)
	walk = func(categories []*models.Category) {
		for _, c := range categories {
			children := tree.Children(c.ID())
			l.PrimeCategories(c)
			l.PrimeChildren(c.ID(), children)
			walk(children)
		}
	}
	walk(tree.Roots())
}

func (l *Loader) AttributeValues(ctx context.Context, productID int64) ([]*models.AttributeValue, error) {
	return loadBatched(ctx, l, "product.attributes", l.attributeValues, productID, l.catalog.AttributeValuesFor)
}

func (l *Loader) Images(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	return loadBatched(ctx, l, "product.images", l.images, productID, l.catalog.ImagesFor)
}

func (l *Loader) Categories(ctx context.Context, productID int64) ([]*models.Category, error) {
	categories, err := loadBatched(ctx, l, "product.categories", l.categories, productID, l.catalog.CategoriesFor)
	if err != nil {
		return nil, err
	}
	l.PrimeCategories(categories...)
	return categories, nil
}

// Variants returns the variants of a configurable product. Simple products have none
// and issue no query.
func (l *Loader) Variants(ctx context.Context, p *models.Product) ([]*models.Product, error) {
	if !p.IsConfigurable() {
		return []*models.Product{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.variants[p.ID()]; ok {
		return cached, nil
	}
	util.LoaderFetchesTotal.WithLabelValues("product.variants").Inc()
	variants, err := l.catalog.Variants(ctx, p.ID())
	if err != nil {
		return nil, err
	}
	l.variants[p.ID()] = nonNil(variants)
	l.registerLocked(variants)
	return l.variants[p.ID()], nil
}

// Children returns the active direct children of a category
func (l *Loader) Children(ctx context.Context, categoryID int64) ([]*models.Category, error) {
	l.mu.Lock()
	if cached, ok := l.children[categoryID]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	util.LoaderFetchesTotal.WithLabelValues("category.children").Inc()
	children, err := l.catalog.ChildCategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	l.PrimeChildren(categoryID, children)
	return nonNil(children), nil
}

// Category returns the category with id, nil when it does not exist
func (l *Loader) Category(ctx context.Context, id int64) (*models.Category, error) {
	l.mu.Lock()
	if c, ok := l.categoryByID[id]; ok {
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()

	util.LoaderFetchesTotal.WithLabelValues("category.parent").Inc()
	c, err := l.catalog.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.categoryByID[id] = c
	l.mu.Unlock()
	return c, nil
}

// Path returns the breadcrumb from the root down to c. Missing ancestors end the walk
// and a parent cycle stops at the first repeated category.
func (l *Loader) Path(ctx context.Context, c *models.Category) (string, error) {
	names := []string{c.Name()}
	seen := map[int64]bool{c.ID(): true}

	for cur := c; !cur.IsRoot(); {
		parent, err := l.Category(ctx, *cur.ParentID())
		if err != nil {
			return "", err
		}
		if parent == nil || seen[parent.ID()] {
			break
		}
		seen[parent.ID()] = true
		names = append([]string{parent.Name()}, names...)
		cur = parent
	}

	return strings.Join(names, models.PathSeparator), nil
}

// loadBatched returns the cached relation of id, fetching it together with the same
// relation of every other registered product that has not loaded it yet
func loadBatched[T any](
	ctx context.Context,
	l *Loader,
	relation string,
	cache map[int64][]T,
	id int64,
	fetch func(context.Context, []int64) (map[int64][]T, error),
) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := cache[id]; ok {
		return cached, nil
	}

	ids := []int64{id}
	for _, other := range l.productIDs {
		if _, ok := cache[other]; !ok && other != id {
			ids = append(ids, other)
		}
	}

	util.LoaderFetchesTotal.WithLabelValues(relation).Inc()
	util.LoaderBatchSize.WithLabelValues(relation).Observe(float64(len(ids)))

	grouped, err := fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, other := range ids {
		cache[other] = nonNil(grouped[other])
	}
	return cache[id], nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
