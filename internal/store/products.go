package store

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-service/internal/models"

	"github.com/shopspring/decimal"
)

const productColumns = "p.id, p.sku, p.name, p.description, p.price, p.special_price, p.product_type, " +
	"p.attribute_set_id, p.stock_quantity, p.stock_status, p.is_active, p.created_at, p.updated_at"

type productRow struct {
	ID             int64               `db:"id"`
	SKU            string              `db:"sku"`
	Name           string              `db:"name"`
	Description    sql.NullString      `db:"description"`
	Price          decimal.Decimal     `db:"price"`
	SpecialPrice   decimal.NullDecimal `db:"special_price"`
	ProductType    string              `db:"product_type"`
	AttributeSetID int64               `db:"attribute_set_id"`
	StockQuantity  int                 `db:"stock_quantity"`
	StockStatus    string              `db:"stock_status"`
	IsActive       bool                `db:"is_active"`
	CreatedAt      sql.NullTime        `db:"created_at"`
	UpdatedAt      sql.NullTime        `db:"updated_at"`
}

type attributeValueRow struct {
	ID            int64          `db:"id"`
	ProductID     int64          `db:"product_id"`
	AttributeID   int64          `db:"attribute_id"`
	Value         string         `db:"value"`
	AttributeName sql.NullString `db:"attribute_name"`
	AttributeCode sql.NullString `db:"attribute_code"`
}

type imageRow struct {
	ID        int64          `db:"id"`
	ProductID int64          `db:"product_id"`
	URL       string         `db:"url"`
	AltText   sql.NullString `db:"alt_text"`
	Position  int            `db:"position"`
	IsPrimary bool           `db:"is_primary"`
}

// ProductWithRelations is a product with its attribute values and images attached
type ProductWithRelations struct {
	Product         *models.Product
	AttributeValues []*models.AttributeValue
	Images          []*models.ProductImage
}

// ProductRepository reads and writes products and their EAV values and images
type ProductRepository struct {
	crud[*models.Product, productRow]
}

// NewProductRepository creates a product repository on the shared store
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{crud[*models.Product, productRow]{
		db:      s.db,
		name:    "ProductRepository",
		table:   "products",
		alias:   "p",
		columns: productColumns,
		hydrate: hydrateProduct,
		extract: extractProduct,
	}}
}

func hydrateProduct(r productRow) (*models.Product, error) {
	p, err := models.NewProduct(r.SKU, r.Name, r.Price, r.AttributeSetID)
	if err != nil {
		return nil, err
	}
	p.SetID(r.ID)
	p.SetDescription(nullString(r.Description))
	if r.SpecialPrice.Valid {
		special := r.SpecialPrice.Decimal
		if err := p.SetSpecialPrice(&special); err != nil {
			return nil, err
		}
	}
	if err := p.SetProductType(r.ProductType); err != nil {
		return nil, err
	}
	if err := p.SetStockQuantity(r.StockQuantity); err != nil {
		return nil, err
	}
	// the stored status wins over the one derived from quantity
	if err := p.SetStockStatus(r.StockStatus); err != nil {
		return nil, err
	}
	p.SetActive(r.IsActive)
	p.SetTimestamps(nullTime(r.CreatedAt), nullTime(r.UpdatedAt))
	return p, nil
}

func extractProduct(p *models.Product) map[string]interface{} {
	return map[string]interface{}{
		"sku":              p.SKU(),
		"name":             p.Name(),
		"description":      nullable(p.Description()),
		"price":            p.Price(),
		"special_price":    nullable(p.SpecialPrice()),
		"product_type":     p.ProductType(),
		"attribute_set_id": p.AttributeSetID(),
		"stock_quantity":   p.StockQuantity(),
		"stock_status":     p.StockStatus(),
		"is_active":        p.IsActive(),
	}
}

func hydrateAttributeValue(r attributeValueRow) *models.AttributeValue {
	v := models.NewAttributeValue(r.ProductID, r.AttributeID, r.Value)
	v.SetID(r.ID)
	if r.AttributeName.Valid && r.AttributeCode.Valid {
		v.SetAttributeInfo(r.AttributeName.String, r.AttributeCode.String)
	}
	return v
}

func hydrateImage(r imageRow) (*models.ProductImage, error) {
	img, err := models.NewProductImage(r.ProductID, r.URL)
	if err != nil {
		return nil, err
	}
	img.SetID(r.ID)
	img.SetAltText(nullString(r.AltText))
	img.SetPosition(r.Position)
	img.SetPrimary(r.IsPrimary)
	return img, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.findByID(ctx, id)
}

func (r *ProductRepository) FindAll(ctx context.Context, limit *int, offset int) ([]*models.Product, error) {
	return r.findAll(ctx, limit, offset)
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) (*models.Product, error) {
	return r.save(ctx, p)
}

func (r *ProductRepository) Delete(ctx context.Context, p *models.Product) (bool, error) {
	return r.delete(ctx, p)
}

// FindBySKU returns the product with sku, nil when there is none
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	ctx, done := observe(ctx, "ProductRepository.FindBySKU")
	defer done()

	return r.get(ctx, "SELECT "+productColumns+" FROM products p WHERE p.sku = $1", sku)
}

// FindActive lists active products, newest first
func (r *ProductRepository) FindActive(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	ctx, done := observe(ctx, "ProductRepository.FindActive")
	defer done()

	return r.list(ctx, "SELECT "+productColumns+` FROM products p
		WHERE p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
}

// FindByCategory lists the active products assigned to categoryID, newest first
func (r *ProductRepository) FindByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Product, error) {
	ctx, done := observe(ctx, "ProductRepository.FindByCategory")
	defer done()

	return r.list(ctx, "SELECT "+productColumns+` FROM products p
		INNER JOIN product_categories pc ON p.id = pc.product_id
		WHERE pc.category_id = $1 AND p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`, categoryID, limit, offset)
}

// FindWithFilters lists active products matching every constraint of f, newest first
func (r *ProductRepository) FindWithFilters(ctx context.Context, f ProductFilter, limit, offset int) ([]*models.Product, error) {
	ctx, done := observe(ctx, "ProductRepository.FindWithFilters")
	defer done()

	where, args := f.predicate().compile()
	query := fmt.Sprintf("SELECT DISTINCT %s FROM products p%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		productColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.list(ctx, query, args...)
}

// CountWithFilters counts the distinct products FindWithFilters would page through
func (r *ProductRepository) CountWithFilters(ctx context.Context, f ProductFilter) (int, error) {
	ctx, done := observe(ctx, "ProductRepository.CountWithFilters")
	defer done()

	where, args := f.predicate().compile()
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(DISTINCT p.id) FROM products p"+where, args...)
	return n, err
}

// FindByIDWithRelations returns the product with its attribute values and images
func (r *ProductRepository) FindByIDWithRelations(ctx context.Context, id int64) (*ProductWithRelations, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}

	values, err := r.LoadAttributeValues(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := r.LoadImages(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductWithRelations{Product: p, AttributeValues: values, Images: images}, nil
}

const attributeValueQuery = `SELECT pav.id, pav.product_id, pav.attribute_id, pav.value,
		a.name AS attribute_name, a.code AS attribute_code
	FROM product_attribute_values pav
	INNER JOIN attributes a ON pav.attribute_id = a.id`

// LoadAttributeValues returns the EAV values of one product with attribute names joined in
func (r *ProductRepository) LoadAttributeValues(ctx context.Context, productID int64) ([]*models.AttributeValue, error) {
	grouped, err := r.LoadAttributeValuesFor(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	return grouped[productID], nil
}

// LoadAttributeValuesFor returns the EAV values of several products keyed by product id
func (r *ProductRepository) LoadAttributeValuesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.AttributeValue, error) {
	grouped := make(map[int64][]*models.AttributeValue, len(productIDs))
	if len(productIDs) == 0 {
		return grouped, nil
	}

	ctx, done := observe(ctx, "ProductRepository.LoadAttributeValues")
	defer done()

	query, args, err := in(r.db, attributeValueQuery+" WHERE pav.product_id IN (?) ORDER BY pav.product_id, a.name", productIDs)
	if err != nil {
		return nil, err
	}

	var rows []attributeValueRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.ProductID] = append(grouped[row.ProductID], hydrateAttributeValue(row))
	}
	return grouped, nil
}

// LoadImages returns the images of one product ordered by position
func (r *ProductRepository) LoadImages(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	grouped, err := r.LoadImagesFor(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	return grouped[productID], nil
}

// LoadImagesFor returns the images of several products keyed by product id
func (r *ProductRepository) LoadImagesFor(ctx context.Context, productIDs []int64) (map[int64][]*models.ProductImage, error) {
	grouped := make(map[int64][]*models.ProductImage, len(productIDs))
	if len(productIDs) == 0 {
		return grouped, nil
	}

	ctx, done := observe(ctx, "ProductRepository.LoadImages")
	defer done()

	query, args, err := in(r.db, `SELECT id, product_id, url, alt_text, position, is_primary
		FROM product_images
		WHERE product_id IN (?)
		ORDER BY product_id, position, id`, productIDs)
	if err != nil {
		return nil, err
	}

	var rows []imageRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		img, err := hydrateImage(row)
		if err != nil {
			return nil, err
		}
		grouped[row.ProductID] = append(grouped[row.ProductID], img)
	}
	return grouped, nil
}

// FindVariants returns the child products of a configurable product
func (r *ProductRepository) FindVariants(ctx context.Context, parentID int64) ([]*models.Product, error) {
	ctx, done := observe(ctx, "ProductRepository.FindVariants")
	defer done()

	return r.list(ctx, "SELECT "+productColumns+` FROM products p
		INNER JOIN product_variants pv ON p.id = pv.variant_product_id
		WHERE pv.parent_product_id = $1
		ORDER BY p.id`, parentID)
}
