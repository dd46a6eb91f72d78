package store

import (
	"context"

	"catalog-service/internal/models"
)

// AssignCategories links a product to categories, ignoring links that already exist
func (r *ProductRepository) AssignCategories(ctx context.Context, productID int64, categoryIDs ...int64) error {
	ctx, done := observe(ctx, "ProductRepository.AssignCategories")
	defer done()

	for _, categoryID := range categoryIDs {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO product_categories (product_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, productID, categoryID)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveAttributeValue stores the value of one product attribute, replacing the previous one
func (r *ProductRepository) SaveAttributeValue(ctx context.Context, v *models.AttributeValue) error {
	ctx, done := observe(ctx, "ProductRepository.SaveAttributeValue")
	defer done()

	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO product_attribute_values (product_id, attribute_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, attribute_id) DO UPDATE SET value = EXCLUDED.value
		RETURNING id`, v.ProductID(), v.AttributeID(), v.Value())
	if err != nil {
		return err
	}
	v.SetID(id)
	return nil
}

// SaveImage inserts a product image
func (r *ProductRepository) SaveImage(ctx context.Context, img *models.ProductImage) error {
	ctx, done := observe(ctx, "ProductRepository.SaveImage")
	defer done()

	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO product_images (product_id, url, alt_text, position, is_primary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		img.ProductID(), img.URL(), nullable(img.AltText()), img.Position(), img.IsPrimary())
	if err != nil {
		return err
	}
	img.SetID(id)
	return nil
}

// AddVariant registers variantID as a child of the configurable product parentID
func (r *ProductRepository) AddVariant(ctx context.Context, parentID, variantID int64) error {
	ctx, done := observe(ctx, "ProductRepository.AddVariant")
	defer done()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_variants (parent_product_id, variant_product_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, parentID, variantID)
	return err
}

// SaveOption inserts an option of a select attribute
func (r *AttributeRepository) SaveOption(ctx context.Context, o *models.AttributeOption) error {
	ctx, done := observe(ctx, "AttributeRepository.SaveOption")
	defer done()

	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO attribute_options (attribute_id, value, display_order)
		VALUES ($1, $2, $3)
		RETURNING id`, o.AttributeID(), o.Value(), o.DisplayOrder())
	if err != nil {
		return err
	}
	o.SetID(id)
	return nil
}

// AddAttribute groups an attribute under an attribute set
func (r *AttributeSetRepository) AddAttribute(ctx context.Context, setID, attributeID int64) error {
	ctx, done := observe(ctx, "AttributeSetRepository.AddAttribute")
	defer done()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attribute_set_items (attribute_set_id, attribute_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, setID, attributeID)
	return err
}
