package store

import (
	"context"
	"database/sql"
	"strings"

	"catalog-service/internal/models"
)

const attributeColumns = "a.id, a.name, a.code, a.type, a.created_at, a.updated_at"

type attributeRow struct {
	ID        int64        `db:"id"`
	Name      string       `db:"name"`
	Code      string       `db:"code"`
	Type      string       `db:"type"`
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

type optionRow struct {
	ID           int64  `db:"id"`
	AttributeID  int64  `db:"attribute_id"`
	Value        string `db:"value"`
	DisplayOrder int    `db:"display_order"`
}

// AttributeWithOptions is an attribute with its options attached. Text attributes have none.
type AttributeWithOptions struct {
	Attribute *models.Attribute
	Options   []*models.AttributeOption
}

// OptionValues returns the option values in display order
func (a AttributeWithOptions) OptionValues() []string {
	values := make([]string, 0, len(a.Options))
	for _, o := range a.Options {
		values = append(values, o.Value())
	}
	return values
}

// AttributeRepository reads and writes attribute definitions and their options
type AttributeRepository struct {
	crud[*models.Attribute, attributeRow]
}

// NewAttributeRepository creates an attribute repository on the shared store
func NewAttributeRepository(s *Store) *AttributeRepository {
	return &AttributeRepository{crud[*models.Attribute, attributeRow]{
		db:      s.db,
		name:    "AttributeRepository",
		table:   "attributes",
		alias:   "a",
		columns: attributeColumns,
		hydrate: hydrateAttribute,
		extract: extractAttribute,
	}}
}

func hydrateAttribute(r attributeRow) (*models.Attribute, error) {
	a, err := models.NewAttribute(r.Name, r.Code, r.Type)
	if err != nil {
		return nil, err
	}
	a.SetID(r.ID)
	a.SetTimestamps(nullTime(r.CreatedAt), nullTime(r.UpdatedAt))
	return a, nil
}

func extractAttribute(a *models.Attribute) map[string]interface{} {
	return map[string]interface{}{
		"name": a.Name(),
		"code": a.Code(),
		"type": a.Type(),
	}
}

func hydrateOption(r optionRow) (*models.AttributeOption, error) {
	o, err := models.NewAttributeOption(r.AttributeID, r.Value, r.DisplayOrder)
	if err != nil {
		return nil, err
	}
	o.SetID(r.ID)
	return o, nil
}

func (r *AttributeRepository) FindByID(ctx context.Context, id int64) (*models.Attribute, error) {
	return r.findByID(ctx, id)
}

func (r *AttributeRepository) FindAll(ctx context.Context, limit *int, offset int) ([]*models.Attribute, error) {
	return r.findAll(ctx, limit, offset)
}

func (r *AttributeRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

func (r *AttributeRepository) Save(ctx context.Context, a *models.Attribute) (*models.Attribute, error) {
	return r.save(ctx, a)
}

func (r *AttributeRepository) Delete(ctx context.Context, a *models.Attribute) (bool, error) {
	return r.delete(ctx, a)
}

// FindByCode returns the attribute with code, nil when there is none
func (r *AttributeRepository) FindByCode(ctx context.Context, code string) (*models.Attribute, error) {
	ctx, done := observe(ctx, "AttributeRepository.FindByCode")
	defer done()

	return r.get(ctx, "SELECT "+attributeColumns+" FROM attributes a WHERE a.code = $1", code)
}

// FindByAttributeSetID lists the attributes grouped under an attribute set by name
func (r *AttributeRepository) FindByAttributeSetID(ctx context.Context, setID int64) ([]*models.Attribute, error) {
	ctx, done := observe(ctx, "AttributeRepository.FindByAttributeSetID")
	defer done()

	return r.list(ctx, "SELECT "+attributeColumns+` FROM attributes a
		INNER JOIN attribute_set_items asi ON a.id = asi.attribute_id
		WHERE asi.attribute_set_id = $1
		ORDER BY a.name`, setID)
}

// LoadOptions returns the options of a select attribute. Text attributes issue no query.
func (r *AttributeRepository) LoadOptions(ctx context.Context, a *models.Attribute) ([]*models.AttributeOption, error) {
	grouped, err := r.LoadOptionsFor(ctx, []*models.Attribute{a})
	if err != nil {
		return nil, err
	}
	return grouped[a.ID()], nil
}

// LoadOptionsFor returns the options of the select attributes among attrs keyed by attribute id
func (r *AttributeRepository) LoadOptionsFor(ctx context.Context, attrs []*models.Attribute) (map[int64][]*models.AttributeOption, error) {
	grouped := make(map[int64][]*models.AttributeOption)
	ids := make([]int64, 0, len(attrs))
	for _, a := range attrs {
		if a.IsSelectType() {
			ids = append(ids, a.ID())
		}
	}
	if len(ids) == 0 {
		return grouped, nil
	}

	ctx, done := observe(ctx, "AttributeRepository.LoadOptions")
	defer done()

	query, args, err := in(r.db, `SELECT id, attribute_id, value, display_order
		FROM attribute_options
		WHERE attribute_id IN (?)
		ORDER BY attribute_id, display_order, value`, ids)
	if err != nil {
		return nil, err
	}

	var rows []optionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		o, err := hydrateOption(row)
		if err != nil {
			return nil, err
		}
		grouped[row.AttributeID] = append(grouped[row.AttributeID], o)
	}
	return grouped, nil
}

// FindByIDWithOptions returns the attribute with its options, nil when absent
func (r *AttributeRepository) FindByIDWithOptions(ctx context.Context, id int64) (*AttributeWithOptions, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	options, err := r.LoadOptions(ctx, a)
	if err != nil {
		return nil, err
	}
	return &AttributeWithOptions{Attribute: a, Options: options}, nil
}

// FindByAttributeSetIDWithOptions lists the attributes of a set with their options attached
func (r *AttributeRepository) FindByAttributeSetIDWithOptions(ctx context.Context, setID int64) ([]AttributeWithOptions, error) {
	attrs, err := r.FindByAttributeSetID(ctx, setID)
	if err != nil {
		return nil, err
	}
	options, err := r.LoadOptionsFor(ctx, attrs)
	if err != nil {
		return nil, err
	}

	out := make([]AttributeWithOptions, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, AttributeWithOptions{Attribute: a, Options: options[a.ID()]})
	}
	return out, nil
}

// GetUsedValues lists the distinct values an attribute takes across active products,
// optionally restricted to one category
func (r *AttributeRepository) GetUsedValues(ctx context.Context, attributeID int64, categoryID *int64) ([]string, error) {
	ctx, done := observe(ctx, "AttributeRepository.GetUsedValues")
	defer done()

	var sb strings.Builder
	sb.WriteString(`SELECT DISTINCT pav.value FROM product_attribute_values pav
		INNER JOIN products p ON pav.product_id = p.id`)
	args := []interface{}{attributeID}
	if categoryID != nil {
		sb.WriteString(" INNER JOIN product_categories pc ON p.id = pc.product_id")
	}
	sb.WriteString(" WHERE pav.attribute_id = $1 AND p.is_active = TRUE")
	if categoryID != nil {
		sb.WriteString(" AND pc.category_id = $2")
		args = append(args, *categoryID)
	}
	sb.WriteString(" ORDER BY pav.value")

	values := []string{}
	err := r.db.SelectContext(ctx, &values, sb.String(), args...)
	return values, err
}
