package store

import (
	"context"
	"database/sql"

	"catalog-service/internal/models"
)

const attributeSetColumns = "s.id, s.name, s.created_at, s.updated_at"

type attributeSetRow struct {
	ID        int64        `db:"id"`
	Name      string       `db:"name"`
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

// AttributeSetWithAttributes is an attribute set with its attributes and their options
type AttributeSetWithAttributes struct {
	Set        *models.AttributeSet
	Attributes []AttributeWithOptions
}

// AttributeSetRepository reads and writes attribute sets
type AttributeSetRepository struct {
	crud[*models.AttributeSet, attributeSetRow]
	attributes *AttributeRepository
}

// NewAttributeSetRepository creates an attribute set repository. Attribute lists are
// composed through attributes.
func NewAttributeSetRepository(s *Store, attributes *AttributeRepository) *AttributeSetRepository {
	return &AttributeSetRepository{
		crud: crud[*models.AttributeSet, attributeSetRow]{
			db:      s.db,
			name:    "AttributeSetRepository",
			table:   "attribute_sets",
			alias:   "s",
			columns: attributeSetColumns,
			hydrate: hydrateAttributeSet,
			extract: extractAttributeSet,
		},
		attributes: attributes,
	}
}

func hydrateAttributeSet(r attributeSetRow) (*models.AttributeSet, error) {
	s, err := models.NewAttributeSet(r.Name)
	if err != nil {
		return nil, err
	}
	s.SetID(r.ID)
	s.SetTimestamps(nullTime(r.CreatedAt), nullTime(r.UpdatedAt))
	return s, nil
}

func extractAttributeSet(s *models.AttributeSet) map[string]interface{} {
	return map[string]interface{}{
		"name": s.Name(),
	}
}

func (r *AttributeSetRepository) FindByID(ctx context.Context, id int64) (*models.AttributeSet, error) {
	return r.findByID(ctx, id)
}

func (r *AttributeSetRepository) FindAll(ctx context.Context, limit *int, offset int) ([]*models.AttributeSet, error) {
	return r.findAll(ctx, limit, offset)
}

func (r *AttributeSetRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

func (r *AttributeSetRepository) Save(ctx context.Context, s *models.AttributeSet) (*models.AttributeSet, error) {
	return r.save(ctx, s)
}

func (r *AttributeSetRepository) Delete(ctx context.Context, s *models.AttributeSet) (bool, error) {
	return r.delete(ctx, s)
}

// FindByName returns the attribute set called name, nil when there is none
func (r *AttributeSetRepository) FindByName(ctx context.Context, name string) (*models.AttributeSet, error) {
	ctx, done := observe(ctx, "AttributeSetRepository.FindByName")
	defer done()

	return r.get(ctx, "SELECT "+attributeSetColumns+" FROM attribute_sets s WHERE s.name = $1", name)
}

// FindByIDWithAttributes returns the set with its attributes and options, nil when absent
func (r *AttributeSetRepository) FindByIDWithAttributes(ctx context.Context, id int64) (*AttributeSetWithAttributes, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return r.withAttributes(ctx, s)
}

// FindAllWithAttributes lists every attribute set by name with attributes and options attached
func (r *AttributeSetRepository) FindAllWithAttributes(ctx context.Context) ([]*AttributeSetWithAttributes, error) {
	ctx, done := observe(ctx, "AttributeSetRepository.FindAllWithAttributes")
	defer done()

	sets, err := r.list(ctx, "SELECT "+attributeSetColumns+" FROM attribute_sets s ORDER BY s.name")
	if err != nil {
		return nil, err
	}

	out := make([]*AttributeSetWithAttributes, 0, len(sets))
	for _, s := range sets {
		full, err := r.withAttributes(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}

func (r *AttributeSetRepository) withAttributes(ctx context.Context, s *models.AttributeSet) (*AttributeSetWithAttributes, error) {
	attrs, err := r.attributes.FindByAttributeSetIDWithOptions(ctx, s.ID())
	if err != nil {
		return nil, err
	}
	return &AttributeSetWithAttributes{Set: s, Attributes: attrs}, nil
}
