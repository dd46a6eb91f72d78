package store

import (
	"context"
	"database/sql"

	"catalog-service/internal/models"
)

const categoryColumns = "c.id, c.name, c.slug, c.description, c.parent_id, c.position, c.is_active, c.created_at, c.updated_at"

type categoryRow struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Slug        string         `db:"slug"`
	Description sql.NullString `db:"description"`
	ParentID    sql.NullInt64  `db:"parent_id"`
	Position    int            `db:"position"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

type productCategoryRow struct {
	ProductID int64 `db:"product_id"`
	categoryRow
}

// CategoryWithChildren is a category with its direct active children attached
type CategoryWithChildren struct {
	Category *models.Category
	Children []*models.Category
}

// CategoryRepository reads and writes the category hierarchy
type CategoryRepository struct {
	crud[*models.Category, categoryRow]
}

// NewCategoryRepository creates a category repository on the shared store
func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{crud[*models.Category, categoryRow]{
		db:      s.db,
		name:    "CategoryRepository",
		table:   "categories",
		alias:   "c",
		columns: categoryColumns,
		hydrate: hydrateCategory,
		extract: extractCategory,
	}}
}

func hydrateCategory(r categoryRow) (*models.Category, error) {
	c, err := models.NewCategory(r.Name, r.Slug)
	if err != nil {
		return nil, err
	}
	// parent before id: stored rows are loaded as they are, even a self parent
	if err := c.SetParentID(nullInt64(r.ParentID)); err != nil {
		return nil, err
	}
	c.SetID(r.ID)
	c.SetDescription(nullString(r.Description))
	if err := c.SetPosition(r.Position); err != nil {
		return nil, err
	}
	c.SetActive(r.IsActive)
	c.SetTimestamps(nullTime(r.CreatedAt), nullTime(r.UpdatedAt))
	return c, nil
}

func extractCategory(c *models.Category) map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name(),
		"slug":        c.Slug(),
		"description": nullable(c.Description()),
		"parent_id":   nullable(c.ParentID()),
		"position":    c.Position(),
		"is_active":   c.IsActive(),
	}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	return r.findByID(ctx, id)
}

func (r *CategoryRepository) FindAll(ctx context.Context, limit *int, offset int) ([]*models.Category, error) {
	return r.findAll(ctx, limit, offset)
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) (*models.Category, error) {
	return r.save(ctx, c)
}

func (r *CategoryRepository) Delete(ctx context.Context, c *models.Category) (bool, error) {
	return r.delete(ctx, c)
}

// FindBySlug returns the category with slug, nil when there is none
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, done := observe(ctx, "CategoryRepository.FindBySlug")
	defer done()

	return r.get(ctx, "SELECT "+categoryColumns+" FROM categories c WHERE c.slug = $1", slug)
}

// FindRootCategories lists active top level categories
func (r *CategoryRepository) FindRootCategories(ctx context.Context) ([]*models.Category, error) {
	ctx, done := observe(ctx, "CategoryRepository.FindRootCategories")
	defer done()

	return r.list(ctx, "SELECT "+categoryColumns+` FROM categories c
		WHERE c.parent_id IS NULL AND c.is_active = TRUE
		ORDER BY c.position, c.name`)
}

// FindChildren lists the active direct children of parentID
func (r *CategoryRepository) FindChildren(ctx context.Context, parentID int64) ([]*models.Category, error) {
	ctx, done := observe(ctx, "CategoryRepository.FindChildren")
	defer done()

	return r.list(ctx, "SELECT "+categoryColumns+` FROM categories c
		WHERE c.parent_id = $1 AND c.is_active = TRUE
		ORDER BY c.position, c.name`, parentID)
}

// FindActive lists every active category, roots first, then by parent, position and name
func (r *CategoryRepository) FindActive(ctx context.Context) ([]*models.Category, error) {
	ctx, done := observe(ctx, "CategoryRepository.FindActive")
	defer done()

	return r.list(ctx, "SELECT "+categoryColumns+` FROM categories c
		WHERE c.is_active = TRUE
		ORDER BY c.parent_id NULLS FIRST, c.position, c.name`)
}

// GetCategoryTree loads the active categories in one pass and indexes them as a tree
func (r *CategoryRepository) GetCategoryTree(ctx context.Context) (*models.CategoryTree, error) {
	categories, err := r.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewCategoryTree(categories), nil
}

// FindByIDWithChildren returns the category with its direct children, nil when absent
func (r *CategoryRepository) FindByIDWithChildren(ctx context.Context, id int64) (*CategoryWithChildren, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return r.withChildren(ctx, c)
}

// FindBySlugWithChildren returns the category with its direct children, nil when absent
func (r *CategoryRepository) FindBySlugWithChildren(ctx context.Context, slug string) (*CategoryWithChildren, error) {
	c, err := r.FindBySlug(ctx, slug)
	if err != nil || c == nil {
		return nil, err
	}
	return r.withChildren(ctx, c)
}

func (r *CategoryRepository) withChildren(ctx context.Context, c *models.Category) (*CategoryWithChildren, error) {
	children, err := r.FindChildren(ctx, c.ID())
	if err != nil {
		return nil, err
	}
	return &CategoryWithChildren{Category: c, Children: children}, nil
}

// FindByProductID lists the active categories a product is assigned to
func (r *CategoryRepository) FindByProductID(ctx context.Context, productID int64) ([]*models.Category, error) {
	grouped, err := r.FindByProductIDs(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	return grouped[productID], nil
}

// FindByProductIDs lists the active categories of several products keyed by product id
func (r *CategoryRepository) FindByProductIDs(ctx context.Context, productIDs []int64) (map[int64][]*models.Category, error) {
	grouped := make(map[int64][]*models.Category, len(productIDs))
	if len(productIDs) == 0 {
		return grouped, nil
	}

	ctx, done := observe(ctx, "CategoryRepository.FindByProductIDs")
	defer done()

	query, args, err := in(r.db, "SELECT pc.product_id, "+categoryColumns+` FROM categories c
		INNER JOIN product_categories pc ON c.id = pc.category_id
		WHERE pc.product_id IN (?) AND c.is_active = TRUE
		ORDER BY pc.product_id, c.name`, productIDs)
	if err != nil {
		return nil, err
	}

	var rows []productCategoryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		c, err := hydrateCategory(row.categoryRow)
		if err != nil {
			return nil, err
		}
		grouped[row.ProductID] = append(grouped[row.ProductID], c)
	}
	return grouped, nil
}
