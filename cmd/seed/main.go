package main

import (
	"context"
	"log"
	"time"

	"catalog-service/config"
	"catalog-service/internal/models"
	"catalog-service/internal/store"
	"catalog-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seeder struct {
	products      *store.ProductRepository
	categories    *store.CategoryRepository
	attributes    *store.AttributeRepository
	attributeSets *store.AttributeSetRepository
}

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()
	cfg.Log(logger)

	db, err := store.NewStore(cfg.Database.URL, store.DefaultOptions)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	attributes := store.NewAttributeRepository(db)
	s := &seeder{
		products:      store.NewProductRepository(db),
		categories:    store.NewCategoryRepository(db),
		attributes:    attributes,
		attributeSets: store.NewAttributeSetRepository(db, attributes),
	}

	n, err := s.products.Count(ctx)
	if err != nil {
		logger.Fatal("Failed to count products", zap.Error(err))
	}
	if n > 0 {
		logger.Info("Catalog already seeded", zap.Int("products", n))
		return
	}

	if err := s.run(ctx); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Catalog seeded")
}

func (s *seeder) run(ctx context.Context) error {
	clothing, err := s.category(ctx, "Clothing", "clothing", nil, 0)
	if err != nil {
		return err
	}
	men, err := s.category(ctx, "Men", "men", clothing, 0)
	if err != nil {
		return err
	}
	women, err := s.category(ctx, "Women", "women", clothing, 1)
	if err != nil {
		return err
	}
	shirts, err := s.category(ctx, "Shirts", "men-shirts", men, 0)
	if err != nil {
		return err
	}

	set, err := models.NewAttributeSet("Apparel")
	if err != nil {
		return err
	}
	if _, err := s.attributeSets.Save(ctx, set); err != nil {
		return err
	}

	color, err := s.attribute(ctx, set, "Color", "color", models.AttributeTypeSelect, "Black", "White", "Navy")
	if err != nil {
		return err
	}
	size, err := s.attribute(ctx, set, "Size", "size", models.AttributeTypeSelect, "S", "M", "L")
	if err != nil {
		return err
	}
	material, err := s.attribute(ctx, set, "Material", "material", models.AttributeTypeText)
	if err != nil {
		return err
	}

	tee, err := s.product(ctx, "TEE-BASIC", "Basic Tee", "19.90", nil, 120, set)
	if err != nil {
		return err
	}
	sale := decimal.RequireFromString("14.90")
	dress, err := s.product(ctx, "DRESS-SUMMER", "Summer Dress", "59.00", &sale, 8, set)
	if err != nil {
		return err
	}
	oxford, err := s.product(ctx, "SHIRT-OXFORD", "Oxford Shirt", "45.00", nil, 0, set)
	if err != nil {
		return err
	}
	if err := oxford.SetProductType(models.ProductTypeConfigurable); err != nil {
		return err
	}
	if _, err := s.products.Save(ctx, oxford); err != nil {
		return err
	}

	if err := s.products.AssignCategories(ctx, tee.ID(), clothing.ID(), men.ID()); err != nil {
		return err
	}
	if err := s.products.AssignCategories(ctx, dress.ID(), clothing.ID(), women.ID()); err != nil {
		return err
	}
	if err := s.products.AssignCategories(ctx, oxford.ID(), men.ID(), shirts.ID()); err != nil {
		return err
	}

	values := []*models.AttributeValue{
		models.NewAttributeValue(tee.ID(), color.ID(), "Black"),
		models.NewAttributeValue(tee.ID(), size.ID(), "M"),
		models.NewAttributeValue(tee.ID(), material.ID(), "Cotton"),
		models.NewAttributeValue(dress.ID(), color.ID(), "White"),
		models.NewAttributeValue(dress.ID(), material.ID(), "Linen"),
		models.NewAttributeValue(oxford.ID(), color.ID(), "Navy"),
	}
	for _, v := range values {
		if err := s.products.SaveAttributeValue(ctx, v); err != nil {
			return err
		}
	}

	for i, p := range []*models.Product{tee, dress, oxford} {
		img, err := models.NewProductImage(p.ID(), "https://cdn.example.com/catalog/"+p.SKU()+".jpg")
		if err != nil {
			return err
		}
		img.SetPrimary(true)
		img.SetPosition(i)
		if err := s.products.SaveImage(ctx, img); err != nil {
			return err
		}
	}

	for _, sz := range []string{"S", "M", "L"} {
		variant, err := s.product(ctx, "SHIRT-OXFORD-"+sz, "Oxford Shirt "+sz, "45.00", nil, 10, set)
		if err != nil {
			return err
		}
		if err := s.products.SaveAttributeValue(ctx, models.NewAttributeValue(variant.ID(), size.ID(), sz)); err != nil {
			return err
		}
		if err := s.products.AddVariant(ctx, oxford.ID(), variant.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) category(ctx context.Context, name, slug string, parent *models.Category, position int) (*models.Category, error) {
	c, err := models.NewCategory(name, slug)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		id := parent.ID()
		if err := c.SetParentID(&id); err != nil {
			return nil, err
		}
	}
	if err := c.SetPosition(position); err != nil {
		return nil, err
	}
	return s.categories.Save(ctx, c)
}

func (s *seeder) attribute(ctx context.Context, set *models.AttributeSet, name, code, attributeType string, options ...string) (*models.Attribute, error) {
	a, err := models.NewAttribute(name, code, attributeType)
	if err != nil {
		return nil, err
	}
	if _, err := s.attributes.Save(ctx, a); err != nil {
		return nil, err
	}
	if err := s.attributeSets.AddAttribute(ctx, set.ID(), a.ID()); err != nil {
		return nil, err
	}
	for i, value := range options {
		o, err := models.NewAttributeOption(a.ID(), value, i)
		if err != nil {
			return nil, err
		}
		if err := s.attributes.SaveOption(ctx, o); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (s *seeder) product(ctx context.Context, sku, name, price string, special *decimal.Decimal, qty int, set *models.AttributeSet) (*models.Product, error) {
	p, err := models.NewProduct(sku, name, decimal.RequireFromString(price), set.ID())
	if err != nil {
		return nil, err
	}
	if err := p.SetSpecialPrice(special); err != nil {
		return nil, err
	}
	if err := p.SetStockQuantity(qty); err != nil {
		return nil, err
	}
	return s.products.Save(ctx, p)
}
