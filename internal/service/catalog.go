package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/ordernum"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/cache"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

const (
	metaCacheTTL       = 5 * time.Minute
	categoriesCacheKey = "catalog:categories"
	brandsCacheKey     = "catalog:brands"
)

type ProductSearcher interface {
	Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Numbers  *ordernum.Generator
	Events   events.Publisher
	Index    ProductIndexer
	Searcher ProductSearcher
	Cache    *cache.RedisAdapter
	Now      func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func validateProduct(p *models.Product) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(p.Name)); n < 2 || n > 200 {
		return fmt.Errorf("%w: name must be 2-200 characters", ErrValidation)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return fmt.Errorf("%w: original_price must be >= 0", ErrValidation)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, p.Category)
	}
	if strings.TrimSpace(p.Brand) == "" {
		return fmt.Errorf("%w: brand is required", ErrValidation)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("%w: rating must be 0-5", ErrValidation)
	}
	if p.ReviewCount < 0 {
		return fmt.Errorf("%w: review_count must be >= 0", ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return fmt.Errorf("%w: discount must be 0-100", ErrValidation)
	}
	return nil
}

func (s *CatalogService) List(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetActiveProduct(ctx, id)
}

// Search prefers the full-text index and falls back to SQL matching.
func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	if s.Searcher != nil {
		total, items, err := s.Searcher.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "error", err)
	}
	return s.Repo.ListProducts(ctx, repo.ProductFilter{Search: q}, offset, limit)
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Brand:         strings.TrimSpace(req.Brand),
		Image:         req.Image,
		Images:        req.Images,
		Specs:         req.Specs,
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
		Stock:         req.Stock,
		SKU:           strings.TrimSpace(req.SKU),
		IsActive:      true,
		Discount:      req.Discount,
		Tags:          req.Tags,
		Features:      req.Features,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if p.SKU == "" {
		numbers := s.Numbers
		if numbers == nil {
			numbers = ordernum.New()
		}
		sku, err := numbers.SKU()
		if err != nil {
			return nil, err
		}
		p.SKU = sku
	}

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: sku %s already exists", ErrConflict, p.SKU)
		}
		return nil, err
	}
	s.changed(ctx, events.ProductCreated, p)
	return p, nil
}

func (s *CatalogService) Patch(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Brand != nil {
		p.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.Specs != nil {
		p.Specs = *req.Specs
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if req.ReviewCount != nil {
		p.ReviewCount = *req.ReviewCount
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.Features != nil {
		p.Features = *req.Features
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.changed(ctx, events.ProductUpdated, p)
	return p, nil
}

func (s *CatalogService) Deactivate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.DeactivateProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, events.ProductDeactivated, p)
	return p, nil
}

func (s *CatalogService) changed(ctx context.Context, kind string, p *models.Product) {
	ctx = context.WithoutCancel(ctx)
	l := logging.FromContext(ctx)

	events.Emit(ctx, s.Events, events.TopicProducts, p.ID.String(), events.ProductEvent{
		Type: kind, ProductID: p.ID.String(), SKU: p.SKU, Stock: p.Stock, IsActive: p.IsActive, OccurredAt: s.now(),
	})
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, p); err != nil {
			l.Error("index_product_error", "product_id", p.ID.String(), "error", err)
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, categoriesCacheKey, brandsCacheKey); err != nil {
			l.Warn("cache_invalidate_error", "error", err)
		}
	}
}

func (s *CatalogService) cached(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	l := logging.FromContext(ctx)
	if s.Cache != nil {
		var out []string
		err := s.Cache.GetJSON(ctx, key, &out)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l.Warn("cache_get_error", "key", key, "error", err)
		}
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, key, out, metaCacheTTL); err != nil {
			l.Warn("cache_set_error", "key", key, "error", err)
		}
	}
	return out, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.cached(ctx, categoriesCacheKey, s.Repo.Categories)
}

func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	return s.cached(ctx, brandsCacheKey, s.Repo.Brands)
}
