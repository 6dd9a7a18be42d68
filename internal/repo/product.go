package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
)

type ProductFilter struct {
	Category  string
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	SortBy    string
	SortOrder string
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
	"rating":     "rating",
	"stock":      "stock",
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ? OR LOWER(brand) LIKE ?",
			like, like, like, like)
	}
	return q
}

func (f ProductFilter) order() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir + ", id ASC"
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs returns the products keyed by id; missing ids are absent.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Product, len(items))
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Product{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Product{})).
		Order(f.order()).
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(prod).Error)
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return translate(r.DB.WithContext(ctx).Save(prod).Error)
}

func (r *GormRepo) DeactivateProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) distinct(ctx context.Context, column string) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct(column).
		Order(column+" ASC").
		Pluck(column, &out).Error
	return out, err
}

func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *GormRepo) Brands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}
