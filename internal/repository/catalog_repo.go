package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/pkg/pagination"
)

// SupplierRepository is the data access layer for registered suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, onlyActive bool, page, limit int) ([]model.Supplier, int64, error)
	Save(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, s *model.Supplier) error
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, s *model.Supplier) error {
	return GetDB(ctx, r.db).Create(s).Error
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	if err := GetDB(ctx, r.db).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context, onlyActive bool, page, limit int) ([]model.Supplier, int64, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.Supplier{})
	if onlyActive {
		query = query.Where("activo = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var suppliers []model.Supplier
	fetch := db.Order("nombre_empresa")
	if onlyActive {
		fetch = fetch.Where("activo = true")
	}
	if err := fetch.Scopes(pagination.Normalize(page, limit).Scope()).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

func (r *supplierRepository) Save(ctx context.Context, s *model.Supplier) error {
	return GetDB(ctx, r.db).Save(s).Error
}

func (r *supplierRepository) Delete(ctx context.Context, s *model.Supplier) error {
	return GetDB(ctx, r.db).Delete(s).Error
}

// ProductRepository is the data access layer for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, onlyActive bool, page, limit int) ([]model.Product, int64, error)
	Save(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, p *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := GetDB(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, onlyActive bool, page, limit int) ([]model.Product, int64, error) {
	db := GetDB(ctx, r.db)
	query := db.Model(&model.Product{})
	if onlyActive {
		query = query.Where("activo = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	fetch := db.Order("nombre")
	if onlyActive {
		fetch = fetch.Where("activo = true")
	}
	if err := fetch.Scopes(pagination.Normalize(page, limit).Scope()).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) Save(ctx context.Context, p *model.Product) error {
	return GetDB(ctx, r.db).Save(p).Error
}

func (r *productRepository) Delete(ctx context.Context, p *model.Product) error {
	return GetDB(ctx, r.db).Delete(p).Error
}
