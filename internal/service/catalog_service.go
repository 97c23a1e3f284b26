package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/repository"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

type SupplierRequest struct {
	Codigo             string `json:"codigo" binding:"required"`
	NombreEmpresa      string `json:"nombre_empresa" binding:"required"`
	Direccion          string `json:"direccion"`
	Telefono           string `json:"telefono"`
	DatosTransferencia string `json:"datos_transferencia"`
	Entidad            string `json:"entidad"`
	NroCuenta          string `json:"nro_cuenta"`
	CI                 string `json:"ci"`
	NIT                string `json:"nit"`
	Descripcion        string `json:"descripcion"`
	Activo             *bool  `json:"activo"`
}

type ProductRequest struct {
	Nombre string `json:"nombre" binding:"required"`
	Unidad string `json:"unidad"`
	Activo *bool  `json:"activo"`
}

// CatalogService manages the supplier and product masters the quotes draw
// from. Entries referenced by any document cannot be deleted, only
// deactivated.
type CatalogService interface {
	CreateSupplier(ctx context.Context, actor workflow.Actor, req SupplierRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, onlyActive bool, page, limit int) ([]model.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, actor workflow.Actor, id uuid.UUID, req SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, actor workflow.Actor, id uuid.UUID) error

	CreateProduct(ctx context.Context, actor workflow.Actor, req ProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, onlyActive bool, page, limit int) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, actor workflow.Actor, id uuid.UUID, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
}

type catalogService struct {
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	quotes    repository.QuoteRepository
	orders    repository.PaymentOrderRepository
}

func NewCatalogService(
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	quotes repository.QuoteRepository,
	orders repository.PaymentOrderRepository,
) CatalogService {
	return &catalogService{
		suppliers: suppliers,
		products:  products,
		quotes:    quotes,
		orders:    orders,
	}
}

func requireCatalogWrite(actor workflow.Actor, action string) error {
	if !actor.CanCreate() {
		return &workflow.PermissionError{Action: action, Reason: "creator capability required"}
	}
	return nil
}

func (s *catalogService) CreateSupplier(ctx context.Context, actor workflow.Actor, req SupplierRequest) (*model.Supplier, error) {
	if err := requireCatalogWrite(actor, "create supplier"); err != nil {
		return nil, err
	}

	sup := &model.Supplier{
		Codigo:             req.Codigo,
		NombreEmpresa:      req.NombreEmpresa,
		Direccion:          req.Direccion,
		Telefono:           req.Telefono,
		DatosTransferencia: req.DatosTransferencia,
		Entidad:            req.Entidad,
		NroCuenta:          req.NroCuenta,
		CI:                 req.CI,
		NIT:                req.NIT,
		Descripcion:        req.Descripcion,
		Activo:             true,
	}
	if req.Activo != nil {
		sup.Activo = *req.Activo
	}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return sup, nil
}

func (s *catalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

func (s *catalogService) ListSuppliers(ctx context.Context, onlyActive bool, page, limit int) ([]model.Supplier, int64, error) {
	return s.suppliers.List(ctx, onlyActive, page, limit)
}

func (s *catalogService) UpdateSupplier(ctx context.Context, actor workflow.Actor, id uuid.UUID, req SupplierRequest) (*model.Supplier, error) {
	if err := requireCatalogWrite(actor, "update supplier"); err != nil {
		return nil, err
	}

	sup, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sup.Codigo = req.Codigo
	sup.NombreEmpresa = req.NombreEmpresa
	sup.Direccion = req.Direccion
	sup.Telefono = req.Telefono
	sup.DatosTransferencia = req.DatosTransferencia
	sup.Entidad = req.Entidad
	sup.NroCuenta = req.NroCuenta
	sup.CI = req.CI
	sup.NIT = req.NIT
	sup.Descripcion = req.Descripcion
	if req.Activo != nil {
		sup.Activo = *req.Activo
	}

	if err := s.suppliers.Save(ctx, sup); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return sup, nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	if err := requireCatalogWrite(actor, "delete supplier"); err != nil {
		return err
	}

	sup, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}

	inQuotes, err := s.quotes.CountBySupplier(ctx, sup.ID)
	if err != nil {
		return err
	}
	inOrders, err := s.orders.CountBySupplier(ctx, sup.ID)
	if err != nil {
		return err
	}
	if inQuotes > 0 || inOrders > 0 {
		return fmt.Errorf("supplier %s appears on %d quotes and %d orders: %w",
			sup.NombreEmpresa, inQuotes, inOrders, workflow.ErrProtectedReference)
	}

	return s.suppliers.Delete(ctx, sup)
}

func (s *catalogService) CreateProduct(ctx context.Context, actor workflow.Actor, req ProductRequest) (*model.Product, error) {
	if err := requireCatalogWrite(actor, "create product"); err != nil {
		return nil, err
	}

	p := &model.Product{
		Nombre: req.Nombre,
		Unidad: req.Unidad,
		Activo: true,
	}
	if p.Unidad == "" {
		p.Unidad = "Und"
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, onlyActive bool, page, limit int) ([]model.Product, int64, error) {
	return s.products.List(ctx, onlyActive, page, limit)
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor workflow.Actor, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	if err := requireCatalogWrite(actor, "update product"); err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Nombre = req.Nombre
	if req.Unidad != "" {
		p.Unidad = req.Unidad
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	if err := requireCatalogWrite(actor, "delete product"); err != nil {
		return err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	inQuotes, err := s.quotes.CountByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	inOrders, err := s.orders.CountByProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	if inQuotes > 0 || inOrders > 0 {
		return fmt.Errorf("product %s appears on %d quotes and %d orders: %w",
			p.Nombre, inQuotes, inOrders, workflow.ErrProtectedReference)
	}

	return s.products.Delete(ctx, p)
}
