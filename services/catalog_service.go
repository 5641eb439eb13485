package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/cache"
	"storefront/common/logger"
	"storefront/models"
	"storefront/repository"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"gte=0"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
}

type UpdateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	Images      []string         `json:"images"`
}

type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Meta     MetaData         `json:"meta"`
}

// CatalogService provides product listing and lookup for the storefront
// plus admin product management. Listing results are cached in Redis when
// a cache is configured.
type CatalogService struct {
	products repository.ProductRepository
	cache    *cache.ProductCache // nil disables caching
}

func NewCatalogService(products repository.ProductRepository, productCache *cache.ProductCache) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    productCache,
	}
}

// ListProducts returns a paginated product listing
func (s *CatalogService) ListProducts(ctx context.Context, page, limit int) (*ProductListResponse, *ServiceError) {
	if s.cache != nil {
		var cached ProductListResponse
		if ok := s.cache.GetList(ctx, page, limit, &cached); ok {
			return &cached, nil
		}
	}

	products, total, err := s.products.FindAll(ctx, page, limit)
	if err != nil {
		logger.Error(ctx, "Failed to fetch products", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch products"}
	}

	resp := &ProductListResponse{
		Products: products,
		Meta:     buildMeta(page, limit, total),
	}

	if s.cache != nil {
		s.cache.SetListAsync(page, limit, resp)
	}

	return resp, nil
}

// GetProduct returns a single product by id
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		}
		logger.Error(ctx, "Failed to fetch product", err, zap.String("product_id", id.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch product"}
	}
	return product, nil
}

// CreateProduct creates a new product (admin only)
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError) {
	if req.Price.IsNegative() {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Price must not be negative"}
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		Images:      models.ImageList(req.Images),
	}

	if err := s.products.Create(ctx, product); err != nil {
		logger.Error(ctx, "Failed to create product", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create product"}
	}

	s.invalidateCache(ctx)
	return product, nil
}

// UpdateProduct updates an existing product (admin only). Stock is set
// directly; the checkout workflow is the only other stock writer.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		}
		logger.Error(ctx, "Failed to fetch product", err, zap.String("product_id", id.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch product"}
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Price must not be negative"}
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Stock must not be negative"}
		}
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Images != nil {
		product.Images = models.ImageList(req.Images)
	}

	if err := s.products.Update(ctx, product); err != nil {
		logger.Error(ctx, "Failed to update product", err, zap.String("product_id", id.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update product"}
	}

	s.invalidateCache(ctx)
	return product, nil
}

// DeleteProduct removes a product (admin only)
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		}
		logger.Error(ctx, "Failed to delete product", err, zap.String("product_id", id.String()))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to delete product"}
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.BumpVersion(ctx); err != nil {
		logger.Warn(ctx, "Failed to invalidate product cache", zap.Error(err))
	}
}
