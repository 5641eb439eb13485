package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "storefront/common/errors"
	"storefront/models"
	"storefront/services"
)

// CatalogAPI is the catalog surface the controller depends on
type CatalogAPI interface {
	ListProducts(ctx context.Context, page, limit int) (*services.ProductListResponse, *services.ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *services.ServiceError)
	CreateProduct(ctx context.Context, req *services.CreateProductRequest) (*models.Product, *services.ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *services.UpdateProductRequest) (*models.Product, *services.ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *services.ServiceError
}

type ProductController struct {
	catalog CatalogAPI
}

func NewProductController(catalog CatalogAPI) *ProductController {
	return &ProductController{catalog: catalog}
}

// ListProducts returns the paginated storefront catalog
func (pc *ProductController) ListProducts(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	result, svcErr := pc.catalog.ListProducts(c, page, limit)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns a single product by id
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid product ID format", err))
		return
	}

	product, svcErr := pc.catalog.GetProduct(c, id)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct creates a product (admin only)
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	product, svcErr := pc.catalog.CreateProduct(c, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct updates a product (admin only)
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid product ID format", err))
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	product, svcErr := pc.catalog.UpdateProduct(c, id, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product (admin only)
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid product ID format", err))
		return
	}

	if svcErr := pc.catalog.DeleteProduct(c, id); svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// parsePaginationParams extracts and validates pagination parameters
func parsePaginationParams(c *gin.Context) (int, int) {
	const MaxLimit = 100
	const DefaultPage = 1
	const DefaultLimit = 10

	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}

	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}
