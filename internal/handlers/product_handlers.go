package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers handles storefront and back-office product requests.
type ProductHandlers struct {
	productService services.ProductServiceInterface
	minioSvc       services.MinioService
	imageBucket    string
}

func NewProductHandlers(productService services.ProductServiceInterface, minioSvc services.MinioService, imageBucket string) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		minioSvc:       minioSvc,
		imageBucket:    imageBucket,
	}
}

// ListProducts handles GET /products (storefront: active only).
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var categoryID *int64
	if v := c.QueryParam("category_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 1 {
			return common.SendValidationError(c, "category_id", "must be a positive integer")
		}
		categoryID = &parsed
	}

	limit, offset := parsePagination(c)
	products, err := h.productService.List(ctx, true, categoryID, limit, offset)
	if err != nil {
		log.Printf("ERROR: product list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve products")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
}

// GetProduct handles GET /products/:slug.
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		log.Printf("ERROR: product lookup failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve product")
	}
	if product == nil {
		return common.SendNotFoundError(c, "Product")
	}
	return c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	CategoryID    *int64          `json:"category_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand"`
	ScentNotes    string          `json:"scent_notes"`
	VolumeML      int             `json:"volume_ml"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

// CreateProduct handles POST /admin/products.
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateStringLength(req.Name, "name", 2, 255); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if req.Price.IsNegative() {
		return common.SendValidationError(c, "price", "cannot be negative")
	}
	if req.StockQuantity < 0 {
		return common.SendValidationError(c, "stock_quantity", "cannot be negative")
	}

	product := &models.Product{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		ScentNotes:    req.ScentNotes,
		VolumeML:      req.VolumeML,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}
	if err := h.productService.Create(ctx, product); err != nil {
		log.Printf("ERROR: product create failed: %v", err)
		return common.SendServerError(c, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:id.
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var update models.ProductUpdate
	if err := c.Bind(&update); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product, err := h.productService.Update(ctx, id, &update)
	if err != nil {
		log.Printf("ERROR: product update failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to update product")
	}
	if product == nil {
		return common.SendNotFoundError(c, "Product")
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:id. Products referenced by
// order lines are never removed, only deactivated.
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.productService.Deactivate(ctx, id); err != nil {
		log.Printf("ERROR: product deactivate failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deactivated"})
}

// AdjustStock handles POST /admin/products/:id/stock.
func (h *ProductHandlers) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Delta == 0 {
		return common.SendValidationError(c, "delta", "must be non-zero")
	}

	if err := h.productService.AdjustStock(ctx, id, req.Delta); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Stock adjusted"})
}

// UploadImage handles POST /admin/products/:id/images (multipart form).
func (h *ProductHandlers) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("products/%d/%s%s", id, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.minioSvc.UploadImage(ctx, h.imageBucket, objectName, contentType, file, fileHeader.Size); err != nil {
		log.Printf("ERROR: image upload failed for product %d: %v", id, err)
		return common.SendServerError(c, "Failed to store image")
	}

	isPrimary := c.FormValue("is_primary") == "true"
	image := &models.ProductImage{
		ProductID:  id,
		ObjectName: objectName,
		IsPrimary:  isPrimary,
	}
	if err := h.productService.AddImage(ctx, image); err != nil {
		log.Printf("ERROR: image record create failed for product %d: %v", id, err)
		return common.SendServerError(c, "Failed to save image")
	}
	return c.JSON(http.StatusCreated, image)
}

func parseID(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", param)
	}
	return id, nil
}
