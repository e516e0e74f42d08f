package handlers

import (
	"log"
	"net/http"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"

	"github.com/labstack/echo/v4"
)

type CategoryHandlers struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryHandlers(categoryRepo repositories.CategoryRepository) *CategoryHandlers {
	return &CategoryHandlers{categoryRepo: categoryRepo}
}

// ListCategories handles GET /categories.
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categoryRepo.List(c.Request().Context())
	if err != nil {
		log.Printf("ERROR: category list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve categories")
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}

// CreateCategory handles POST /admin/categories.
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateStringLength(req.Name, "name", 2, 255); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        common.Slugify(req.Name),
		Description: req.Description,
	}
	if err := h.categoryRepo.Create(ctx, category); err != nil {
		log.Printf("ERROR: category create failed: %v", err)
		return common.SendServerError(c, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	category, err := h.categoryRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("ERROR: category lookup failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to retrieve category")
	}
	if category == nil {
		return common.SendNotFoundError(c, "Category")
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name != nil {
		if err := common.ValidateStringLength(*req.Name, "name", 2, 255); err != nil {
			return common.SendValidationError(c, "name", err.Error())
		}
		category.Name = *req.Name
		category.Slug = common.Slugify(*req.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.categoryRepo.Update(ctx, category); err != nil {
		log.Printf("ERROR: category update failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to update category")
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /admin/categories/:id.
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.categoryRepo.Delete(c.Request().Context(), id); err != nil {
		log.Printf("ERROR: category delete failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to delete category")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category deleted"})
}
