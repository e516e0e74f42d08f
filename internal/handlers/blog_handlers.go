package handlers

import (
	"log"
	"net/http"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/services"

	"github.com/labstack/echo/v4"
)

type BlogHandlers struct {
	blogService services.BlogServiceInterface
}

func NewBlogHandlers(blogService services.BlogServiceInterface) *BlogHandlers {
	return &BlogHandlers{blogService: blogService}
}

// ListPosts handles GET /blog (storefront: published only).
func (h *BlogHandlers) ListPosts(c echo.Context) error {
	limit, offset := parsePagination(c)
	posts, err := h.blogService.ListPublished(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR: blog list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve posts")
	}
	if posts == nil {
		posts = []*models.BlogPost{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": posts})
}

// GetPost handles GET /blog/:slug.
func (h *BlogHandlers) GetPost(c echo.Context) error {
	post, err := h.blogService.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		log.Printf("ERROR: blog lookup failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve post")
	}
	if post == nil {
		return common.SendNotFoundError(c, "Post")
	}
	return c.JSON(http.StatusOK, post)
}

// AdminListPosts handles GET /admin/blog (drafts included).
func (h *BlogHandlers) AdminListPosts(c echo.Context) error {
	limit, offset := parsePagination(c)
	posts, err := h.blogService.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR: admin blog list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve posts")
	}
	if posts == nil {
		posts = []*models.BlogPost{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"posts": posts})
}

// CreatePost handles POST /admin/blog.
func (h *BlogHandlers) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Title      string  `json:"title"`
		Excerpt    string  `json:"excerpt"`
		Content    string  `json:"content"`
		CoverImage *string `json:"cover_image"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateStringLength(req.Title, "title", 2, 255); err != nil {
		return common.SendValidationError(c, "title", err.Error())
	}
	if err := common.ValidateRequiredString(req.Content, "content"); err != nil {
		return common.SendValidationError(c, "content", err.Error())
	}

	post := &models.BlogPost{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
	}
	if err := h.blogService.Create(ctx, post); err != nil {
		log.Printf("ERROR: blog create failed: %v", err)
		return common.SendServerError(c, "Failed to create post")
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /admin/blog/:id.
func (h *BlogHandlers) UpdatePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var update models.BlogPostUpdate
	if err := c.Bind(&update); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	post, err := h.blogService.Update(c.Request().Context(), id, &update)
	if err != nil {
		log.Printf("ERROR: blog update failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to update post")
	}
	if post == nil {
		return common.SendNotFoundError(c, "Post")
	}
	return c.JSON(http.StatusOK, post)
}

// SetPublished handles PUT /admin/blog/:id/publish.
func (h *BlogHandlers) SetPublished(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Published bool `json:"published"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.blogService.SetPublished(c.Request().Context(), id, req.Published); err != nil {
		log.Printf("ERROR: blog publish toggle failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to update post")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Post updated"})
}

// DeletePost handles DELETE /admin/blog/:id.
func (h *BlogHandlers) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.blogService.Delete(c.Request().Context(), id); err != nil {
		log.Printf("ERROR: blog delete failed for %d: %v", id, err)
		return common.SendServerError(c, "Failed to delete post")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Post deleted"})
}
