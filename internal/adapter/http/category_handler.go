package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/adapter/http/middleware"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type CategoryHandler struct {
	catalog *usecase.Catalog
}

func NewCategoryHandler(catalog *usecase.Catalog) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

type categoryReq struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), middleware.CallerFrom(c),
		usecase.CategoryInput{Name: req.Name, Type: req.Type, Description: req.Description})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResp(cat))
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]categoryResp, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResp(cat))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	cat, err := h.catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResp(cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"),
		usecase.CategoryInput{Name: req.Name, Type: req.Type, Description: req.Description})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResp(cat))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (h *CategoryHandler) ToggleStatus(c *gin.Context) {
	cat, err := h.catalog.ToggleCategoryStatus(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResp(cat))
}
