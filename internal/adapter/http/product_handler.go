package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/adapter/http/middleware"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type ProductHandler struct {
	catalog *usecase.Catalog
}

func NewProductHandler(catalog *usecase.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Brand       string `json:"brand" binding:"required"`
	PriceCents  int64  `json:"priceCents" binding:"required,gte=0"`
	Stock       int    `json:"stock" binding:"gte=0"`
	CategoryID  string `json:"categoryId" binding:"required"`
	ImageURL    string `json:"imageUrl"`
	Featured    bool   `json:"featured"`
}

func (r productReq) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Brand:       r.Brand,
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		Featured:    r.Featured,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), middleware.CallerFrom(c), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResp(p))
}

func (h *ProductHandler) List(c *gin.Context) {
	f := usecase.ProductFilter{
		CategoryID:      c.Query("categoryId"),
		IncludeInactive: c.Query("includeInactive") == "true",
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), middleware.CallerFrom(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeactivateProduct(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deactivated"})
}

type adjustStockReq struct {
	// Delta may be negative; the floor at zero is enforced below.
	Delta int `json:"delta" binding:"required"`
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req adjustStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.catalog.AdjustStock(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(p))
}

func (h *ProductHandler) ToggleStatus(c *gin.Context) {
	p, err := h.catalog.ToggleProductStatus(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(p))
}
