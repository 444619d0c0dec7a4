package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/adapter/http/middleware"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type OrderHandler struct {
	orders *usecase.Orders
}

func NewOrderHandler(orders *usecase.Orders) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderLineReq struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderReq struct {
	Items           []orderLineReq `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string         `json:"shippingAddress" binding:"required"`
	ShippingCity    string         `json:"shippingCity" binding:"required"`
	ShippingZip     string         `json:"shippingZip" binding:"required"`
	ShippingCountry string         `json:"shippingCountry" binding:"required"`
	PaymentMethod   string         `json:"paymentMethod" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	caller := middleware.CallerFrom(c)

	lines := make([]usecase.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.orders.Create(c.Request.Context(), usecase.CreateOrderInput{
		UserID:          caller.ID,
		IdempotencyKey:  c.GetHeader("X-Idempotency-Key"),
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingZip:     req.ShippingZip,
		ShippingCountry: req.ShippingCountry,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "order created",
		"order":   toOrderResp(order),
	})
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"), middleware.CallerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResp(order))
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListForCaller(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResps(orders))
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"),
		entity.OrderStatus(req.Status), middleware.CallerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "order status updated",
		"order":   toOrderResp(order),
	})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	if err := h.orders.Cancel(c.Request.Context(), c.Param("id"), middleware.CallerFrom(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id"), middleware.CallerFrom(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}
