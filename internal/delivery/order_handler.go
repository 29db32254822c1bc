package delivery

import (
	"fmt"
	"net/http"
	"strconv"

	"admin_console/internal/domain"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	session *usecase.OrderSession
	log     *logrus.Logger
}

func NewOrderHandler(session *usecase.OrderSession, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		session: session,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("/refresh", h.RefreshOrders)
		orders.GET("/summary", h.Summary)
		orders.GET("/search", h.SearchOrders)
		orders.GET("/detail", h.GetDetail)
		orders.DELETE("/detail", h.ClearDetail)
		orders.GET("/:id", h.GetOrderByID)
		orders.POST("/:id/detail", h.SelectDetail)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", gin.H{
		"state":  h.session.State(),
		"orders": h.session.Orders(),
	})
}

func (h *OrderHandler) RefreshOrders(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		failWith(c, "Failed to fetch orders", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders refreshed successfully", h.session.Orders())
}

func (h *OrderHandler) Summary(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Order summary", h.session.StatusCounts())
}

func (h *OrderHandler) SearchOrders(c *gin.Context) {
	var query domain.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}
	if query.IsEmpty() {
		ErrorResponse(c, http.StatusBadRequest, "Provide an email or a mobile number")
		return
	}

	orders, err := h.session.Search(c.Request.Context(), query)
	if err != nil {
		failWith(c, "Failed to search orders", err)
		return
	}
	SuccessResponse(c, http.StatusOK, fmt.Sprintf("Found %d orders", len(orders)), orders)
}

func (h *OrderHandler) GetDetail(c *gin.Context) {
	order := h.session.Detail()
	if order == nil {
		ErrorResponse(c, http.StatusNotFound, "No order selected")
		return
	}
	SuccessResponse(c, http.StatusOK, "Order detail", order)
}

func (h *OrderHandler) ClearDetail(c *gin.Context) {
	h.session.ClearDetail()
	SuccessResponse(c, http.StatusOK, "Order detail closed", nil)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id := c.Param("id")
	order, err := h.session.Lookup(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get order by ID %s: %v", id, err)
		failWith(c, "Failed to retrieve order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) SelectDetail(c *gin.Context) {
	order, err := h.session.SelectForDetail(c.Param("id"))
	if err != nil {
		failWith(c, "Cannot open order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order detail", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status    *domain.OrderStatus `json:"status"`
		PaymentID *string             `json:"paymentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for status update of %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}

	order, err := h.session.SetStatus(c.Request.Context(), id, *req.Status, req.PaymentID)
	if err != nil {
		failWith(c, "Failed to update status", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	confirm, _ := strconv.ParseBool(c.Query("confirm"))

	deleted, err := h.session.Remove(c.Request.Context(), id, domain.Answer(confirm))
	if err != nil {
		failWith(c, "Failed to delete order", err)
		return
	}
	if !deleted {
		SuccessResponse(c, http.StatusOK, "Delete cancelled", gin.H{"deleted": false})
		return
	}
	SuccessResponse(c, http.StatusOK, "Order deleted successfully", gin.H{"deleted": true})
}
