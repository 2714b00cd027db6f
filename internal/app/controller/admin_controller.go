package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suitloom/suitloom-backend/internal/app/model"
	"github.com/suitloom/suitloom-backend/internal/app/service"
	apperrors "github.com/suitloom/suitloom-backend/internal/errors"
	"github.com/suitloom/suitloom-backend/internal/middleware"
)

type AdminController struct {
	orderService  service.OrderService
	exportService service.ExportService
}

func NewAdminController(orderService service.OrderService, exportService service.ExportService) *AdminController {
	return &AdminController{
		orderService:  orderService,
		exportService: exportService,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// ListAllOrders returns every order in the system
// GET /api/v1/admin/orders
func (ctrl *AdminController) ListAllOrders(c *gin.Context) {
	orders, err := ctrl.orderService.ListAllOrders()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list all orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus moves an order through the tailoring workflow
// PUT /api/v1/admin/orders/:id/status
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "주문 ID가 올바르지 않습니다")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	switch req.Status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusFitting,
		model.OrderStatusCompleted, model.OrderStatusCancelled:
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "주문 상태 값이 올바르지 않습니다")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(uint(orderID), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   req.Status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "주문 상태가 변경되었습니다",
		"order":   order,
	})
}

// ExportOrders downloads every order as an Excel sheet
// GET /api/v1/admin/orders/export
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.exportService.ExportOrdersXLSX()
	if err != nil {
		log.Error("Failed to export orders", err)
		apperrors.InternalError(c, "주문 내역 내보내기에 실패했습니다")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
