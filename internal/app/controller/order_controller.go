package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/suitloom/suitloom-backend/internal/app/service"
	apperrors "github.com/suitloom/suitloom-backend/internal/errors"
	"github.com/suitloom/suitloom-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// Submit freezes the current session into an order
// POST /api/v1/orders
func (ctrl *OrderController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	sessionID, exists := middleware.GetSessionID(c)
	if !exists {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "세션 정보가 필요합니다")
		return
	}

	order, err := ctrl.orderService.Submit(c.Request.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrOrderEmptySelection) {
			apperrors.BadRequest(c, apperrors.OrderEmptySelection, "선택된 옵션이 없습니다. 옵션을 선택한 후 주문해주세요")
			return
		}
		log.Error("Failed to submit order", err, map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit order")
		return
	}

	log.Info("Order submitted", map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    userID,
		"session_id": sessionID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "주문이 접수되었습니다",
		"order":   order,
	})
}

// GetOrder returns one of the caller's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "주문 ID가 올바르지 않습니다")
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "주문을 찾을 수 없습니다")
		case errors.Is(err, service.ErrOrderForbidden):
			apperrors.Forbidden(c, "다른 사용자의 주문입니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders returns the caller's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	orders, err := ctrl.orderService.ListOrders(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
