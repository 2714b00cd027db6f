package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/suitloom/suitloom-backend/internal/app/model"
	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/pkg/logger"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderEmptySelection = errors.New("order requires at least one selection")
	ErrOrderForbidden      = errors.New("order belongs to another user")
)

type OrderService interface {
	Submit(ctx context.Context, userID uint, sessionID string) (*model.Order, error)
	GetOrder(userID uint, orderID uint) (*model.Order, error)
	ListOrders(userID uint) ([]model.Order, error)
	ListAllOrders() ([]model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	configurator ConfiguratorService
}

func NewOrderService(orderRepo repository.OrderRepository, configurator ConfiguratorService) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		configurator: configurator,
	}
}

// Submit turns the session's current configuration into an order. The
// order stores a frozen copy of everything; afterwards the session and
// both persistence channels are wiped so the configurator starts fresh.
func (s *orderService) Submit(ctx context.Context, userID uint, sessionID string) (*model.Order, error) {
	logger.Info("Submitting order", map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
	})

	draft, err := s.configurator.Draft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.SelectionCount == 0 {
		logger.Warn("Order submission rejected: empty selection", map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
		})
		return nil, ErrOrderEmptySelection
	}

	order := &model.Order{
		UserID:            userID,
		SessionID:         sessionID,
		Status:            model.OrderStatusPending,
		Selections:        draft.SelectionsJSON,
		Measurements:      draft.MeasurementsJSON,
		PreviewURL:        draft.PreviewURL,
		OriginalUpload:    draft.OriginalUpload,
		BackgroundPreview: draft.BackgroundPreview,
	}

	if err := s.orderRepo.Create(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
		})
		return nil, err
	}

	// 주문이 만들어진 뒤에는 세션을 비운다. 정리 실패는 주문을
	// 되돌리지 않는다.
	if err := s.configurator.Clear(ctx, sessionID); err != nil {
		logger.Warn("Failed to clear session after order submission", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	logger.Info("Order submitted successfully", map[string]interface{}{
		"order_id":   order.ID,
		"user_id":    userID,
		"session_id": sessionID,
	})
	return order, nil
}

func (s *orderService) GetOrder(userID uint, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"order_id": orderID,
			"user_id":  userID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderForbidden
	}
	return order, nil
}

func (s *orderService) ListOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) ListAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return order, nil
}
