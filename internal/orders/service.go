package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/comandero/comandero/internal/catalog"
	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/pkg/common"
)

// Bus event topics published by the order service.
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
	EventOrderDeleted   = "order.deleted"
)

// ItemInput is one raw line item from an inbound request, validated against
// the catalog before any business logic runs.
type ItemInput struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity"`
}

// Service orchestrates catalog lookup, total computation, item serialization,
// status transitions and summary reports over a filtered order set.
type Service struct {
	repo Repository
	menu *catalog.Catalog
	bus  EventBus.Bus
}

// NewService builds an order service. The catalog is an injected, immutable
// dependency; bus may be nil when no subscribers are wired.
func NewService(repo Repository, menu *catalog.Catalog, bus EventBus.Bus) *Service {
	return &Service{repo: repo, menu: menu, bus: bus}
}

func (s *Service) publish(topic string, args ...interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, args...)
	}
}

// CreateOrder validates every raw item against the catalog, computes the
// exact total at current catalog prices and persists the order as pending.
// Validation failures are detected before any persistence call.
func (s *Service) CreateOrder(ctx context.Context, client string, items []ItemInput) (*domain.Order, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return nil, domain.ErrMissingClient
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	total := decimal.Zero
	lines := make([]domain.OrderItem, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d] %q: %w", i, item.Product, domain.ErrInvalidQuantity)
		}
		price, err := s.menu.PriceOf(item.Product)
		if err != nil {
			return nil, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, domain.OrderItem{Product: item.Product, Quantity: item.Quantity})
	}

	order := &domain.Order{
		ID:     common.UUIDint64(),
		Date:   time.Now(),
		Client: client,
		Total:  total,
		Status: domain.OrderStatusPending,
	}
	if err := order.SetItems(lines); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(EventOrderCreated, order.ID, client, total.StringFixed(2))
	return order, nil
}

// GetOrder fetches a single order by id.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns the filtered order set, date descending.
func (s *Service) ListOrders(ctx context.Context, filter Filter) ([]domain.Order, error) {
	return s.repo.List(ctx, filter)
}

// CancelOrder transitions a pending order to cancelled. A second
// cancellation observes ErrAlreadyCancelled; the repository CAS keeps
// concurrent callers consistent.
func (s *Service) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, id, domain.OrderStatusPending, domain.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(EventOrderCancelled, order.ID, order.Client)
	return order, nil
}

// DeleteOrder removes an order entirely and returns the deleted snapshot.
func (s *Service) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(EventOrderDeleted, order.ID, order.Client)
	return order, nil
}

// Summary folds the non-cancelled orders within the inclusive date range
// into a report. Cancellation filtering happens here at the query, not
// inside the fold.
func (s *Service) Summary(ctx context.Context, from, to *time.Time) (*Report, error) {
	rows, err := s.repo.List(ctx, Filter{
		DateFrom:         from,
		DateTo:           to,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, err
	}
	report, err := Summarize(rows)
	if err != nil {
		zap.L().Error("order summary failed", zap.Error(err))
		return nil, err
	}
	return report, nil
}
