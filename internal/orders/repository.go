package orders

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/comandero/comandero/internal/domain"
)

// Filter narrows an order listing. All supplied fields are conjunctive;
// the client match is a case-insensitive substring and date bounds are
// inclusive on both ends.
type Filter struct {
	Status           domain.OrderStatus
	Client           string
	DateFrom         *time.Time
	DateTo           *time.Time
	ExcludeCancelled bool
}

// Repository is the persistence boundary for orders. One call is one atomic
// unit of work; UpdateStatus serializes the read-modify-write of a single
// record so concurrent cancellations cannot corrupt state.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter Filter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (*domain.Order, error)
}

// GormRepository is the gorm implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return errors.Wrap(err, "create order")
	}
	return nil
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "query order")
	}
	return &order, nil
}

func (r *GormRepository) List(ctx context.Context, filter Filter) ([]domain.Order, error) {
	db := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.ExcludeCancelled {
		db = db.Where("status <> ?", domain.OrderStatusCancelled)
	}
	if q := strings.TrimSpace(filter.Client); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("client ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(client) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if filter.DateFrom != nil {
		db = db.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		db = db.Where("date <= ?", *filter.DateTo)
	}

	var rows []domain.Order
	if err := db.Order("date DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	return rows, nil
}

// UpdateStatus flips an order from one status to another with a
// compare-and-set on the current status. The only supported transition is
// pending -> cancelled, so a CAS miss on an existing row means the order
// was already cancelled by a concurrent caller.
func (r *GormRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	var updated domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update order status")
		}
		if res.RowsAffected == 0 {
			var current domain.Order
			if err := tx.Where("id = ?", id).First(&current).Error; errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			} else if err != nil {
				return errors.Wrap(err, "query order")
			}
			return domain.ErrAlreadyCancelled
		}
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return errors.Wrap(err, "query order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the order entirely and returns the deleted snapshot.
// Deletion is orthogonal to status and valid from any state.
func (r *GormRepository) Delete(ctx context.Context, id int64) (*domain.Order, error) {
	var snapshot domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&snapshot).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		} else if err != nil {
			return errors.Wrap(err, "query order")
		}
		if err := tx.Where("id = ?", id).Delete(&domain.Order{}).Error; err != nil {
			return errors.Wrap(err, "delete order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
