package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a payment record.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Payment records an amount collected against an order.
type Payment struct {
	ID        int64           `gorm:"primaryKey" json:"id,string"`
	OrderID   int64           `gorm:"index" json:"order_id,string"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Date      time.Time       `gorm:"index" json:"date"`
	Status    PaymentStatus   `gorm:"size:20" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
