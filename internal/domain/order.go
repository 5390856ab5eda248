package domain

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var (
	// ErrEmptyOrder rejects an order created without line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrInvalidQuantity rejects a line item with a non-positive quantity.
	ErrInvalidQuantity = errors.New("item quantity must be a positive integer")
	// ErrMissingClient rejects an order without a client name.
	ErrMissingClient = errors.New("client is required")
	// ErrAlreadyCancelled rejects a second cancellation of the same order.
	ErrAlreadyCancelled = errors.New("order is already cancelled")
	// ErrOrderNotFound reports an absent order id.
	ErrOrderNotFound = errors.New("order not found")
)

var itemsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// OrderItem is one (product, quantity) pair within an order. Items are owned
// exclusively by their order and never shared.
type OrderItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Order represents a placed customer order. Items are persisted as a JSON
// array in a single text column (see EncodeItems/DecodeItems); Total carries
// the catalog prices at creation time and is never recomputed on read.
type Order struct {
	ID        int64           `gorm:"primaryKey" json:"id,string"`
	Date      time.Time       `gorm:"index" json:"date"`
	Client    string          `gorm:"size:100;index" json:"client"`
	Items     string          `gorm:"type:text" json:"-"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Status    OrderStatus     `gorm:"size:20;index" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// EncodeItems serializes an ordered item list into its persisted textual form.
func EncodeItems(items []OrderItem) (string, error) {
	if items == nil {
		items = []OrderItem{}
	}
	text, err := itemsJSON.MarshalToString(items)
	if err != nil {
		return "", fmt.Errorf("encode order items: %w", err)
	}
	return text, nil
}

// DecodeItems is the inverse of EncodeItems and preserves item order and
// exact (product, quantity) pairs.
func DecodeItems(text string) ([]OrderItem, error) {
	if text == "" {
		return []OrderItem{}, nil
	}
	var items []OrderItem
	if err := itemsJSON.UnmarshalFromString(text, &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return items, nil
}

// SetItems stores the item list into the persisted column.
func (o *Order) SetItems(items []OrderItem) error {
	text, err := EncodeItems(items)
	if err != nil {
		return err
	}
	o.Items = text
	return nil
}

// GetItems returns the decoded item list.
func (o *Order) GetItems() ([]OrderItem, error) {
	return DecodeItems(o.Items)
}

// Cancel flips a pending order to cancelled. Cancelled is terminal.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	o.Status = OrderStatusCancelled
	return nil
}
