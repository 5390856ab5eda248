package domain

import "time"

// ReservationStatus represents the state of a table reservation.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a table booking for a client at a point in time.
type Reservation struct {
	ID          int64             `gorm:"primaryKey" json:"id,string"`
	Date        time.Time         `gorm:"index" json:"date"`
	Client      string            `gorm:"size:100" json:"client"`
	TableNumber int               `json:"table_number"`
	Status      ReservationStatus `gorm:"size:20;index" json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}
