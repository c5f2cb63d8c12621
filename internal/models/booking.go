package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingRejected  = "rejected"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

type Booking struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TicketID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"ticketId"`
	BookedBy      string     `gorm:"not null;index" json:"bookedBy"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	Status        string     `gorm:"not null;default:'pending'" json:"booking_status"`
	PaymentStatus string     `gorm:"not null;default:'unpaid'" json:"paymentStatus"`
	TransactionID *string    `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return
}
