package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is written exactly once per processor transaction and never
// updated afterwards. TransactionID is the processor-assigned id that
// keys reconciliation.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID string    `gorm:"uniqueIndex;not null" json:"transactionId"`
	TicketID      uuid.UUID `gorm:"type:uuid;not null;index" json:"ticketId"`
	BookingID     uuid.UUID `gorm:"type:uuid;not null" json:"bookingId"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	BuyerEmail    string    `gorm:"not null;index" json:"email"`
	TicketName    string    `json:"ticketName"`
	Amount        int       `gorm:"not null" json:"amount"`
	PaidAt        time.Time `json:"paidAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return
}
