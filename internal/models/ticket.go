package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Ticket struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	VendorEmail        string    `gorm:"not null;index" json:"vendorEmail"`
	Name               string    `gorm:"not null" json:"ticketName"`
	TransportType      string    `json:"transportType"`
	Origin             string    `json:"from"`
	Destination        string    `json:"to"`
	DepartureDate      string    `json:"departureDate"`
	DepartureTime      string    `json:"departureTime"`
	Price              int       `gorm:"not null" json:"price"`
	Quantity           int       `gorm:"not null" json:"quantity"`
	ImageURL           string    `json:"image"`
	VerificationStatus string    `gorm:"not null;default:'pending';index" json:"verification_status"`
	Advertise          bool      `gorm:"not null;default:false" json:"advertise"`
	Bookings           []Booking `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
