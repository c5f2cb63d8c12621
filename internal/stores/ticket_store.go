package stores

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

// At most this many tickets can carry the advertise flag at once. The
// guard runs before the flip, so the set tops out at six and never seven.
const maxAdvertised = 5

type TicketStore struct {
	db *gorm.DB
}

func NewTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{db: db}
}

// List returns tickets newest first, optionally filtered by vendor email
// and verification status.
func (s *TicketStore) List(vendorEmail, status string) ([]models.Ticket, error) {
	q := s.db.Order("created_at DESC")
	if vendorEmail != "" {
		q = q.Where("vendor_email = ?", vendorEmail)
	}
	if status != "" {
		q = q.Where("verification_status = ?", status)
	}

	var tickets []models.Ticket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *TicketStore) Get(id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.Preload("Bookings").First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// Create stores a new ticket. Whatever the caller supplied, a new ticket
// always starts unmoderated and unadvertised.
func (s *TicketStore) Create(ticket *models.Ticket) error {
	ticket.VerificationStatus = models.StatusPending
	ticket.Advertise = false
	return s.db.Create(ticket).Error
}

// UpdateFields merges the supplied columns into the ticket. Any edit sends
// the ticket back through moderation.
func (s *TicketStore) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	fields["verification_status"] = models.StatusPending

	res := s.db.Model(&models.Ticket{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TicketStore) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.Ticket{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TicketStore) UpdateStatus(id uuid.UUID, status string) error {
	res := s.db.Model(&models.Ticket{}).Where("id = ?", id).Update("verification_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdvertise flips the advertise flag. Turning it on is a single
// conditional update: the count of advertised tickets is evaluated inside
// the statement, so concurrent flips cannot push the set past the cap.
func (s *TicketStore) SetAdvertise(id uuid.UUID, advertise bool) error {
	if !advertise {
		res := s.db.Model(&models.Ticket{}).Where("id = ?", id).Update("advertise", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}

	res := s.db.Exec(
		"UPDATE tickets SET advertise = ?, updated_at = ? WHERE id = ? AND (SELECT COUNT(*) FROM tickets WHERE advertise = ?) <= ?",
		true, time.Now().UTC(), id, true, maxAdvertised,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Ticket{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrAdvertiseLimit
	}
	return nil
}

// Advertised returns accepted tickets currently flagged for promotion.
func (s *TicketStore) Advertised() ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.
		Where("verification_status = ? AND advertise = ?", models.StatusAccepted, true).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// Latest returns the most recently listed accepted tickets.
func (s *TicketStore) Latest(limit int) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.
		Where("verification_status = ?", models.StatusAccepted).
		Order("created_at DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// AppendBooking records a reservation against a ticket. A new booking is
// always pending and unpaid regardless of what the caller supplied.
func (s *TicketStore) AppendBooking(booking *models.Booking) error {
	var exists int64
	if err := s.db.Model(&models.Ticket{}).Where("id = ?", booking.TicketID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	booking.Status = models.BookingPending
	booking.PaymentStatus = models.PaymentUnpaid
	booking.TransactionID = nil
	booking.PaidAt = nil
	return s.db.Create(booking).Error
}

func (s *TicketStore) GetBooking(ticketID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.First(&booking, "id = ? AND ticket_id = ?", bookingID, ticketID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingStatus sets the moderation status of a booking, addressed
// by the (ticket, booking) pair. A rejection touches only the status; any
// other status also writes the caller-supplied payment status. The real
// payment guarantee comes from reconciliation, not from this call.
func (s *TicketStore) UpdateBookingStatus(ticketID, bookingID uuid.UUID, status, paymentStatus string) error {
	updates := map[string]interface{}{"status": status}
	if status != models.BookingRejected && paymentStatus != "" {
		updates["payment_status"] = paymentStatus
	}

	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND ticket_id = ?", bookingID, ticketID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RedeemBooking flips a paid booking from pending to confirmed exactly
// once, for QR validation at boarding.
func (s *TicketStore) RedeemBooking(ticketID, bookingID uuid.UUID) error {
	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND ticket_id = ? AND status = ? AND payment_status = ?",
			bookingID, ticketID, models.BookingPending, models.PaymentPaid).
		Update("status", models.BookingConfirmed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		booking, err := s.GetBooking(ticketID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status == models.BookingConfirmed {
			return ErrAlreadyRedeemed
		}
		return ErrNotFound
	}
	return nil
}

// BookedTicket is a booking flattened with the fields of the ticket it
// was made against, for the buyer's booking list.
type BookedTicket struct {
	ID            uuid.UUID  `json:"id"`
	TicketID      uuid.UUID  `json:"ticketId"`
	BookedBy      string     `json:"bookedBy"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"booking_status"`
	PaymentStatus string     `json:"paymentStatus"`
	TransactionID *string    `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	TicketName    string     `json:"ticketName"`
	TransportType string     `json:"transportType"`
	Origin        string     `json:"from"`
	Destination   string     `json:"to"`
	DepartureDate string     `json:"departureDate"`
	DepartureTime string     `json:"departureTime"`
	Price         int        `json:"price"`
	ImageURL      string     `json:"image"`
}

// BookingsByBooker returns every booking made by the given email across
// all tickets, newest first.
func (s *TicketStore) BookingsByBooker(email string) ([]BookedTicket, error) {
	var bookings []BookedTicket
	err := s.db.Table("bookings").
		Select("bookings.id, bookings.ticket_id, bookings.booked_by, bookings.quantity, bookings.status, bookings.payment_status, bookings.transaction_id, bookings.paid_at, bookings.created_at, tickets.name AS ticket_name, tickets.transport_type, tickets.origin, tickets.destination, tickets.departure_date, tickets.departure_time, tickets.price, tickets.image_url").
		Joins("JOIN tickets ON tickets.id = bookings.ticket_id").
		Where("bookings.booked_by = ?", email).
		Order("bookings.created_at DESC").
		Scan(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

type DashboardStats struct {
	TotalRevenue      int   `json:"totalRevenue"`
	TotalTicketsSold  int   `json:"totalTicketsSold"`
	TotalTicketsAdded int64 `json:"totalTicketsAdded"`
}

// VendorStats aggregates paid bookings against the vendor's tickets.
// Purely derived, no mutation.
func (s *TicketStore) VendorStats(vendorEmail string) (*DashboardStats, error) {
	var stats DashboardStats
	err := s.db.Table("bookings").
		Select("COALESCE(SUM(tickets.price * bookings.quantity), 0) AS total_revenue, COALESCE(SUM(bookings.quantity), 0) AS total_tickets_sold").
		Joins("JOIN tickets ON tickets.id = bookings.ticket_id").
		Where("tickets.vendor_email = ? AND bookings.payment_status = ?", vendorEmail, models.PaymentPaid).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Ticket{}).Where("vendor_email = ?", vendorEmail).Count(&stats.TotalTicketsAdded).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
