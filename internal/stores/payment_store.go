package stores

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

type PaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) ByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentStore) HistoryByEmail(email string) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("buyer_email = ?", email).Order("paid_at DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

type ReconcileInput struct {
	TransactionID string
	TicketID      uuid.UUID
	BookingID     uuid.UUID
	Quantity      int
	BuyerEmail    string
	TicketName    string
	Amount        int
	PaidAt        time.Time
}

// Reconcile applies a completed checkout exactly once, keyed by the
// processor transaction id. Marking the booking paid, decrementing the
// ticket inventory and inserting the payment record all happen in one
// transaction, so a replay of the completion notification either finds
// the existing payment (already=true, no writes) or the whole sequence
// rolls back.
func (s *PaymentStore) Reconcile(in ReconcileInput) (payment *models.Payment, already bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		lookupErr := tx.Where("transaction_id = ?", in.TransactionID).First(&existing).Error
		if lookupErr == nil {
			payment = &existing
			already = true
			return nil
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return lookupErr
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND ticket_id = ? AND payment_status = ?",
				in.BookingID, in.TicketID, models.PaymentUnpaid).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentPaid,
				"transaction_id": in.TransactionID,
				"paid_at":        in.PaidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var booking models.Booking
			findErr := tx.First(&booking, "id = ? AND ticket_id = ?", in.BookingID, in.TicketID).Error
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			if findErr != nil {
				return findErr
			}
			return ErrAlreadyPaid
		}

		res = tx.Model(&models.Ticket{}).
			Where("id = ? AND quantity >= ?", in.TicketID, in.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		created := models.Payment{
			TransactionID: in.TransactionID,
			TicketID:      in.TicketID,
			BookingID:     in.BookingID,
			Quantity:      in.Quantity,
			BuyerEmail:    in.BuyerEmail,
			TicketName:    in.TicketName,
			Amount:        in.Amount,
			PaidAt:        in.PaidAt,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		payment = &created
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return payment, already, nil
}
