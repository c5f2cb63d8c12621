package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/checkout"
	"github.com/Adi-ops16/Swift-Tix-server/internal/helpers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/middleware"
	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
	"github.com/Adi-ops16/Swift-Tix-server/internal/stores"
)

type CheckoutSessionRequest struct {
	BasePrice      int       `json:"basePrice" binding:"required,min=1"`
	TicketName     string    `json:"ticketName" binding:"required"`
	TicketURL      string    `json:"ticketURL"`
	BookedBy       string    `json:"bookedBy" binding:"required,email"`
	BookedQuantity int       `json:"bookedQuantity" binding:"required,min=1"`
	TicketID       uuid.UUID `json:"ticketId" binding:"required"`
	BookingID      uuid.UUID `json:"bookingId" binding:"required"`
}

// CreateCheckoutSession opens a hosted payment page for a pending
// booking and returns the redirect URL. Nothing is written here; the
// correlation ids ride along as session metadata until verification.
func CreateCheckoutSession(c *gin.Context) {
	var req CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	gateway := middleware.GetCheckoutGateway(c)
	if gateway == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Checkout gateway not found.")
		return
	}

	booking, err := stores.NewTicketStore(gormDB).GetBooking(req.TicketID, req.BookingID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}
	if booking.PaymentStatus == models.PaymentPaid {
		helpers.RespondWithError(c, http.StatusBadRequest, "Booking is already paid.")
		return
	}

	session, err := gateway.CreateSession(c.Request.Context(), checkout.SessionParams{
		TicketID:   req.TicketID,
		BookingID:  req.BookingID,
		TicketName: req.TicketName,
		ImageURL:   req.TicketURL,
		BuyerEmail: req.BookedBy,
		Quantity:   req.BookedQuantity,
		UnitPrice:  req.BasePrice,
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create checkout session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": session.URL})
}

// VerifyPayment checks a session's terminal status with the processor
// and, on the first sighting of a paid session, applies the inventory
// decrement and payment record in one shot. Replays return the original
// payment untouched; a session that is not paid yet is a harmless no-op.
func VerifyPayment(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "sessionId query parameter is required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	gateway := middleware.GetCheckoutGateway(c)
	if gateway == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Checkout gateway not found.")
		return
	}

	status, err := gateway.SessionStatus(c.Request.Context(), sessionID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve checkout session.")
		return
	}

	if !status.Paid {
		c.JSON(http.StatusOK, gin.H{"message": "Payment not completed"})
		return
	}

	payment, already, err := stores.NewPaymentStore(gormDB).Reconcile(stores.ReconcileInput{
		TransactionID: status.TransactionID,
		TicketID:      status.TicketID,
		BookingID:     status.BookingID,
		Quantity:      status.Quantity,
		BuyerEmail:    status.BuyerEmail,
		TicketName:    status.TicketName,
		Amount:        status.Amount,
		PaidAt:        time.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		case errors.Is(err, stores.ErrInsufficientStock):
			helpers.RespondWithError(c, http.StatusBadRequest, "Not enough tickets left.")
		case errors.Is(err, stores.ErrAlreadyPaid):
			helpers.RespondWithError(c, http.StatusBadRequest, "Booking was already paid under another transaction.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment.")
		}
		return
	}

	if already {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Already processed",
			"paymentData": payment,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":      "success",
		"paymentData": payment,
	})
}

func PaymentHistory(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email query parameter is required.")
		return
	}

	verifiedEmail, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Verified email not found.")
		return
	}
	if verifiedEmail.(string) != email {
		helpers.RespondWithError(c, http.StatusForbidden, "You can only view your own payment history.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	payments, err := stores.NewPaymentStore(gormDB).HistoryByEmail(email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get payment history.")
		return
	}

	c.JSON(http.StatusOK, payments)
}
