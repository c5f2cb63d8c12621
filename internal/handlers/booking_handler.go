package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/helpers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
	"github.com/Adi-ops16/Swift-Tix-server/internal/stores"
)

type BookingRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type BookingStatusRequest struct {
	BookingID     uuid.UUID `json:"bookingId" binding:"required"`
	Status        string    `json:"status" binding:"required,oneof=pending confirmed rejected"`
	PaymentStatus string    `json:"paymentStatus"`
}

func generateBookingSignature(ticketID, bookingID uuid.UUID, bookedBy string) string {
	secretKey := os.Getenv("AUTH_JWT_SECRET")
	data := fmt.Sprintf("%s:%s:%s", ticketID.String(), bookingID.String(), bookedBy)
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func generateBookingQRData(booking *models.Booking) string {
	signature := generateBookingSignature(booking.TicketID, booking.ID, booking.BookedBy)
	return fmt.Sprintf("ticket:%s;booking:%s;signature:%s",
		booking.TicketID.String(),
		booking.ID.String(),
		signature,
	)
}

func extractBookingIDsFromQRData(qrData string) (ticketID, bookingID uuid.UUID, err error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "ticket:") ||
		!strings.HasPrefix(parts[1], "booking:") || !strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid QR data format")
	}

	ticketID, err = uuid.Parse(strings.TrimPrefix(parts[0], "ticket:"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	bookingID, err = uuid.Parse(strings.TrimPrefix(parts[1], "booking:"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return ticketID, bookingID, nil
}

func validateBookingQRSignature(booking *models.Booking, qrData string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "signature:") {
		return false
	}

	signature := strings.TrimPrefix(parts[2], "signature:")
	expected := generateBookingSignature(booking.TicketID, booking.ID, booking.BookedBy)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func ListBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email query parameter is required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	bookings, err := stores.NewTicketStore(gormDB).BookingsByBooker(email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get bookings.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// AppendBooking reserves quantity against a ticket. The booking starts
// pending and unpaid; the booker is the verified caller.
func AppendBooking(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	email, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Verified email not found.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	booking := models.Booking{
		TicketID: ticketID,
		BookedBy: email.(string),
		Quantity: req.Quantity,
	}

	if err := stores.NewTicketStore(gormDB).AppendBooking(&booking); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't book the ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking added successfully.",
		"booking": booking,
	})
}

func UpdateBookingStatus(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	var req BookingStatusRequest
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

	err = stores.NewTicketStore(gormDB).UpdateBookingStatus(ticketID, req.BookingID, req.Status, req.PaymentStatus)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't update booking status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated successfully."})
}

// BookingQR renders a paid booking as a signed QR image the buyer shows
// at boarding.
func BookingQR(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticketId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	email, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Verified email not found.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	booking, err := stores.NewTicketStore(gormDB).GetBooking(ticketID, bookingID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	if booking.BookedBy != email.(string) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate a QR code for this booking.")
		return
	}
	if booking.PaymentStatus != models.PaymentPaid {
		helpers.RespondWithError(c, http.StatusForbidden, "Booking is not paid yet.")
		return
	}

	qrImage, err := qrcode.Encode(generateBookingQRData(booking), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ValidateBooking lets the vendor redeem a scanned QR exactly once,
// flipping the booking to confirmed.
func ValidateBooking(c *gin.Context) {
	email, exists := c.Get("email")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Verified email not found.")
		return
	}

	var req struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticketID, bookingID, err := extractBookingIDsFromQRData(req.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	store := stores.NewTicketStore(gormDB)

	booking, err := store.GetBooking(ticketID, bookingID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booking.")
		return
	}

	if !validateBookingQRSignature(booking, req.QRData) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
		return
	}

	ticket, err := store.Get(ticketID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}
	if ticket.VendorEmail != email.(string) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this booking.")
		return
	}

	if err := store.RedeemBooking(ticketID, bookingID); err != nil {
		switch {
		case errors.Is(err, stores.ErrAlreadyRedeemed):
			helpers.RespondWithError(c, http.StatusForbidden, "Booking already redeemed.")
		case errors.Is(err, stores.ErrNotFound):
			helpers.RespondWithError(c, http.StatusForbidden, "Booking is not redeemable.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate booking.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking validated successfully",
		"ticket": gin.H{
			"ticketName": ticket.Name,
			"bookedBy":   booking.BookedBy,
			"quantity":   booking.Quantity,
		},
	})
}
