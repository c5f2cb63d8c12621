package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/helpers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
	"github.com/Adi-ops16/Swift-Tix-server/internal/stores"
)

// Accepted tickets shown on the landing page.
const latestTicketCount = 6

type TicketRequest struct {
	Name          string `json:"ticketName" binding:"required"`
	TransportType string `json:"transportType" binding:"required"`
	Origin        string `json:"from" binding:"required"`
	Destination   string `json:"to" binding:"required"`
	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	Price         int    `json:"price" binding:"required,min=1"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	ImageURL      string `json:"image"`
}

type TicketUpdateRequest struct {
	Name          *string `json:"ticketName"`
	TransportType *string `json:"transportType"`
	Origin        *string `json:"from"`
	Destination   *string `json:"to"`
	DepartureDate *string `json:"departureDate"`
	DepartureTime *string `json:"departureTime"`
	Price         *int    `json:"price"`
	Quantity      *int    `json:"quantity"`
	ImageURL      *string `json:"image"`
}

type TicketStatusRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Status string    `json:"status" binding:"required,oneof=pending accepted rejected"`
}

type AdvertiseRequest struct {
	Advertise *bool `json:"advertise" binding:"required"`
}

func ListTickets(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	tickets, err := stores.NewTicketStore(gormDB).List(c.Query("email"), c.Query("status"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// ListAcceptedTickets is the public catalogue; the status filter defaults
// to accepted and no vendor filter is applied.
func ListAcceptedTickets(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	status := c.DefaultQuery("status", models.StatusAccepted)
	tickets, err := stores.NewTicketStore(gormDB).List("", status)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func GetTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ticket, err := stores.NewTicketStore(gormDB).Get(ticketID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func CreateTicket(c *gin.Context) {
	var req TicketRequest
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

	ticket := models.Ticket{
		VendorEmail:   email.(string),
		Name:          req.Name,
		TransportType: req.TransportType,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		DepartureTime: req.DepartureTime,
		Price:         req.Price,
		Quantity:      req.Quantity,
		ImageURL:      req.ImageURL,
	}

	if err := stores.NewTicketStore(gormDB).Create(&ticket); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't post the ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket created successfully.",
		"ticket":  ticket,
	})
}

func UpdateTicketStatus(c *gin.Context) {
	var req TicketStatusRequest
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

	if err := stores.NewTicketStore(gormDB).UpdateStatus(req.ID, req.Status); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't update ticket status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket status updated successfully."})
}

func SetAdvertise(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	var req AdvertiseRequest
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

	if err := stores.NewTicketStore(gormDB).SetAdvertise(ticketID, *req.Advertise); err != nil {
		switch {
		case errors.Is(err, stores.ErrAdvertiseLimit):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Cannot advertise more than 6 at a time",
			})
		case errors.Is(err, stores.ErrNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't set advertise.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Advertise flag updated."})
}

func UpdateTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	var req TicketUpdateRequest
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

	store := stores.NewTicketStore(gormDB)

	ticket, err := store.Get(ticketID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}
	if ticket.VendorEmail != email.(string) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this ticket.")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.TransportType != nil {
		fields["transport_type"] = *req.TransportType
	}
	if req.Origin != nil {
		fields["origin"] = *req.Origin
	}
	if req.Destination != nil {
		fields["destination"] = *req.Destination
	}
	if req.DepartureDate != nil {
		fields["departure_date"] = *req.DepartureDate
	}
	if req.DepartureTime != nil {
		fields["departure_time"] = *req.DepartureTime
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}

	if err := store.UpdateFields(ticketID, fields); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't update ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket updated successfully."})
}

func DeleteTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
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

	store := stores.NewTicketStore(gormDB)

	ticket, err := store.Get(ticketID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}

	if ticket.VendorEmail != email.(string) {
		role, roleErr := stores.NewUserStore(gormDB).RoleByEmail(email.(string))
		if roleErr != nil || role != "admin" {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this ticket.")
			return
		}
	}

	if err := store.Delete(ticketID); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't delete ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully."})
}

func Advertisement(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	tickets, err := stores.NewTicketStore(gormDB).Advertised()
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get advertised tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func LatestTickets(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	tickets, err := stores.NewTicketStore(gormDB).Latest(latestTicketCount)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get latest tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}
