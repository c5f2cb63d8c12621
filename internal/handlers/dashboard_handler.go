package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/helpers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/stores"
)

// VendorDashboardStats reports revenue, tickets sold and tickets listed
// for one vendor, derived from paid bookings only.
func VendorDashboardStats(c *gin.Context) {
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

	stats, err := stores.NewTicketStore(gormDB).VendorStats(email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Couldn't get dashboard stats.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
