package stores

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection to :memory: would see an empty database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Ticket{}, &models.Booking{}, &models.Payment{}))
	return db
}

func seedTicket(t *testing.T, db *gorm.DB, vendorEmail string, quantity int) *models.Ticket {
	t.Helper()

	ticket := &models.Ticket{
		VendorEmail:   vendorEmail,
		Name:          "Dhaka to Chittagong",
		TransportType: "bus",
		Origin:        "Dhaka",
		Destination:   "Chittagong",
		Price:         1200,
		Quantity:      quantity,
	}
	require.NoError(t, NewTicketStore(db).Create(ticket))
	return ticket
}
