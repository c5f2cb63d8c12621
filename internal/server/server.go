package server

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/config"
	"github.com/Adi-ops16/Swift-Tix-server/internal/checkout"
	"github.com/Adi-ops16/Swift-Tix-server/internal/handlers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/identity"
	"github.com/Adi-ops16/Swift-Tix-server/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize identity verifier: %v", err)
	}

	gateway := checkout.NewStripeGateway(cfg.StripeSecretKey, cfg.SiteURL)

	r := NewRouter(db, verifier, gateway)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func newVerifier(cfg *config.Config) (identity.Verifier, error) {
	if cfg.FirebaseAdminKey != "" {
		return identity.NewFirebaseVerifier(context.Background(), cfg.FirebaseAdminKey)
	}
	if cfg.AuthJWTSecret != "" {
		return identity.NewJWTVerifier(cfg.AuthJWTSecret), nil
	}
	return nil, fmt.Errorf("no identity provider configured: set FIREBASE_ADMIN_KEY or AUTH_JWT_SECRET")
}

// NewRouter wires every route over handles that live for the whole
// process: one db pool, one verifier, one checkout gateway.
func NewRouter(db *gorm.DB, verifier identity.Verifier, gateway checkout.Gateway) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.CheckoutMiddleware(gateway))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Swift-Tix server is working")
	})

	public := r.Group("")
	{
		public.GET("/role", handlers.GetRole)
		public.GET("/advertisement", handlers.Advertisement)
		public.GET("/latest", handlers.LatestTickets)

		public.GET("/users", handlers.ListUsers)
		public.POST("/users", handlers.CreateUser)
		public.PATCH("/update/role", handlers.UpdateRole)

		public.GET("/tickets", handlers.ListTickets)
		public.GET("/all-tickets", handlers.ListAcceptedTickets)
		public.PATCH("/tickets/status", handlers.UpdateTicketStatus)
		public.PATCH("/tickets/advertise/:id", handlers.SetAdvertise)

		public.GET("/bookings", handlers.ListBookings)
		public.PATCH("/bookings/status/:id", handlers.UpdateBookingStatus)

		public.PATCH("/verify-payment", handlers.VerifyPayment)

		public.GET("/vendor/dashboard-stats", handlers.VendorDashboardStats)
	}

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(verifier))
	{
		protected.GET("/ticket/:id", handlers.GetTicket)
		protected.POST("/tickets", handlers.CreateTicket)
		protected.PATCH("/tickets/update/:id", handlers.UpdateTicket)
		protected.DELETE("/tickets/delete/:id", handlers.DeleteTicket)

		protected.PATCH("/bookings/:id", handlers.AppendBooking)
		protected.GET("/bookings/qr/:ticketId/:bookingId", handlers.BookingQR)
		protected.POST("/bookings/validate", handlers.ValidateBooking)

		protected.POST("/create-checkout-session", handlers.CreateCheckoutSession)
		protected.GET("/payment-history", handlers.PaymentHistory)
	}

	return r
}
