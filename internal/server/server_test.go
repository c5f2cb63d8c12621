package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Adi-ops16/Swift-Tix-server/internal/checkout"
	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

// fakeVerifier resolves known tokens to emails, standing in for the
// identity provider.
type fakeVerifier struct {
	tokens map[string]string
}

func (v *fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	email, ok := v.tokens[token]
	if !ok {
		return "", fmt.Errorf("unknown token")
	}
	return email, nil
}

// fakeGateway records created sessions and lets tests flip them to paid,
// standing in for the payment processor.
type fakeGateway struct {
	sessions map[string]*checkout.SessionStatus
	counter  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*checkout.SessionStatus{}}
}

func (g *fakeGateway) CreateSession(_ context.Context, p checkout.SessionParams) (*checkout.Session, error) {
	g.counter++
	id := fmt.Sprintf("cs_test_%d", g.counter)
	g.sessions[id] = &checkout.SessionStatus{
		TicketID:   p.TicketID,
		BookingID:  p.BookingID,
		Quantity:   p.Quantity,
		BuyerEmail: p.BuyerEmail,
		TicketName: p.TicketName,
		Amount:     p.UnitPrice * p.Quantity,
	}
	return &checkout.Session{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) SessionStatus(_ context.Context, sessionID string) (*checkout.SessionStatus, error) {
	status, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown session %s", sessionID)
	}
	return status, nil
}

func (g *fakeGateway) markPaid(sessionID, transactionID string) {
	g.sessions[sessionID].Paid = true
	g.sessions[sessionID].TransactionID = transactionID
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Ticket{}, &models.Booking{}, &models.Payment{}))
	return db
}

func newTestServer(t *testing.T) (*gin.Engine, *fakeGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := &fakeVerifier{tokens: map[string]string{
		"vendor-token": "vendor@example.com",
		"buyer-token":  "buyer@example.com",
	}}
	gateway := newFakeGateway()
	return NewRouter(newTestDB(t), verifier, gateway), gateway
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestBookingPaymentFlow(t *testing.T) {
	r, gateway := newTestServer(t)

	// vendor lists a ticket; it starts pending regardless of input
	w := do(t, r, http.MethodPost, "/tickets", "vendor-token", gin.H{
		"ticketName":    "Dhaka to Khulna",
		"transportType": "train",
		"from":          "Dhaka",
		"to":            "Khulna",
		"price":         500,
		"quantity":      10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ticket := decode(t, w)["ticket"].(map[string]interface{})
	ticketID := ticket["id"].(string)
	assert.Equal(t, "pending", ticket["verification_status"])
	assert.Equal(t, false, ticket["advertise"])

	// moderation accepts it
	w = do(t, r, http.MethodPatch, "/tickets/status", "", gin.H{"id": ticketID, "status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// buyer books two seats
	w = do(t, r, http.MethodPatch, "/bookings/"+ticketID, "buyer-token", gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	booking := decode(t, w)["booking"].(map[string]interface{})
	bookingID := booking["id"].(string)
	assert.Equal(t, "pending", booking["booking_status"])
	assert.Equal(t, "unpaid", booking["paymentStatus"])

	// hosted checkout opens with the correlation ids in metadata
	w = do(t, r, http.MethodPost, "/create-checkout-session", "buyer-token", gin.H{
		"basePrice":      500,
		"ticketName":     "Dhaka to Khulna",
		"bookedBy":       "buyer@example.com",
		"bookedQuantity": 2,
		"ticketId":       ticketID,
		"bookingId":      bookingID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	url := decode(t, w)["url"].(string)
	assert.Contains(t, url, "cs_test_1")

	session := gateway.sessions["cs_test_1"]
	require.NotNil(t, session)
	assert.Equal(t, ticketID, session.TicketID.String())
	assert.Equal(t, bookingID, session.BookingID.String())
	assert.Equal(t, 2, session.Quantity)

	// polling before the processor finishes is a harmless no-op
	w = do(t, r, http.MethodPatch, "/verify-payment?sessionId=cs_test_1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment not completed", decode(t, w)["message"])

	gateway.markPaid("cs_test_1", "pi_e2e_1")

	// first verification applies decrement + payment record
	w = do(t, r, http.MethodPatch, "/verify-payment?sessionId=cs_test_1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, "success", first["result"])
	paymentData := first["paymentData"].(map[string]interface{})
	assert.Equal(t, "pi_e2e_1", paymentData["transactionId"])

	w = do(t, r, http.MethodGet, "/ticket/"+ticketID, "buyer-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), decode(t, w)["quantity"])

	// replaying the verification is a no-op returning the same payment
	w = do(t, r, http.MethodPatch, "/verify-payment?sessionId=cs_test_1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	replay := decode(t, w)
	assert.Equal(t, "Already processed", replay["message"])
	assert.Equal(t, paymentData["id"], replay["paymentData"].(map[string]interface{})["id"])

	w = do(t, r, http.MethodGet, "/ticket/"+ticketID, "buyer-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), decode(t, w)["quantity"], "replay must not decrement again")

	// the buyer sees exactly one payment
	w = do(t, r, http.MethodGet, "/payment-history?email=buyer@example.com", "buyer-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 1)

	// and the vendor's dashboard reflects the sale
	w = do(t, r, http.MethodGet, "/vendor/dashboard-stats?email=vendor@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]interface{})
	assert.Equal(t, float64(1000), stats["totalRevenue"])
	assert.Equal(t, float64(2), stats["totalTicketsSold"])
	assert.Equal(t, float64(1), stats["totalTicketsAdded"])
}

func TestWriteEndpointsRequireCredential(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/tickets", "", gin.H{"ticketName": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/tickets", "bogus-token", gin.H{"ticketName": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdvertiseCapOverHTTP(t *testing.T) {
	r, _ := newTestServer(t)

	ids := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		w := do(t, r, http.MethodPost, "/tickets", "vendor-token", gin.H{
			"ticketName":    fmt.Sprintf("Route %d", i),
			"transportType": "bus",
			"from":          "A",
			"to":            "B",
			"price":         100,
			"quantity":      5,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		id := decode(t, w)["ticket"].(map[string]interface{})["id"].(string)
		ids = append(ids, id)

		w = do(t, r, http.MethodPatch, "/tickets/status", "", gin.H{"id": id, "status": "accepted"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	for _, id := range ids[:6] {
		w := do(t, r, http.MethodPatch, "/tickets/advertise/"+id, "", gin.H{"advertise": true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := do(t, r, http.MethodPatch, "/tickets/advertise/"+ids[6], "", gin.H{"advertise": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = do(t, r, http.MethodGet, "/advertisement", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var advertised []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &advertised))
	assert.Len(t, advertised, 6)
}

func TestUserCreationIsIdempotentOverHTTP(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/users", "", gin.H{"email": "alice@example.com", "name": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/users", "", gin.H{"email": "alice@example.com", "name": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User already exists in Database", decode(t, w)["message"])

	w = do(t, r, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)

	w = do(t, r, http.MethodGet, "/role?email=alice@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", decode(t, w)["role"])
}

func TestEditedTicketGoesBackToModeration(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/tickets", "vendor-token", gin.H{
		"ticketName":    "Dhaka to Rajshahi",
		"transportType": "bus",
		"from":          "Dhaka",
		"to":            "Rajshahi",
		"price":         700,
		"quantity":      4,
	})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["ticket"].(map[string]interface{})["id"].(string)

	w = do(t, r, http.MethodPatch, "/tickets/status", "", gin.H{"id": id, "status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPatch, "/tickets/update/"+id, "vendor-token", gin.H{"price": 750})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/ticket/"+id, "vendor-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(750), body["price"])
	assert.Equal(t, "pending", body["verification_status"])
}

func TestUpdateTicketOwnershipEnforced(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/tickets", "vendor-token", gin.H{
		"ticketName":    "Dhaka to Barisal",
		"transportType": "launch",
		"from":          "Dhaka",
		"to":            "Barisal",
		"price":         300,
		"quantity":      50,
	})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["ticket"].(map[string]interface{})["id"].(string)

	w = do(t, r, http.MethodPatch, "/tickets/update/"+id, "buyer-token", gin.H{"price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
