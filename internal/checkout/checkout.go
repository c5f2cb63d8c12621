package checkout

import (
	"context"

	"github.com/google/uuid"
)

// SessionParams describes the hosted checkout to open. The ids travel to
// the processor only as opaque session metadata and come back through
// SessionStatus; creating a session mutates nothing on our side.
type SessionParams struct {
	TicketID   uuid.UUID
	BookingID  uuid.UUID
	TicketName string
	ImageURL   string
	BuyerEmail string
	Quantity   int
	UnitPrice  int
}

// Session is a freshly opened hosted checkout: the processor's session id
// and the URL to redirect the buyer to.
type Session struct {
	ID  string
	URL string
}

// SessionStatus is the processor's view of a session after the buyer was
// redirected. TransactionID is only set once the session is paid.
type SessionStatus struct {
	Paid          bool
	TransactionID string
	TicketID      uuid.UUID
	BookingID     uuid.UUID
	Quantity      int
	BuyerEmail    string
	TicketName    string
	Amount        int
}

type Gateway interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}
