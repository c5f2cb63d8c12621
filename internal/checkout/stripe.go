package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// StripeGateway drives Stripe Checkout: hosted payment pages in payment
// mode, with the booking correlation ids carried as session metadata.
type StripeGateway struct {
	siteURL string
}

func NewStripeGateway(secretKey, siteURL string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{siteURL: siteURL}
}

func (g *StripeGateway) CreateSession(ctx context.Context, p SessionParams) (*Session, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(p.TicketName),
	}
	if p.ImageURL != "" {
		productData.Images = []*string{stripe.String(p.ImageURL)}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(p.BuyerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount:  stripe.Int64(int64(p.UnitPrice) * 100),
				ProductData: productData,
			},
			Quantity: stripe.Int64(int64(p.Quantity)),
		}},
		SuccessURL: stripe.String(g.siteURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.siteURL + "/payment-cancelled"),
	}
	params.Context = ctx
	params.AddMetadata("ticketId", p.TicketID.String())
	params.AddMetadata("bookingId", p.BookingID.String())
	params.AddMetadata("bookedQuantity", strconv.Itoa(p.Quantity))
	params.AddMetadata("bookedBy", p.BuyerEmail)
	params.AddMetadata("ticketName", p.TicketName)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	status := &SessionStatus{
		Paid:       s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		BuyerEmail: s.Metadata["bookedBy"],
		TicketName: s.Metadata["ticketName"],
		Amount:     int(s.AmountTotal / 100),
	}
	if s.PaymentIntent != nil {
		status.TransactionID = s.PaymentIntent.ID
	}

	if status.TicketID, err = uuid.Parse(s.Metadata["ticketId"]); err != nil {
		return nil, fmt.Errorf("session %s: bad ticketId metadata: %w", sessionID, err)
	}
	if status.BookingID, err = uuid.Parse(s.Metadata["bookingId"]); err != nil {
		return nil, fmt.Errorf("session %s: bad bookingId metadata: %w", sessionID, err)
	}
	if status.Quantity, err = strconv.Atoi(s.Metadata["bookedQuantity"]); err != nil {
		return nil, fmt.Errorf("session %s: bad bookedQuantity metadata: %w", sessionID, err)
	}
	return status, nil
}
