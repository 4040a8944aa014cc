package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Participant identifies an attendee inside an order when the listing is
// expanded.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is one registration order for an event.
type Order struct {
	ID          string       `json:"id"`
	CreatedAt   string       `json:"created_at"`
	Status      string       `json:"status"`
	Amount      int64        `json:"amount"`
	Participant *Participant `json:"participant,omitempty"`
	Event       *struct {
		Title string `json:"title"`
		Price int64  `json:"price"`
	} `json:"event,omitempty"`
}

// OrderQuery narrows and sorts an order listing.
type OrderQuery struct {
	EventID string
	Expand  bool
	SortBy  string
	SortDir string
}

// ListOrders returns orders matching the query, typically the registrations
// for one event with participant details expanded for check-in.
func (c *Client) ListOrders(ctx context.Context, q OrderQuery) ([]Order, error) {
	query := url.Values{}
	if q.EventID != "" {
		query.Set("event_id", q.EventID)
	}
	if q.Expand {
		query.Set("expand", strconv.FormatBool(true))
	}
	if q.SortBy != "" {
		query.Set("sort_by", q.SortBy)
	}
	if q.SortDir != "" {
		query.Set("sort_dir", q.SortDir)
	}

	var orders []Order
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/orders",
		Query:  query,
		Out:    &orders,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// RegistrationInput carries a public event registration.
type RegistrationInput struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// RegistrationResult is the created order for a registration, including the
// payment reference the visitor is redirected to.
type RegistrationResult struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url,omitempty"`
}

// RegisterParticipant creates a participant plus order for an event. This is
// a public call: visitors register without an account.
func (c *Client) RegisterParticipant(ctx context.Context, in RegistrationInput) (RegistrationResult, error) {
	var res RegistrationResult
	err := c.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/participants",
		Body:   in,
		Out:    &res,
	})
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("register participant: %w", err)
	}
	return res, nil
}

// OrganizerApplication carries an application to become an event organizer.
type OrganizerApplication struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Message      string `json:"message,omitempty"`
}

// ApplyOrganizer submits an organizer application for review.
func (c *Client) ApplyOrganizer(ctx context.Context, in OrganizerApplication) error {
	if err := c.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/organizers/apply",
		Body:   in,
	}); err != nil {
		return fmt.Errorf("apply organizer: %w", err)
	}
	return nil
}
