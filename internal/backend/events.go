package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Event is an event/seminar record as the backend returns it.
type Event struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Datetime       string  `json:"datetime"`
	Location       string  `json:"location"`
	Capacity       int     `json:"capacity"`
	Price          int64   `json:"price"`
	Status         string  `json:"status"`
	OwnerID        string  `json:"owner_id"`
	Image          string  `json:"image,omitempty"`
	CertBackground *string `json:"cert_background,omitempty"`
}

// EventPayload carries fields for event creation and update. Pointer fields
// are omitted when nil so partial updates only touch what the caller set.
type EventPayload struct {
	Title          string  `json:"title,omitempty"`
	Organizer      string  `json:"organizer,omitempty"`
	Datetime       string  `json:"datetime,omitempty"`
	Location       string  `json:"location,omitempty"`
	Image          string  `json:"image,omitempty"`
	Description    string  `json:"description,omitempty"`
	Capacity       *int    `json:"capacity,omitempty"`
	Price          *int64  `json:"price,omitempty"`
	Status         string  `json:"status,omitempty"`
	CertBackground *string `json:"cert_background,omitempty"`
}

// ListEvents returns all published events (public listing).
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/events",
		Out:    &events,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListMyEvents returns the events owned by the authenticated organizer.
func (c *Client) ListMyEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/events/mine",
		Out:    &events,
	})
	if err != nil {
		return nil, fmt.Errorf("list my events: %w", err)
	}
	return events, nil
}

// GetEvent returns one event by ID.
func (c *Client) GetEvent(ctx context.Context, id string) (Event, error) {
	var event Event
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/events/" + url.PathEscape(id),
		Out:    &event,
	})
	if err != nil {
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// CreateEvent creates an event owned by the authenticated organizer.
func (c *Client) CreateEvent(ctx context.Context, payload EventPayload) (Event, error) {
	var event Event
	err := c.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/events",
		Body:   payload,
		Out:    &event,
	})
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// UpdateEvent applies a partial update to an event.
func (c *Client) UpdateEvent(ctx context.Context, id string, payload EventPayload) (Event, error) {
	var event Event
	err := c.do(ctx, requestParams{
		Method: http.MethodPut,
		Path:   "/api/events/" + url.PathEscape(id),
		Body:   payload,
		Out:    &event,
	})
	if err != nil {
		return Event{}, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	if err := c.do(ctx, requestParams{
		Method: http.MethodDelete,
		Path:   "/api/events/" + url.PathEscape(id),
	}); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// UploadImage uploads an image (event banner or certificate background) and
// returns the public URL the backend assigned. The upload endpoint does not
// use the data envelope; it returns {"url": ...} directly.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err = io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy upload content: %w", err)
	}
	if err = mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/upload/image",
	})
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(&buf)
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload image: %w", c.handleErrorStatus(ctx, resp))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload image: backend returned no URL")
	}
	return out.URL, nil
}
