// Package client is a programmatic client for the ShareIt API, speaking the
// same protocol the gateway does: JSON bodies plus the caller id header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shareit/model"
	"shareit/util/httpx"
)

const userHeader = "X-Sharer-User-Id"

// APIError is a non-2xx response with the server's message preserved.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shareit: %d %s", e.Status, e.Message)
}

type Client struct {
	base string
	http *http.Client
}

func New(base string) *Client {
	return &Client{base: strings.TrimRight(base, "/"), http: httpx.Client()}
}

// dto

type CreateUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateItemReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

type CreateBookingReq struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserReq) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/users", 0, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateItem(ctx context.Context, ownerID int64, in CreateItemReq) (*model.Item, error) {
	var out model.Item
	if err := c.do(ctx, http.MethodPost, "/items", ownerID, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, bookerID int64, in CreateBookingReq) (*model.Booking, error) {
	var out model.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", bookerID, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*model.Booking, error) {
	path := fmt.Sprintf("/bookings/%d?approved=%t", bookingID, approved)
	var out model.Booking
	if err := c.do(ctx, http.MethodPatch, path, ownerID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, bookerID, bookingID int64) (*model.Booking, error) {
	var out model.Booking
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", bookingID), bookerID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBooking(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	var out model.Booking
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", bookingID), userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context, bookerID int64, state model.BookingState) ([]model.Booking, error) {
	var out []model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings?state="+url.QueryEscape(string(state)), bookerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, authorID, itemID int64, text string) error {
	body := map[string]string{"text": text}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/items/%d/comment", itemID), authorID, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, callerID int64, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if callerID > 0 {
		req.Header.Set(userHeader, strconv.FormatInt(callerID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var bad struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&bad)
		return &APIError{Status: resp.StatusCode, Message: bad.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
