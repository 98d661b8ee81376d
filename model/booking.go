// model/booking.go
package model

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingWaiting  BookingStatus = "WAITING"
	BookingApproved BookingStatus = "APPROVED"
	BookingRejected BookingStatus = "REJECTED"
	BookingCanceled BookingStatus = "CANCELED"
)

type Booking struct {
	ID       int64         `json:"id"`
	ItemID   int64         `json:"item_id"`
	BookerID int64         `json:"booker_id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Status   BookingStatus `json:"status"`
}

// BookingState is the listing filter, not a stored status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState validates a raw filter value. Empty input defaults to ALL.
func ParseBookingState(s string) (BookingState, error) {
	if s == "" {
		return StateAll, nil
	}
	switch st := BookingState(strings.ToUpper(s)); st {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	default:
		return "", fmt.Errorf("unknown state: %s", s)
	}
}
