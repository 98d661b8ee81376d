package booking

import (
	"context"
	"time"

	"shareit/model"
	"shareit/service/fail"
	"shareit/util/clock"
)

// Collaborator surfaces, satisfied by the repository packages.

type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ItemDirectory interface {
	ByID(ctx context.Context, id int64) (*model.Item, error)
}

type Store interface {
	Insert(ctx context.Context, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expected, next model.BookingStatus) (bool, error)
	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.Booking, error)
}

type CreateReq struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type Service interface {
	// Create inserts a new booking in WAITING, pending the owner's decision.
	Create(ctx context.Context, bookerID int64, in CreateReq) (*model.Booking, error)

	// Approve settles a WAITING booking: APPROVED or REJECTED. Owner only.
	Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*model.Booking, error)

	// Cancel withdraws a booking before its end. Booker only; idempotent on
	// an already canceled booking.
	Cancel(ctx context.Context, userID, bookingID int64) (*model.Booking, error)

	GetByID(ctx context.Context, userID, bookingID int64) (*model.Booking, error)
	ListByBooker(ctx context.Context, userID int64, state model.BookingState) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState) ([]model.Booking, error)
}

type service struct {
	users UserDirectory
	items ItemDirectory
	store Store
	clk   clock.Clock
}

func New(users UserDirectory, items ItemDirectory, store Store, clk clock.Clock) Service {
	return &service{users: users, items: items, store: store, clk: clk}
}

func (s *service) Create(ctx context.Context, bookerID int64, in CreateReq) (*model.Booking, error) {
	ok, err := s.users.Exists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail.NotFound("user not found")
	}

	item, err := s.items.ByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fail.NotFound("item not found")
	}

	if item.OwnerID == bookerID {
		return nil, fail.NotFound("cannot book own item")
	}

	if !item.Available {
		return nil, fail.Invalid("item not available")
	}

	if err := s.validateDates(in.Start, in.End); err != nil {
		return nil, err
	}

	b := &model.Booking{
		ItemID:   in.ItemID,
		BookerID: bookerID,
		Start:    in.Start,
		End:      in.End,
		Status:   model.BookingWaiting,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*model.Booking, error) {
	b, err := s.store.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fail.NotFound("booking not found")
	}

	item, err := s.items.ByID(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.OwnerID != ownerID {
		return nil, fail.Forbidden("only owner may decide")
	}

	if b.Status != model.BookingWaiting {
		return nil, fail.Invalid("decision already made")
	}

	next := model.BookingRejected
	if approved {
		next = model.BookingApproved
	}

	// Guarded update: a concurrent decision loses the race and is rejected
	// the same way a late repeated call is.
	ok, err := s.store.UpdateStatus(ctx, b.ID, model.BookingWaiting, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail.Invalid("decision already made")
	}

	b.Status = next
	return b, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	b, err := s.store.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fail.NotFound("booking not found")
	}

	if b.BookerID != userID {
		return nil, fail.Forbidden("only author may cancel")
	}

	if b.Status == model.BookingCanceled {
		return b, nil
	}

	if b.Status == model.BookingRejected {
		return nil, fail.Invalid("cannot cancel a rejected booking")
	}

	if b.End.Before(s.clk.Now()) {
		return nil, fail.Invalid("cannot cancel a finished booking")
	}

	ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, model.BookingCanceled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail.Invalid("booking state changed")
	}

	b.Status = model.BookingCanceled
	return b, nil
}

func (s *service) GetByID(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail.NotFound("user not found")
	}

	b, err := s.store.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fail.NotFound("booking not found")
	}

	if b.BookerID == userID {
		return b, nil
	}

	item, err := s.items.ByID(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if item != nil && item.OwnerID == userID {
		return b, nil
	}
	return nil, fail.Forbidden("no access to booking")
}

func (s *service) ListByBooker(ctx context.Context, userID int64, state model.BookingState) ([]model.Booking, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail.NotFound("user not found")
	}
	return s.store.ListByBooker(ctx, userID, state, s.clk.Now())
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState) ([]model.Booking, error) {
	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail.NotFound("user not found")
	}
	return s.store.ListByOwner(ctx, ownerID, state, s.clk.Now())
}

func (s *service) validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fail.Invalid("start and end are required")
	}
	if !start.Before(end) {
		return fail.Invalid("start must be before end")
	}
	if start.Before(s.clk.Now()) {
		return fail.Invalid("start cannot be in the past")
	}
	return nil
}
