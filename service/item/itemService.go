package item

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"shareit/model"
	commentrepo "shareit/repository/comment"
	"shareit/service/fail"
	"shareit/util/clock"
)

// CommentRow = repository shape
type CommentRow = commentrepo.Row

// Collaborator surfaces, satisfied by the repository packages.

type Users interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Store interface {
	Create(ctx context.Context, it *model.Item) error
	Update(ctx context.Context, it *model.Item) error
	ByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	SearchAvailable(ctx context.Context, text string) ([]model.Item, error)
}

type Bookings interface {
	LastApprovedBefore(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error)
	NextApprovedAfter(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error)
	HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type Comments interface {
	Insert(ctx context.Context, c *model.Comment) error
	ListByItem(ctx context.Context, itemID int64) ([]CommentRow, error)
	ListByItems(ctx context.Context, itemIDs []int64) ([]CommentRow, error)
}

// dto

type CreateReq struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

type UpdateReq struct {
	Name        *string
	Description *string
	Available   *bool
}

type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Details is an item plus its rental calendar edges and comments. Last/next
// are only filled for the owner's view.
type Details struct {
	model.Item
	LastBooking *BookingShort `json:"last_booking,omitempty"`
	NextBooking *BookingShort `json:"next_booking,omitempty"`
	Comments    []CommentRow  `json:"comments"`
}

type Service interface {
	Add(ctx context.Context, ownerID int64, in CreateReq) (*model.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, patch UpdateReq) (*model.Item, error)
	GetByID(ctx context.Context, viewerID, itemID int64) (*Details, error)

	// GetAll resolves every item of the owner with last/next booking and
	// comments in a constant number of store queries.
	GetAll(ctx context.Context, ownerID int64) ([]Details, error)

	Search(ctx context.Context, text string) ([]model.Item, error)

	AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentRow, error)
	CanComment(ctx context.Context, authorID, itemID int64) (bool, error)
}

// ----- Service implementation -----

type service struct {
	users    Users
	store    Store
	bookings Bookings
	comments Comments
	clk      clock.Clock
}

func New(users Users, store Store, bookings Bookings, comments Comments, clk clock.Clock) Service {
	return &service{users: users, store: store, bookings: bookings, comments: comments, clk: clk}
}

func (s *service) Add(ctx context.Context, ownerID int64, in CreateReq) (*model.Item, error) {
	owner, err := s.users.ByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fail.NotFound("user not found")
	}

	it := &model.Item{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		RequestID:   in.RequestID,
	}
	if err := s.store.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, ownerID, itemID int64, patch UpdateReq) (*model.Item, error) {
	owner, err := s.users.ByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fail.NotFound("user not found")
	}

	it, err := s.store.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fail.NotFound("item not found")
	}

	if it.OwnerID != ownerID {
		return nil, fail.NotFound("only owner may edit item")
	}

	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Available != nil {
		it.Available = *patch.Available
	}

	if err := s.store.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, viewerID, itemID int64) (*Details, error) {
	viewer, err := s.users.ByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, fail.NotFound("user not found")
	}

	it, err := s.store.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fail.NotFound("item not found")
	}

	comments, err := s.comments.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	d := &Details{Item: *it, Comments: emptyIfNil(comments)}

	// A non-owner never sees the item's booking calendar.
	if it.OwnerID != viewerID {
		return d, nil
	}

	now := s.clk.Now()
	last, err := s.bookings.LastApprovedBefore(ctx, []int64{itemID}, now)
	if err != nil {
		return nil, err
	}
	if len(last) > 0 {
		d.LastBooking = shortOf(last[0])
	}

	next, err := s.bookings.NextApprovedAfter(ctx, []int64{itemID}, now)
	if err != nil {
		return nil, err
	}
	if len(next) > 0 {
		d.NextBooking = shortOf(next[0])
	}
	return d, nil
}

func (s *service) GetAll(ctx context.Context, ownerID int64) ([]Details, error) {
	owner, err := s.users.ByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fail.NotFound("user not found")
	}

	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Details{}, nil
	}

	ids := lo.Map(items, func(it model.Item, _ int) int64 { return it.ID })
	now := s.clk.Now()

	// Three queries total, whatever the item count. Each result comes back
	// ordered so the first booking seen per item is the one we keep.
	last, err := s.bookings.LastApprovedBefore(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	next, err := s.bookings.NextApprovedAfter(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	lastByItem := firstPerItem(last)
	nextByItem := firstPerItem(next)
	commentsByItem := lo.GroupBy(comments, func(c CommentRow) int64 { return c.ItemID })

	out := make([]Details, 0, len(items))
	for _, it := range items {
		out = append(out, Details{
			Item:        it,
			LastBooking: lastByItem[it.ID],
			NextBooking: nextByItem[it.ID],
			Comments:    emptyIfNil(commentsByItem[it.ID]),
		})
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, text string) ([]model.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	return s.store.SearchAvailable(ctx, text)
}

func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentRow, error) {
	author, err := s.users.ByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fail.NotFound("user not found")
	}

	it, err := s.store.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fail.NotFound("item not found")
	}

	allowed, err := s.CanComment(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fail.Invalid("comment allowed only after a completed rental")
	}

	c := &model.Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
		Created:  s.clk.Now(),
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, err
	}

	return &CommentRow{
		ID:         c.ID,
		ItemID:     c.ItemID,
		AuthorID:   c.AuthorID,
		AuthorName: author.Name,
		Text:       c.Text,
		Created:    c.Created,
	}, nil
}

func (s *service) CanComment(ctx context.Context, authorID, itemID int64) (bool, error) {
	return s.bookings.HasFinishedApproved(ctx, itemID, authorID, s.clk.Now())
}

// firstPerItem keeps the first booking seen per item id; input ordering makes
// that the latest-before-now or earliest-after-now one.
func firstPerItem(bookings []model.Booking) map[int64]*BookingShort {
	out := make(map[int64]*BookingShort, len(bookings))
	for _, b := range bookings {
		if _, seen := out[b.ItemID]; !seen {
			out[b.ItemID] = shortOf(b)
		}
	}
	return out
}

func shortOf(b model.Booking) *BookingShort {
	return &BookingShort{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

func emptyIfNil(rows []CommentRow) []CommentRow {
	if rows == nil {
		return []CommentRow{}
	}
	return rows
}
