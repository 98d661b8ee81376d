// service/item/item_service_test.go
package item_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shareit/model"
	"shareit/service/fail"
	"shareit/service/item"
	"shareit/util/clock"
)

var now = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

type usersMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return &model.User{ID: id, Name: "user", Email: "user@example.com"}, nil
	}
	return m.byIDFn(ctx, id)
}

type storeMock struct {
	createFn func(ctx context.Context, it *model.Item) error
	updateFn func(ctx context.Context, it *model.Item) error
	byIDFn   func(ctx context.Context, id int64) (*model.Item, error)

	items []model.Item

	searchCalls int
	listCalls   int
}

func (m *storeMock) Create(ctx context.Context, it *model.Item) error {
	if m.createFn == nil {
		it.ID = 1
		return nil
	}
	return m.createFn(ctx, it)
}

func (m *storeMock) Update(ctx context.Context, it *model.Item) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, it)
}

func (m *storeMock) ByID(ctx context.Context, id int64) (*model.Item, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	for i := range m.items {
		if m.items[i].ID == id {
			return &m.items[i], nil
		}
	}
	return nil, nil
}

func (m *storeMock) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	m.listCalls++
	var out []model.Item
	for _, it := range m.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *storeMock) SearchAvailable(ctx context.Context, text string) ([]model.Item, error) {
	m.searchCalls++
	return nil, nil
}

// bookingsMock emulates the store's filtering and ordering over a flat slice,
// counting queries so the batch path can be asserted O(1).
type bookingsMock struct {
	bookings []model.Booking
	calls    int
}

func (m *bookingsMock) LastApprovedBefore(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error) {
	m.calls++
	out := m.filter(itemIDs, func(b model.Booking) bool { return b.Start.Before(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out, nil
}

func (m *bookingsMock) NextApprovedAfter(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error) {
	m.calls++
	out := m.filter(itemIDs, func(b model.Booking) bool { return b.Start.After(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *bookingsMock) HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	m.calls++
	for _, b := range m.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == model.BookingApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (m *bookingsMock) filter(itemIDs []int64, window func(model.Booking) bool) []model.Booking {
	ids := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = true
	}
	var out []model.Booking
	for _, b := range m.bookings {
		if ids[b.ItemID] && b.Status == model.BookingApproved && window(b) {
			out = append(out, b)
		}
	}
	return out
}

type commentsMock struct {
	rows  []item.CommentRow
	calls int

	insertFn func(ctx context.Context, c *model.Comment) error
}

func (m *commentsMock) Insert(ctx context.Context, c *model.Comment) error {
	if m.insertFn == nil {
		c.ID = 1
		return nil
	}
	return m.insertFn(ctx, c)
}

func (m *commentsMock) ListByItem(ctx context.Context, itemID int64) ([]item.CommentRow, error) {
	m.calls++
	var out []item.CommentRow
	for _, r := range m.rows {
		if r.ItemID == itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *commentsMock) ListByItems(ctx context.Context, itemIDs []int64) ([]item.CommentRow, error) {
	m.calls++
	ids := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = true
	}
	var out []item.CommentRow
	for _, r := range m.rows {
		if ids[r.ItemID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func newService(users *usersMock, store *storeMock, bookings *bookingsMock, comments *commentsMock) item.Service {
	return item.New(users, store, bookings, comments, clock.Fixed(now))
}

// --- batch aggregation ---

func TestGetAll_LastNextAndComments(t *testing.T) {
	store := &storeMock{items: []model.Item{
		{ID: 1, OwnerID: 9, Name: "A", Available: true},
		{ID: 2, OwnerID: 9, Name: "B", Available: true},
		{ID: 3, OwnerID: 9, Name: "C", Available: true},
	}}
	bookings := &bookingsMock{bookings: []model.Booking{
		// A: one finished, one upcoming, both approved; plus an older one
		// that must lose to the most recent past booking.
		{ID: 11, ItemID: 1, BookerID: 4, Start: now.Add(-48 * time.Hour), End: now.Add(-47 * time.Hour), Status: model.BookingApproved},
		{ID: 12, ItemID: 1, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: model.BookingApproved},
		{ID: 13, ItemID: 1, BookerID: 5, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: model.BookingApproved},
		{ID: 14, ItemID: 1, BookerID: 5, Start: now.Add(24 * time.Hour), End: now.Add(25 * time.Hour), Status: model.BookingApproved},
		// B: only a waiting booking, which must not surface.
		{ID: 15, ItemID: 2, BookerID: 4, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: model.BookingWaiting},
	}}
	comments := &commentsMock{rows: []item.CommentRow{
		{ID: 21, ItemID: 1, AuthorID: 4, AuthorName: "renter", Text: "great drill", Created: now.Add(-time.Hour)},
	}}
	svc := newService(&usersMock{}, store, bookings, comments)

	out, err := svc.GetAll(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, out, 3)

	a, b, c := out[0], out[1], out[2]

	require.NotNil(t, a.LastBooking)
	require.Equal(t, int64(12), a.LastBooking.ID)
	require.NotNil(t, a.NextBooking)
	require.Equal(t, int64(13), a.NextBooking.ID)
	require.Len(t, a.Comments, 1)

	require.Nil(t, b.LastBooking)
	require.Nil(t, b.NextBooking)
	require.Empty(t, b.Comments)

	require.Nil(t, c.LastBooking)
	require.Nil(t, c.NextBooking)
	require.Empty(t, c.Comments)
}

func TestGetAll_ConstantQueryCount(t *testing.T) {
	for _, n := range []int{3, 300} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			store := &storeMock{}
			for i := 1; i <= n; i++ {
				store.items = append(store.items, model.Item{ID: int64(i), OwnerID: 9, Name: fmt.Sprintf("item-%d", i), Available: true})
			}
			bookings := &bookingsMock{}
			comments := &commentsMock{}
			svc := newService(&usersMock{}, store, bookings, comments)

			_, err := svc.GetAll(context.Background(), 9)
			require.NoError(t, err)
			require.Equal(t, 2, bookings.calls)
			require.Equal(t, 1, comments.calls)
		})
	}
}

func TestGetAll_NoItems(t *testing.T) {
	store := &storeMock{}
	bookings := &bookingsMock{}
	comments := &commentsMock{}
	svc := newService(&usersMock{}, store, bookings, comments)

	out, err := svc.GetAll(context.Background(), 9)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Zero(t, bookings.calls)
	require.Zero(t, comments.calls)
}

// --- detail view ---

func TestGetByID_OwnerSeesCalendar(t *testing.T) {
	store := &storeMock{items: []model.Item{{ID: 1, OwnerID: 9, Name: "A", Available: true}}}
	bookings := &bookingsMock{bookings: []model.Booking{
		{ID: 12, ItemID: 1, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: model.BookingApproved},
		{ID: 13, ItemID: 1, BookerID: 5, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: model.BookingApproved},
	}}
	comments := &commentsMock{}
	svc := newService(&usersMock{}, store, bookings, comments)

	out, err := svc.GetByID(context.Background(), 9, 1)
	require.NoError(t, err)
	require.NotNil(t, out.LastBooking)
	require.Equal(t, int64(12), out.LastBooking.ID)
	require.NotNil(t, out.NextBooking)
	require.Equal(t, int64(13), out.NextBooking.ID)
}

func TestGetByID_NonOwnerCalendarHidden(t *testing.T) {
	store := &storeMock{items: []model.Item{{ID: 1, OwnerID: 9, Name: "A", Available: true}}}
	bookings := &bookingsMock{bookings: []model.Booking{
		{ID: 12, ItemID: 1, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: model.BookingApproved},
	}}
	comments := &commentsMock{rows: []item.CommentRow{
		{ID: 21, ItemID: 1, AuthorID: 4, AuthorName: "renter", Text: "works", Created: now.Add(-time.Hour)},
	}}
	svc := newService(&usersMock{}, store, bookings, comments)

	out, err := svc.GetByID(context.Background(), 4, 1)
	require.NoError(t, err)
	require.Nil(t, out.LastBooking)
	require.Nil(t, out.NextBooking)
	require.Len(t, out.Comments, 1)
	require.Zero(t, bookings.calls)
}

func TestGetByID_MissingItem(t *testing.T) {
	svc := newService(&usersMock{}, &storeMock{}, &bookingsMock{}, &commentsMock{})

	_, err := svc.GetByID(context.Background(), 4, 1)
	require.Error(t, err)
	require.Equal(t, fail.KindNotFound, fail.KindOf(err))
}

// --- comment gate ---

func TestCanComment(t *testing.T) {
	bookings := &bookingsMock{bookings: []model.Booking{
		{ID: 12, ItemID: 1, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: model.BookingApproved},
		{ID: 13, ItemID: 2, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(time.Hour), Status: model.BookingApproved},
		{ID: 14, ItemID: 3, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: model.BookingRejected},
	}}
	svc := newService(&usersMock{}, &storeMock{}, bookings, &commentsMock{})
	ctx := context.Background()

	cases := []struct {
		name     string
		authorID int64
		itemID   int64
		want     bool
	}{
		{"finished approved rental", 4, 1, true},
		{"rental still running", 4, 2, false},
		{"rejected rental", 4, 3, false},
		{"someone else's rental", 5, 1, false},
		{"no rental at all", 4, 99, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.CanComment(ctx, tc.authorID, tc.itemID)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCanComment_TurnsTrueOnceRentalEnds(t *testing.T) {
	end := now.Add(time.Minute)
	bookings := &bookingsMock{bookings: []model.Booking{
		{ID: 12, ItemID: 1, BookerID: 4, Start: now.Add(-time.Hour), End: end, Status: model.BookingApproved},
	}}

	before := item.New(&usersMock{}, &storeMock{}, bookings, &commentsMock{}, clock.Fixed(now))
	ok, err := before.CanComment(context.Background(), 4, 1)
	require.NoError(t, err)
	require.False(t, ok)

	after := item.New(&usersMock{}, &storeMock{}, bookings, &commentsMock{}, clock.Fixed(end.Add(time.Second)))
	ok, err = after.CanComment(context.Background(), 4, 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAddComment_NotEligible(t *testing.T) {
	store := &storeMock{items: []model.Item{{ID: 1, OwnerID: 9, Name: "A", Available: true}}}
	svc := newService(&usersMock{}, store, &bookingsMock{}, &commentsMock{})

	_, err := svc.AddComment(context.Background(), 4, 1, "nice")
	require.Error(t, err)
	require.Equal(t, fail.KindInvalid, fail.KindOf(err))
	require.Equal(t, "comment allowed only after a completed rental", err.Error())
}

func TestAddComment_Success(t *testing.T) {
	store := &storeMock{items: []model.Item{{ID: 1, OwnerID: 9, Name: "A", Available: true}}}
	bookings := &bookingsMock{bookings: []model.Booking{
		{ID: 12, ItemID: 1, BookerID: 4, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), Status: model.BookingApproved},
	}}
	var inserted *model.Comment
	comments := &commentsMock{insertFn: func(ctx context.Context, c *model.Comment) error {
		c.ID = 31
		inserted = c
		return nil
	}}
	users := &usersMock{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, Name: "renter"}, nil
	}}
	svc := newService(users, store, bookings, comments)

	out, err := svc.AddComment(context.Background(), 4, 1, "nice drill")
	require.NoError(t, err)
	require.Equal(t, int64(31), out.ID)
	require.Equal(t, "renter", out.AuthorName)
	require.NotNil(t, inserted)
	require.Equal(t, now, inserted.Created)
}

// --- crud ---

func TestUpdate_OnlyOwner(t *testing.T) {
	store := &storeMock{items: []model.Item{{ID: 1, OwnerID: 9, Name: "A", Available: true}}}
	svc := newService(&usersMock{}, store, &bookingsMock{}, &commentsMock{})

	_, err := svc.Update(context.Background(), 4, 1, item.UpdateReq{})
	require.Error(t, err)
	require.Equal(t, fail.KindNotFound, fail.KindOf(err))
}

func TestUpdate_Partial(t *testing.T) {
	store := &storeMock{items: []model.Item{{ID: 1, OwnerID: 9, Name: "A", Description: "old", Available: true}}}
	svc := newService(&usersMock{}, store, &bookingsMock{}, &commentsMock{})

	name := "B"
	available := false
	out, err := svc.Update(context.Background(), 9, 1, item.UpdateReq{Name: &name, Available: &available})
	require.NoError(t, err)
	require.Equal(t, "B", out.Name)
	require.Equal(t, "old", out.Description)
	require.False(t, out.Available)
}

func TestSearch_BlankText(t *testing.T) {
	store := &storeMock{}
	svc := newService(&usersMock{}, store, &bookingsMock{}, &commentsMock{})

	out, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Zero(t, store.searchCalls)
}
