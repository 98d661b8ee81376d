package bookingrepo

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

var dialect = goqu.Dialect("postgres")

const tblBookings = "bookings"

var bookingCols = []any{"id", "item_id", "booker_id", "starts_at", "ends_at", "status"}

type Repo interface {
	Insert(ctx context.Context, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*model.Booking, error)

	// UpdateStatus transitions status only when the stored value still equals
	// expected. Returns false when the guard did not match.
	UpdateStatus(ctx context.Context, id int64, expected, next model.BookingStatus) (bool, error)

	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.Booking, error)

	// Set-valued finders backing the batch last/next resolution.
	LastApprovedBefore(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error)
	NextApprovedAfter(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error)

	HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, b *model.Booking) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO bookings(item_id, booker_id, starts_at, ends_at, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		b.ItemID, b.BookerID, b.Start, b.End, b.Status,
	).Scan(&b.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	b := &model.Booking{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, item_id, booker_id, starts_at, ends_at, status
		FROM bookings
		WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, expected, next model.BookingStatus) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE bookings
		SET status = $3
		WHERE id = $1
		  AND status = $2`,
		id, expected, next,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repo) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time) ([]model.Booking, error) {
	return r.listFiltered(ctx, goqu.C("booker_id").Eq(bookerID), state, now)
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time) ([]model.Booking, error) {
	ownedItems := dialect.From("items").
		Select("id").
		Where(goqu.C("owner_id").Eq(ownerID))

	return r.listFiltered(ctx, goqu.C("item_id").In(ownedItems), state, now)
}

func (r *repo) listFiltered(ctx context.Context, scope goqu.Expression, state model.BookingState, now time.Time) ([]model.Booking, error) {
	return r.query(ctx, filtered(scope, state, now))
}

// filtered builds one statement for scope + state window, newest start first.
func filtered(scope goqu.Expression, state model.BookingState, now time.Time) *goqu.SelectDataset {
	ds := dialect.From(tblBookings).
		Select(bookingCols...).
		Where(scope)

	switch state {
	case model.StateCurrent:
		// Window check only: status is deliberately not constrained.
		ds = ds.Where(goqu.C("starts_at").Lte(now), goqu.C("ends_at").Gt(now))
	case model.StatePast:
		ds = ds.Where(goqu.C("ends_at").Lt(now))
	case model.StateFuture:
		ds = ds.Where(goqu.C("starts_at").Gt(now))
	case model.StateWaiting:
		ds = ds.Where(goqu.C("status").Eq(string(model.BookingWaiting)))
	case model.StateRejected:
		ds = ds.Where(goqu.C("status").Eq(string(model.BookingRejected)))
	}

	return ds.Order(goqu.I("starts_at").Desc())
}

func (r *repo) LastApprovedBefore(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error) {
	ds := dialect.From(tblBookings).
		Select(bookingCols...).
		Where(
			goqu.C("item_id").In(itemIDs),
			goqu.C("status").Eq(string(model.BookingApproved)),
			goqu.C("starts_at").Lt(now),
		).
		Order(goqu.I("starts_at").Desc())
	return r.query(ctx, ds)
}

func (r *repo) NextApprovedAfter(ctx context.Context, itemIDs []int64, now time.Time) ([]model.Booking, error) {
	ds := dialect.From(tblBookings).
		Select(bookingCols...).
		Where(
			goqu.C("item_id").In(itemIDs),
			goqu.C("status").Eq(string(model.BookingApproved)),
			goqu.C("starts_at").Gt(now),
		).
		Order(goqu.I("starts_at").Asc())
	return r.query(ctx, ds)
}

func (r *repo) HasFinishedApproved(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var ok bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE item_id = $1
			  AND booker_id = $2
			  AND status = $3
			  AND ends_at < $4
		)`,
		itemID, bookerID, model.BookingApproved, now,
	).Scan(&ok)
	return ok, err
}

func (r *repo) query(ctx context.Context, ds *goqu.SelectDataset) ([]model.Booking, error) {
	q, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
