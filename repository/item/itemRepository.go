package itemrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	Update(ctx context.Context, it *model.Item) error
	ByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	SearchAvailable(ctx context.Context, text string) ([]model.Item, error)
	ListByRequests(ctx context.Context, requestIDs []int64) ([]model.Item, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, it *model.Item) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO items(owner_id, name, description, available, request_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		it.OwnerID, it.Name, it.Description, it.Available, it.RequestID,
	).Scan(&it.ID)
}

func (r *repo) Update(ctx context.Context, it *model.Item) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE items
		SET name = $2, description = $3, available = $4
		WHERE id = $1`,
		it.ID, it.Name, it.Description, it.Available,
	)
	return err
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Item, error) {
	it := &model.Item{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &it.RequestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	const q = `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE owner_id = $1
		ORDER BY id`
	return r.list(ctx, q, ownerID)
}

func (r *repo) SearchAvailable(ctx context.Context, text string) ([]model.Item, error) {
	const q = `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE available
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY id`
	return r.list(ctx, q, text)
}

func (r *repo) ListByRequests(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	const q = `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE request_id = ANY($1)
		ORDER BY id`
	return r.list(ctx, q, requestIDs)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
