package requestrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Insert(ctx context.Context, req *model.ItemRequest) error
	ByID(ctx context.Context, id int64) (*model.ItemRequest, error)
	ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error)
	ListByOthers(ctx context.Context, userID int64) ([]model.ItemRequest, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, req *model.ItemRequest) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO requests(requestor_id, description, created)
		VALUES ($1,$2,$3)
		RETURNING id`,
		req.RequestorID, req.Description, req.Created,
	).Scan(&req.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.ItemRequest, error) {
	req := &model.ItemRequest{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, requestor_id, description, created
		FROM requests
		WHERE id = $1`,
		id,
	).Scan(&req.ID, &req.RequestorID, &req.Description, &req.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error) {
	const q = `
		SELECT id, requestor_id, description, created
		FROM requests
		WHERE requestor_id = $1
		ORDER BY created DESC`
	return r.list(ctx, q, userID)
}

func (r *repo) ListByOthers(ctx context.Context, userID int64) ([]model.ItemRequest, error) {
	const q = `
		SELECT id, requestor_id, description, created
		FROM requests
		WHERE requestor_id <> $1
		ORDER BY created DESC`
	return r.list(ctx, q, userID)
}

func (r *repo) list(ctx context.Context, q string, userID int64) ([]model.ItemRequest, error) {
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ItemRequest
	for rows.Next() {
		var req model.ItemRequest
		if err := rows.Scan(&req.ID, &req.RequestorID, &req.Description, &req.Created); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
