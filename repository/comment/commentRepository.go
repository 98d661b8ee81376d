package commentrepo

import (
	"context"
	"time"

	"shareit/model"
	"shareit/util/database"
)

// Row carries a comment joined with its author's name, the shape controllers render.
type Row struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
}

type Repo interface {
	Insert(ctx context.Context, c *model.Comment) error
	ListByItem(ctx context.Context, itemID int64) ([]Row, error)
	ListByItems(ctx context.Context, itemIDs []int64) ([]Row, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, c *model.Comment) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO comments(item_id, author_id, text, created)
		VALUES ($1,$2,$3,$4)
		RETURNING id`,
		c.ItemID, c.AuthorID, c.Text, c.Created,
	).Scan(&c.ID)
}

func (r *repo) ListByItem(ctx context.Context, itemID int64) ([]Row, error) {
	const q = `
		SELECT c.id, c.item_id, c.author_id, u.name, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created DESC`
	return r.list(ctx, q, itemID)
}

func (r *repo) ListByItems(ctx context.Context, itemIDs []int64) ([]Row, error) {
	const q = `
		SELECT c.id, c.item_id, c.author_id, u.name, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = ANY($1)
		ORDER BY c.created DESC`
	return r.list(ctx, q, itemIDs)
}

func (r *repo) list(ctx context.Context, q string, arg any) ([]Row, error) {
	rows, err := r.db.Pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var c Row
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
