package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"shareit/model"
	userrepo "shareit/repository/user"
	"shareit/service/fail"
)

type CreateReq struct {
	Name  string
	Email string
}

type UpdateReq struct {
	Name  *string
	Email *string
}

type Service interface {
	Create(ctx context.Context, in CreateReq) (*model.User, error)
	Update(ctx context.Context, userID int64, patch UpdateReq) (*model.User, error)
	GetByID(ctx context.Context, userID int64) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, userID int64) error
}

type service struct {
	r userrepo.Repo
}

func New(r userrepo.Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, in CreateReq) (*model.User, error) {
	u := &model.User{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if err := s.r.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, userID int64, patch UpdateReq) (*model.User, error) {
	u, err := s.r.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fail.NotFound("user not found")
	}

	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		u.Email = strings.TrimSpace(*patch.Email)
	}

	if err := s.r.Update(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.r.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fail.NotFound("user not found")
	}
	return u, nil
}

func (s *service) GetAll(ctx context.Context) ([]model.User, error) {
	return s.r.List(ctx)
}

func (s *service) Delete(ctx context.Context, userID int64) error {
	return s.r.Delete(ctx, userID)
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fail.Conflict("email already in use")
	}
	return nil
}
