package request

import (
	"context"
	"time"

	"github.com/samber/lo"

	"shareit/model"
	"shareit/service/fail"
	"shareit/util/clock"
)

// Collaborator surfaces, satisfied by the repository packages.

type Users interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Store interface {
	Insert(ctx context.Context, req *model.ItemRequest) error
	ByID(ctx context.Context, id int64) (*model.ItemRequest, error)
	ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error)
	ListByOthers(ctx context.Context, userID int64) ([]model.ItemRequest, error)
}

type Items interface {
	ListByRequests(ctx context.Context, requestIDs []int64) ([]model.Item, error)
}

// OfferedItem is an item listed in answer to a request.
type OfferedItem struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

type View struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     time.Time     `json:"created"`
	Items       []OfferedItem `json:"items"`
}

type Service interface {
	Create(ctx context.Context, userID int64, description string) (*View, error)
	GetOwn(ctx context.Context, userID int64) ([]View, error)
	GetOthers(ctx context.Context, userID int64) ([]View, error)
	GetByID(ctx context.Context, userID, requestID int64) (*View, error)
}

type service struct {
	users Users
	store Store
	items Items
	clk   clock.Clock
}

func New(users Users, store Store, items Items, clk clock.Clock) Service {
	return &service{users: users, store: store, items: items, clk: clk}
}

func (s *service) Create(ctx context.Context, userID int64, description string) (*View, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req := &model.ItemRequest{
		RequestorID: userID,
		Description: description,
		Created:     s.clk.Now(),
	}
	if err := s.store.Insert(ctx, req); err != nil {
		return nil, err
	}
	return &View{ID: req.ID, Description: req.Description, Created: req.Created, Items: []OfferedItem{}}, nil
}

func (s *service) GetOwn(ctx context.Context, userID int64) ([]View, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.store.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, reqs)
}

func (s *service) GetOthers(ctx context.Context, userID int64) ([]View, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.store.ListByOthers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, reqs)
}

func (s *service) GetByID(ctx context.Context, userID, requestID int64) (*View, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.store.ByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fail.NotFound("request not found")
	}

	views, err := s.withItems(ctx, []model.ItemRequest{*req})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// withItems attaches offered items to each request with a single items query.
func (s *service) withItems(ctx context.Context, reqs []model.ItemRequest) ([]View, error) {
	if len(reqs) == 0 {
		return []View{}, nil
	}

	ids := lo.Map(reqs, func(r model.ItemRequest, _ int) int64 { return r.ID })
	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]OfferedItem, len(reqs))
	for _, it := range items {
		if it.RequestID == nil {
			continue
		}
		byRequest[*it.RequestID] = append(byRequest[*it.RequestID], OfferedItem{
			ID:      it.ID,
			Name:    it.Name,
			OwnerID: it.OwnerID,
		})
	}

	out := make([]View, 0, len(reqs))
	for _, r := range reqs {
		offered := byRequest[r.ID]
		if offered == nil {
			offered = []OfferedItem{}
		}
		out = append(out, View{ID: r.ID, Description: r.Description, Created: r.Created, Items: offered})
	}
	return out, nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fail.NotFound("user not found")
	}
	return nil
}
