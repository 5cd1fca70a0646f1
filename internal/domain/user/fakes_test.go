package user_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"usersvc/internal/core/apperror"
	"usersvc/internal/core/db"
	"usersvc/internal/core/id"
	"usersvc/internal/domain/user"
	"usersvc/internal/events"
)

// memRepo is an in-memory user.Repository for unit tests. It enforces the
// email uniqueness constraint the way the database would, so service tests
// exercise the constraint-as-authority path too.
type memRepo struct {
	mu    sync.Mutex
	users map[id.ID]*user.User
	// clock makes created_at strictly increasing so list ordering is
	// deterministic in tests.
	clock time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		users: make(map[id.ID]*user.User),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memRepo) Create(ctx context.Context, dbCtx db.Context, in user.CreateUser) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == in.Email {
			return nil, apperror.NewDuplicate("user", "email", in.Email)
		}
	}

	now := r.tick()
	u := &user.User{
		ID:        id.New(),
		Email:     in.Email,
		Name:      in.Name,
		Age:       in.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[u.ID] = u
	return copyUser(u), nil
}

func (r *memRepo) GetByID(ctx context.Context, dbCtx db.Context, userID id.ID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *memRepo) GetByEmail(ctx context.Context, dbCtx db.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memRepo) Update(ctx context.Context, dbCtx db.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[u.ID]
	if !ok {
		return nil, apperror.NewNotFound("user", u.ID.String())
	}

	for _, other := range r.users {
		if other.ID != u.ID && other.Email == u.Email {
			return nil, apperror.NewDuplicate("user", "email", u.Email)
		}
	}

	current.Email = u.Email
	current.Name = u.Name
	current.Age = u.Age
	current.UpdatedAt = r.tick()
	return copyUser(current), nil
}

func (r *memRepo) UpdatePartial(ctx context.Context, dbCtx db.Context, userID id.ID, patch user.Patch) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}

	if email, ok := patch.Email.Get(); ok {
		for _, other := range r.users {
			if other.ID != userID && other.Email == email {
				return nil, apperror.NewDuplicate("user", "email", email)
			}
		}
		current.Email = email
	}
	if name, ok := patch.Name.Get(); ok {
		current.Name = name
	}
	if patch.Age.IsSet() {
		if age, ok := patch.Age.Get(); ok {
			current.Age = &age
		} else {
			current.Age = nil
		}
	}

	current.UpdatedAt = r.tick()
	return copyUser(current), nil
}

func (r *memRepo) Delete(ctx context.Context, dbCtx db.Context, userID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return apperror.NewNotFound("user", userID.String())
	}
	delete(r.users, userID)
	return nil
}

func (r *memRepo) List(ctx context.Context, dbCtx db.Context, limit, offset int) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memRepo) Count(ctx context.Context, dbCtx db.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func copyUser(u *user.User) *user.User {
	cp := *u
	if u.Age != nil {
		age := *u.Age
		cp.Age = &age
	}
	return &cp
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func intPtr(v int) *int { return &v }
