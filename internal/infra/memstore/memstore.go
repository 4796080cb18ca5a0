// Package memstore keeps every record in process memory behind a single
// RWMutex. It backs the API when no DATABASE_URL is configured and gives the
// use case tests a real store to run against.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]*entity.User
	usersByEmail  map[string]string
	leads         map[string]*entity.Lead
	opportunities map[string]*entity.Opportunity
	callLogs      map[string]*entity.CallLog
}

func New() *Store {
	return &Store{
		users:         make(map[string]*entity.User),
		usersByEmail:  make(map[string]string),
		leads:         make(map[string]*entity.Lead),
		opportunities: make(map[string]*entity.Opportunity),
		callLogs:      make(map[string]*entity.CallLog),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Leads() *LeadRepository { return &LeadRepository{s} }
func (s *Store) Opportunities() *OpportunityRepository { return &OpportunityRepository{s} }
func (s *Store) CallLogs() *CallLogRepository { return &CallLogRepository{s} }

// newestFirst sorts by creation time descending, breaking ties by id.
func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		if a.Equal(b) {
			return id(items[i]) < id(items[j])
		}
		return a.After(b)
	})
}

func limited[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

type UserRepository struct{ s *Store }

// Create checks and inserts under one lock, so duplicate emails cannot race.
func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.usersByEmail[u.Email]; exists {
		return entity.ErrEmailAlreadyExists
	}
	cp := *u
	r.s.users[u.ID] = &cp
	r.s.usersByEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *r.s.users[id]
	return &cp, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) List(_ context.Context, limit int) ([]*entity.User, error) {
	r.s.mu.RLock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()

	newestFirst(out, func(u *entity.User) time.Time { return u.CreatedAt }, func(u *entity.User) string { return u.ID })
	return limited(out, limit), nil
}

type LeadRepository struct{ s *Store }

func (r *LeadRepository) Create(_ context.Context, lead *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *lead
	r.s.leads[lead.ID] = &cp
	return nil
}

func (r *LeadRepository) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *LeadRepository) List(_ context.Context, scope entity.Scope, limit int) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	var out []*entity.Lead
	for _, l := range r.s.leads {
		if scope.Permits(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	newestFirst(out, func(l *entity.Lead) time.Time { return l.CreatedAt }, func(l *entity.Lead) string { return l.ID })
	return limited(out, limit), nil
}

func (r *LeadRepository) Update(_ context.Context, lead *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.leads[lead.ID]
	if !ok {
		return entity.ErrNotFound
	}
	cp := *lead
	cp.CreatedBy = current.CreatedBy
	cp.CreatedAt = current.CreatedAt
	r.s.leads[lead.ID] = &cp
	return nil
}

func (r *LeadRepository) UpdateStatus(_ context.Context, id string, status entity.LeadStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.leads[id]
	if !ok {
		return entity.ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *LeadRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.leads[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.leads, id)
	return nil
}

func (r *LeadRepository) Stats(_ context.Context, scope entity.Scope) (entity.LeadStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var stats entity.LeadStats
	for _, l := range r.s.leads {
		if !scope.Permits(l) {
			continue
		}
		stats.Total++
		switch l.Status {
		case entity.LeadStatusNew:
			stats.New++
		case entity.LeadStatusQualified:
			stats.Qualified++
		}
	}
	return stats, nil
}

type OpportunityRepository struct{ s *Store }

func (r *OpportunityRepository) Create(_ context.Context, opp *entity.Opportunity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *opp
	r.s.opportunities[opp.ID] = &cp
	return nil
}

func (r *OpportunityRepository) FindByID(_ context.Context, id string) (*entity.Opportunity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.opportunities[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *OpportunityRepository) List(_ context.Context, scope entity.Scope, limit int) ([]*entity.Opportunity, error) {
	r.s.mu.RLock()
	var out []*entity.Opportunity
	for _, o := range r.s.opportunities {
		if scope.Permits(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	newestFirst(out, func(o *entity.Opportunity) time.Time { return o.CreatedAt }, func(o *entity.Opportunity) string { return o.ID })
	return limited(out, limit), nil
}

// Update only touches the mutable subset; lead and ownership stay as created.
func (r *OpportunityRepository) Update(_ context.Context, opp *entity.Opportunity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.opportunities[opp.ID]
	if !ok {
		return entity.ErrNotFound
	}
	current.Name = opp.Name
	current.Value = opp.Value
	current.Stage = opp.Stage
	current.ExpectedCloseDate = opp.ExpectedCloseDate
	current.Notes = opp.Notes
	current.UpdatedAt = opp.UpdatedAt
	return nil
}

func (r *OpportunityRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.opportunities[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.opportunities, id)
	return nil
}

func (r *OpportunityRepository) Stats(_ context.Context, scope entity.Scope) (entity.OpportunityStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var stats entity.OpportunityStats
	for _, o := range r.s.opportunities {
		if !scope.Permits(o) {
			continue
		}
		stats.Total++
		stats.TotalValue += o.Value
		if o.Stage == entity.StageWon {
			stats.Won++
		}
	}
	return stats, nil
}

type CallLogRepository struct{ s *Store }

func (r *CallLogRepository) Create(_ context.Context, call *entity.CallLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *call
	r.s.callLogs[call.ID] = &cp
	return nil
}

func (r *CallLogRepository) List(_ context.Context, scope entity.Scope, limit int) ([]*entity.CallLog, error) {
	r.s.mu.RLock()
	var out []*entity.CallLog
	for _, c := range r.s.callLogs {
		if scope.Permits(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	newestFirst(out, func(c *entity.CallLog) time.Time { return c.CreatedAt }, func(c *entity.CallLog) string { return c.ID })
	return limited(out, limit), nil
}
