package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/memstore"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// recordingPublisher keeps every event it receives.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.PipelineEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, e queue.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) ofType(t string) []queue.PipelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []queue.PipelineEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	store     *memstore.Store
	events    *recordingPublisher
	tokens    *security.TokenService
	auth      *usecase.AuthUseCase
	users     *usecase.UserUseCase
	leads     *usecase.LeadUseCase
	opps      *usecase.OpportunityUseCase
	calls     *usecase.CallLogUseCase
	dashboard *usecase.DashboardUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memstore.New()
	events := &recordingPublisher{}

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := security.NewTokenService("test-secret", 0)
	require.NoError(t, err)

	return &harness{
		store:     store,
		events:    events,
		tokens:    tokens,
		auth:      usecase.NewAuthUseCase(store.Users(), hasher, tokens),
		users:     usecase.NewUserUseCase(store.Users()),
		leads:     usecase.NewLeadUseCase(store.Leads(), events),
		opps:      usecase.NewOpportunityUseCase(store.Opportunities(), store.Leads(), store.Users(), events),
		calls:     usecase.NewCallLogUseCase(store.CallLogs()),
		dashboard: usecase.NewDashboardUseCase(store.Leads(), store.Opportunities()),
	}
}

func (h *harness) register(t *testing.T, email string, role entity.Role) *entity.User {
	t.Helper()
	u, err := h.auth.Register(context.Background(), usecase.RegisterInput{
		Email:    email,
		Password: "password123",
		FullName: "User " + email,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (h *harness) lead(t *testing.T, caller *entity.User, input usecase.LeadInput) *entity.Lead {
	t.Helper()
	if input.Name == "" {
		input.Name = "Acme Corp"
	}
	l, err := h.leads.Create(context.Background(), caller, input)
	require.NoError(t, err)
	return l
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, scope entity.Scope, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadRepository) Stats(ctx context.Context, scope entity.Scope) (entity.LeadStats, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(entity.LeadStats), args.Error(1)
}

// MockOpportunityRepository
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) Create(ctx context.Context, opp *entity.Opportunity) error {
	return m.Called(ctx, opp).Error(0)
}

func (m *MockOpportunityRepository) FindByID(ctx context.Context, id string) (*entity.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) List(ctx context.Context, scope entity.Scope, limit int) ([]*entity.Opportunity, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Update(ctx context.Context, opp *entity.Opportunity) error {
	return m.Called(ctx, opp).Error(0)
}

func (m *MockOpportunityRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOpportunityRepository) Stats(ctx context.Context, scope entity.Scope) (entity.OpportunityStats, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(entity.OpportunityStats), args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit int) ([]*entity.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

// MockPasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(plain, hash string) bool {
	return m.Called(plain, hash).Bool(0)
}

func (m *MockPasswordHasher) VerifyMissing(plain string) {
	m.Called(plain)
}
