package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rthompsontouch/agencyops/internal/billing"
	"github.com/rthompsontouch/agencyops/internal/domain"
	"github.com/rthompsontouch/agencyops/internal/events"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// In-memory store fakes. Each implements the corresponding domain store
// interface over a map, preserving insertion order where listing matters.

type fakeSubscriptionStore struct {
	subs  map[string]*domain.RecurringSubscription
	order []string

	// UpdateStatusCalls tracks persisted reconciliations for assertions
	UpdateStatusCalls int
}

var _ domain.SubscriptionStore = (*fakeSubscriptionStore)(nil)

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[string]*domain.RecurringSubscription)}
}

func (f *fakeSubscriptionStore) Create(ctx context.Context, sub *domain.RecurringSubscription) (*domain.RecurringSubscription, error) {
	stored := *sub
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.subs[stored.ID] = &stored
	f.order = append(f.order, stored.ID)
	return &stored, nil
}

func (f *fakeSubscriptionStore) GetByID(ctx context.Context, id string) (*domain.RecurringSubscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, domain.NotFound("fake.GetByID", "subscription", id)
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeSubscriptionStore) List(ctx context.Context, filter domain.SubscriptionFilter) ([]domain.RecurringSubscription, error) {
	var out []domain.RecurringSubscription
	for _, id := range f.order {
		sub := f.subs[id]
		if filter.ProjectID != "" && sub.ProjectID != filter.ProjectID {
			continue
		}
		if filter.CustomerID != "" && sub.CustomerID != filter.CustomerID {
			continue
		}
		out = append(out, *sub)
	}
	return out, nil
}

func (f *fakeSubscriptionStore) UpdateStatus(ctx context.Context, id string, status domain.SubscriptionStatus, cancelAtPeriodEnd bool) (*domain.RecurringSubscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, domain.NotFound("fake.UpdateStatus", "subscription", id)
	}
	f.UpdateStatusCalls++
	sub.Status = status
	sub.CancelAtPeriodEnd = cancelAtPeriodEnd
	sub.UpdatedAt = time.Now()
	copied := *sub
	return &copied, nil
}

type fakeCustomerStore struct {
	customers map[string]*domain.Customer
}

var _ domain.CustomerStore = (*fakeCustomerStore)(nil)

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[string]*domain.Customer)}
}

func (f *fakeCustomerStore) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	stored := *c
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.customers[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeCustomerStore) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, domain.NotFound("fake.GetByID", "customer", id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerStore) List(ctx context.Context, limit, offset int32) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCustomerStore) Update(ctx context.Context, id string, params domain.UpdateCustomerParams) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, domain.NotFound("fake.Update", "customer", id)
	}
	if params.Name != nil {
		c.Name = *params.Name
	}
	if params.Email != nil {
		c.Email = *params.Email
	}
	if params.Company != nil {
		c.Company = *params.Company
	}
	if params.Phone != nil {
		c.Phone = *params.Phone
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerStore) SetProcessorCustomerID(ctx context.Context, id, processorCustomerID string) error {
	c, ok := f.customers[id]
	if !ok {
		return domain.NotFound("fake.SetProcessorCustomerID", "customer", id)
	}
	c.ProcessorCustomerID = processorCustomerID
	return nil
}

type fakeProjectStore struct {
	projects map[string]*domain.Project
}

var _ domain.ProjectStore = (*fakeProjectStore)(nil)

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*domain.Project)}
}

func (f *fakeProjectStore) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	stored := *p
	stored.ID = uuid.New().String()
	if stored.Status == "" {
		stored.Status = "active"
	}
	if stored.PaymentStatus == "" {
		stored.PaymentStatus = domain.ProjectPaymentUnpaid
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.projects[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.NotFound("fake.GetByID", "project", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProjectStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		if p.CustomerID == customerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) List(ctx context.Context, limit, offset int32) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectStore) Update(ctx context.Context, id string, params domain.UpdateProjectParams) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.NotFound("fake.Update", "project", id)
	}
	if params.Title != nil {
		p.Title = *params.Title
	}
	if params.Description != nil {
		p.Description = *params.Description
	}
	if params.Status != nil {
		p.Status = *params.Status
	}
	if params.OneTimeCost != nil {
		p.OneTimeCost = *params.OneTimeCost
	}
	if params.PaymentStatus != nil {
		p.PaymentStatus = *params.PaymentStatus
	}
	copied := *p
	return &copied, nil
}

type fakeLeadStore struct {
	leads map[string]*domain.Lead
}

var _ domain.LeadStore = (*fakeLeadStore)(nil)

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{leads: make(map[string]*domain.Lead)}
}

func (f *fakeLeadStore) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	stored := *l
	stored.ID = uuid.New().String()
	if stored.Status == "" {
		stored.Status = domain.LeadNew
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.leads[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeLeadStore) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, domain.NotFound("fake.GetByID", "lead", id)
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLeadStore) List(ctx context.Context, limit, offset int32) ([]domain.Lead, error) {
	var out []domain.Lead
	for _, l := range f.leads {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLeadStore) Update(ctx context.Context, id string, params domain.UpdateLeadParams) (*domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, domain.NotFound("fake.Update", "lead", id)
	}
	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.Email != nil {
		l.Email = *params.Email
	}
	if params.Company != nil {
		l.Company = *params.Company
	}
	if params.Phone != nil {
		l.Phone = *params.Phone
	}
	if params.Status != nil {
		l.Status = *params.Status
	}
	copied := *l
	return &copied, nil
}

// subscriptionFixture wires a subscription service over fakes with one
// seeded customer, project, and recurring monthly price.
type subscriptionFixture struct {
	svc       SubscriptionService
	subs      *fakeSubscriptionStore
	customers *fakeCustomerStore
	projects  *fakeProjectStore
	processor *billing.MockProcessor
	customer  *domain.Customer
	project   *domain.Project
}

func newSubscriptionFixture() *subscriptionFixture {
	subs := newFakeSubscriptionStore()
	customers := newFakeCustomerStore()
	projects := newFakeProjectStore()
	processor := billing.NewMockProcessor()

	customer, _ := customers.Create(context.Background(), &domain.Customer{
		Name:  "Acme Co",
		Email: "billing@acme.test",
	})
	project, _ := projects.Create(context.Background(), &domain.Project{
		CustomerID: customer.ID,
		Title:      "Website retainer",
	})

	processor.RegisterPrice(&billing.Price{
		ID:         "price_monthly",
		ProductID:  "prod_retainer",
		Currency:   "usd",
		UnitAmount: 49900,
		Recurring:  true,
		Interval:   "month",
	}, "Website retainer")

	svc := NewSubscriptionService(subs, customers, projects, processor, events.NoopPublisher{}, testLogger())

	return &subscriptionFixture{
		svc:       svc,
		subs:      subs,
		customers: customers,
		projects:  projects,
		processor: processor,
		customer:  customer,
		project:   project,
	}
}

func (f *subscriptionFixture) createSubscription(priceIDs ...string) (*domain.RecurringSubscription, error) {
	if len(priceIDs) == 0 {
		priceIDs = []string{"price_monthly"}
	}
	return f.svc.CreateSubscription(context.Background(), CreateSubscriptionParams{
		ProjectID: f.project.ID,
		PriceIDs:  priceIDs,
	})
}

func (f *subscriptionFixture) mustCreateSubscription(priceIDs ...string) *domain.RecurringSubscription {
	sub, err := f.createSubscription(priceIDs...)
	if err != nil {
		panic(fmt.Sprintf("fixture subscription create failed: %v", err))
	}
	return sub
}
