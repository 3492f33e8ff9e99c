package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/events"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"
	"go-retail-admin/internal/session"
	"go-retail-admin/pkg/mailer"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// memData is the state of the in-memory store. Transactions work on a copy that
// replaces the original only when the callback succeeds.
type memData struct {
	products   map[uuid.UUID]model.Product
	stockLogs  []model.StockLogEntry
	sales      []model.SaleRecord
	systemLogs []model.SystemLogEntry
	users      map[uuid.UUID]model.User
}

func (d *memData) clone() *memData {
	c := &memData{
		products:   make(map[uuid.UUID]model.Product, len(d.products)),
		stockLogs:  append([]model.StockLogEntry(nil), d.stockLogs...),
		sales:      append([]model.SaleRecord(nil), d.sales...),
		systemLogs: append([]model.SystemLogEntry(nil), d.systemLogs...),
		users:      make(map[uuid.UUID]model.User, len(d.users)),
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

type memRoot struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	data     *memData
	clock    time.Time
	failures map[string]error
}

type memStore struct {
	root *memRoot
	tx   *memData
}

func newMemStore() *memStore {
	return &memStore{root: &memRoot{
		data: &memData{
			products: map[uuid.UUID]model.Product{},
			users:    map[uuid.UUID]model.User{},
		},
		clock:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		failures: map[string]error{},
	}}
}

// failOn makes the named repository call ("sales.create", ...) return err.
func (s *memStore) failOn(op string, err error) {
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	s.root.failures[op] = err
}

// view runs fn against the visible state, under the store lock unless inside a transaction.
func (s *memStore) view(fn func(d *memData)) {
	if s.tx != nil {
		fn(s.tx)
		return
	}
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	fn(s.root.data)
}

func (s *memStore) write(op string, fn func(d *memData, now time.Time)) error {
	s.root.mu.Lock()
	err := s.root.failures[op]
	s.root.clock = s.root.clock.Add(time.Millisecond)
	now := s.root.clock
	if s.tx == nil {
		defer s.root.mu.Unlock()
		if err != nil {
			return err
		}
		fn(s.root.data, now)
		return nil
	}
	s.root.mu.Unlock()
	if err != nil {
		return err
	}
	fn(s.tx, now)
	return nil
}

func (s *memStore) Products() repository.ProductRepository     { return memProducts{s} }
func (s *memStore) StockLogs() repository.StockLogRepository   { return memStockLogs{s} }
func (s *memStore) Sales() repository.SaleRepository           { return memSales{s} }
func (s *memStore) SystemLogs() repository.SystemLogRepository { return memSystemLogs{s} }
func (s *memStore) Users() repository.UserRepository           { return memUsers{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.root.txMu.Lock()
	defer s.root.txMu.Unlock()

	s.root.mu.RLock()
	work := s.root.data.clone()
	s.root.mu.RUnlock()

	if err := fn(&memStore{root: s.root, tx: work}); err != nil {
		return err
	}

	s.root.mu.Lock()
	s.root.data = work
	s.root.mu.Unlock()
	return nil
}

// helpers for assertions

func (s *memStore) product(id uuid.UUID) model.Product {
	var p model.Product
	s.view(func(d *memData) { p = d.products[id] })
	return p
}

func (s *memStore) ledger() []model.StockLogEntry {
	var out []model.StockLogEntry
	s.view(func(d *memData) { out = append(out, d.stockLogs...) })
	return out
}

func (s *memStore) saleRecords() []model.SaleRecord {
	var out []model.SaleRecord
	s.view(func(d *memData) { out = append(out, d.sales...) })
	return out
}

func (s *memStore) auditTrail() []model.SystemLogEntry {
	var out []model.SystemLogEntry
	s.view(func(d *memData) { out = append(out, d.systemLogs...) })
	return out
}

func (s *memStore) actions(action string) []model.SystemLogEntry {
	var out []model.SystemLogEntry
	for _, e := range s.auditTrail() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *model.Product) error {
	var taken bool
	err := r.s.write("products.create", func(d *memData, now time.Time) {
		if taken = skuTaken(d, p.SKU, p.ID); taken {
			return
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.CreatedAt, p.UpdatedAt = now, now
		d.products[p.ID] = *p
	})
	if err == nil && taken {
		return repository.ErrSKUTaken
	}
	return err
}

// skuTaken mirrors the unique index on products.sku
func skuTaken(d *memData, sku string, self uuid.UUID) bool {
	for id, other := range d.products {
		if other.SKU == sku && id != self {
			return true
		}
	}
	return false
}

func (r memProducts) FindAll(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	r.s.view(func(d *memData) {
		for _, p := range d.products {
			out = append(out, p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	var ok bool
	r.s.view(func(d *memData) { p, ok = d.products[id] })
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	return &p, nil
}

func (r memProducts) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r memProducts) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	var found *model.Product
	r.s.view(func(d *memData) {
		for _, p := range d.products {
			if p.SKU == sku {
				p := p
				found = &p
			}
		}
	})
	if found == nil {
		return nil, apperr.NotFound("product not found")
	}
	return found, nil
}

func (r memProducts) Update(_ context.Context, p *model.Product) error {
	var taken bool
	err := r.s.write("products.update", func(d *memData, now time.Time) {
		if taken = skuTaken(d, p.SKU, p.ID); taken {
			return
		}
		p.UpdatedAt = now
		d.products[p.ID] = *p
	})
	if err == nil && taken {
		return repository.ErrSKUTaken
	}
	return err
}

func (r memProducts) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int, updatedBy string) error {
	var missing bool
	err := r.s.write("products.update_quantity", func(d *memData, now time.Time) {
		p, ok := d.products[id]
		if !ok {
			missing = true
			return
		}
		p.Quantity, p.UpdatedBy, p.UpdatedAt = quantity, updatedBy, now
		d.products[id] = p
	})
	if err == nil && missing {
		return apperr.NotFound("product not found")
	}
	return err
}

func (r memProducts) Delete(_ context.Context, id uuid.UUID) error {
	var missing bool
	err := r.s.write("products.delete", func(d *memData, _ time.Time) {
		if _, ok := d.products[id]; !ok {
			missing = true
			return
		}
		delete(d.products, id)
	})
	if err == nil && missing {
		return apperr.NotFound("product not found")
	}
	return err
}

func (r memProducts) Categories(ctx context.Context) ([]string, error) {
	all, _ := r.FindAll(ctx)
	seen := map[string]bool{}
	var out []string
	for _, p := range all {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

type memStockLogs struct{ s *memStore }

func (r memStockLogs) Create(_ context.Context, e *model.StockLogEntry) error {
	return r.s.write("stock_logs.create", func(d *memData, now time.Time) {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.CreatedAt = now
		d.stockLogs = append(d.stockLogs, *e)
	})
}

func (r memStockLogs) FindRecent(_ context.Context, limit int) ([]model.StockLogEntry, error) {
	var out []model.StockLogEntry
	r.s.view(func(d *memData) {
		for i := len(d.stockLogs) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, d.stockLogs[i])
		}
	})
	return out, nil
}

func (r memStockLogs) FindByProduct(_ context.Context, productID uuid.UUID) ([]model.StockLogEntry, error) {
	var out []model.StockLogEntry
	r.s.view(func(d *memData) {
		for _, e := range d.stockLogs {
			if e.ProductID == productID {
				out = append(out, e)
			}
		}
	})
	return out, nil
}

func (r memStockLogs) GetStockMovement(_ context.Context, start, end time.Time) ([]repository.StockMovementData, error) {
	byDay := map[string]*repository.StockMovementData{}
	var days []string
	r.s.view(func(d *memData) {
		for _, e := range d.stockLogs {
			if e.CreatedAt.Before(start) || e.CreatedAt.After(end) {
				continue
			}
			day := e.CreatedAt.Format("2006-01-02")
			row, ok := byDay[day]
			if !ok {
				row = &repository.StockMovementData{Date: day}
				byDay[day] = row
				days = append(days, day)
			}
			if e.Type == model.StockLogIn {
				row.Inbound += e.Quantity
			} else {
				row.Outbound += e.Quantity
			}
		}
	})
	sort.Strings(days)
	out := make([]repository.StockMovementData, 0, len(days))
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out, nil
}

type memSales struct{ s *memStore }

func (r memSales) Create(_ context.Context, sale *model.SaleRecord) error {
	return r.s.write("sales.create", func(d *memData, now time.Time) {
		if sale.ID == uuid.Nil {
			sale.ID = uuid.New()
		}
		sale.CreatedAt = now
		d.sales = append(d.sales, *sale)
	})
}

func (r memSales) FindRecent(_ context.Context, limit int) ([]model.SaleRecord, error) {
	var out []model.SaleRecord
	r.s.view(func(d *memData) {
		for i := len(d.sales) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, d.sales[i])
		}
	})
	return out, nil
}

func (r memSales) FindAll(_ context.Context) ([]model.SaleRecord, error) {
	var out []model.SaleRecord
	r.s.view(func(d *memData) { out = append(out, d.sales...) })
	return out, nil
}

type memSystemLogs struct{ s *memStore }

func (r memSystemLogs) Create(_ context.Context, e *model.SystemLogEntry) error {
	return r.s.write("system_logs.create", func(d *memData, now time.Time) {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.CreatedAt = now
		d.systemLogs = append(d.systemLogs, *e)
	})
}

func (r memSystemLogs) FindRecent(_ context.Context, limit int) ([]model.SystemLogEntry, error) {
	var out []model.SystemLogEntry
	r.s.view(func(d *memData) {
		for i := len(d.systemLogs) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, d.systemLogs[i])
		}
	})
	return out, nil
}

type memUsers struct{ s *memStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	var found *model.User
	r.s.view(func(d *memData) {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				found = &u
			}
		}
	})
	if found == nil {
		return nil, apperr.NotFound("user not found")
	}
	return found, nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	var ok bool
	r.s.view(func(d *memData) { u, ok = d.users[id] })
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (r memUsers) FindAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	r.s.view(func(d *memData) {
		for _, u := range d.users {
			out = append(out, u)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memUsers) Create(_ context.Context, u *model.User) error {
	var taken bool
	err := r.s.write("users.create", func(d *memData, now time.Time) {
		for _, other := range d.users {
			if strings.EqualFold(other.Email, u.Email) {
				taken = true
				return
			}
		}
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		u.CreatedAt, u.UpdatedAt = now, now
		d.users[u.ID] = *u
	})
	if err == nil && taken {
		return repository.ErrEmailTaken
	}
	return err
}

func (r memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	return r.update(id, func(u *model.User) { u.Password = hashed })
}

func (r memUsers) UpdateRole(_ context.Context, id uuid.UUID, role model.Role, updatedBy string) error {
	return r.update(id, func(u *model.User) { u.Role, u.UpdatedBy = role, updatedBy })
}

func (r memUsers) update(id uuid.UUID, fn func(u *model.User)) error {
	var missing bool
	err := r.s.write("users.update", func(d *memData, now time.Time) {
		u, ok := d.users[id]
		if !ok {
			missing = true
			return
		}
		fn(&u)
		u.UpdatedAt = now
		d.users[id] = u
	})
	if err == nil && missing {
		return apperr.NotFound("user not found")
	}
	return err
}

// staleLookups wraps a memStore so uniqueness lookups always miss, as when a concurrent
// request inserts the same email or SKU between the lookup and the insert.
type staleLookups struct{ *memStore }

func (s staleLookups) Users() repository.UserRepository       { return staleUsers{memUsers{s.memStore}} }
func (s staleLookups) Products() repository.ProductRepository { return staleProducts{memProducts{s.memStore}} }

func (s staleLookups) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.memStore.Transaction(ctx, func(tx repository.Store) error {
		return fn(staleLookups{tx.(*memStore)})
	})
}

type staleUsers struct{ memUsers }

func (staleUsers) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, apperr.NotFound("user not found")
}

type staleProducts struct{ memProducts }

func (staleProducts) FindBySKU(context.Context, string) (*model.Product, error) {
	return nil, apperr.NotFound("product not found")
}

// memSessions is an in-memory session.Store
type memSessions struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	resets   map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]session.Session{}, resets: map[string]string{}}
}

func (m *memSessions) Save(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) DeleteUserSessions(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessions) SaveResetToken(_ context.Context, token, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[token] = userID
	return nil
}

func (m *memSessions) ConsumeResetToken(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.resets[token]
	if !ok {
		return "", session.ErrNotFound
	}
	delete(m.resets, token)
	return userID, nil
}

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	log, hook := test.NewNullLogger()
	return log, hook
}

var clerk = model.Actor{ID: "user-1", Name: "Clerk"}
