package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/notify"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

// fakeStore is an in-memory backing store shared by the fake repositories.
// Slice-of-ids bookkeeping preserves insertion order for the list methods.
type fakeStore struct {
	mu sync.Mutex

	orders     map[uuid.UUID]*domain.Order
	orderIDs   []uuid.UUID
	items      map[uuid.UUID][]*domain.OrderItem
	history    map[uuid.UUID][]*domain.StatusHistoryEntry
	quotes     map[uuid.UUID]*domain.Quotation
	quoteIDs   []uuid.UUID
	quoteLines map[uuid.UUID][]*domain.QuoteLine
	products   map[uuid.UUID]*domain.Product
	notes      []*domain.Notification
	idemKeys   map[string]*domain.IdempotencyKey
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:     make(map[uuid.UUID]*domain.Order),
		items:      make(map[uuid.UUID][]*domain.OrderItem),
		history:    make(map[uuid.UUID][]*domain.StatusHistoryEntry),
		quotes:     make(map[uuid.UUID]*domain.Quotation),
		quoteLines: make(map[uuid.UUID][]*domain.QuoteLine),
		products:   make(map[uuid.UUID]*domain.Product),
		idemKeys:   make(map[string]*domain.IdempotencyKey),
	}
}

func (st *fakeStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Order:          &fakeOrderRepo{st},
		OrderItem:      &fakeOrderItemRepo{st},
		StatusHistory:  &fakeStatusHistoryRepo{st},
		Quotation:      &fakeQuotationRepo{st},
		QuoteLine:      &fakeQuoteLineRepo{st},
		Product:        &fakeProductRepo{st},
		Notification:   &fakeNotificationRepo{st},
		IdempotencyKey: &fakeIdempotencyKeyRepo{st},
	}
}

func (st *fakeStore) addProduct(title, sku string, price float64, stock int) *domain.Product {
	st.mu.Lock()
	defer st.mu.Unlock()
	p := &domain.Product{
		ID:       uuid.New(),
		Title:    title,
		SKU:      sku,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	st.products[p.ID] = p
	return p
}

type fakeOrderRepo struct{ st *fakeStore }

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.st.orders[order.ID] = order
	r.st.orderIDs = append(r.st.orderIDs, order.ID)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	order, ok := r.st.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	return r.list(func(o *domain.Order) bool { return o.UserID == userID })
}

func (r *fakeOrderRepo) ListByStatus(_ context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	return r.list(func(o *domain.Order) bool { return o.Status == status })
}

func (r *fakeOrderRepo) List(_ context.Context, limit, offset int) ([]*domain.Order, error) {
	return r.list(func(*domain.Order) bool { return true })
}

func (r *fakeOrderRepo) list(keep func(*domain.Order) bool) ([]*domain.Order, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Order
	for _, id := range r.st.orderIDs {
		if o, ok := r.st.orders[id]; ok && keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	order, ok := r.st.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) UpdatePayment(_ context.Context, id uuid.UUID, status domain.PaymentStatus, method domain.PaymentMethod) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	order, ok := r.st.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.PaymentStatus = status
	order.PaymentMethod = method
	order.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.orders[id]; !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	delete(r.st.orders, id)
	return nil
}

type fakeOrderItemRepo struct{ st *fakeStore }

func (r *fakeOrderItemRepo) CreateBatch(_ context.Context, items []*domain.OrderItem) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, item := range items {
		item.ID = uuid.New()
		item.CreatedAt = time.Now()
		r.st.items[item.OrderID] = append(r.st.items[item.OrderID], item)
	}
	return nil
}

func (r *fakeOrderItemRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return append([]*domain.OrderItem(nil), r.st.items[orderID]...), nil
}

type fakeStatusHistoryRepo struct{ st *fakeStore }

func (r *fakeStatusHistoryRepo) Append(_ context.Context, entry *domain.StatusHistoryEntry) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.st.history[entry.OrderID] = append(r.st.history[entry.OrderID], entry)
	return nil
}

func (r *fakeStatusHistoryRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.StatusHistoryEntry, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return append([]*domain.StatusHistoryEntry(nil), r.st.history[orderID]...), nil
}

type fakeQuotationRepo struct{ st *fakeStore }

func (r *fakeQuotationRepo) Create(_ context.Context, quote *domain.Quotation) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	quote.ID = uuid.New()
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now()
	}
	quote.UpdatedAt = quote.CreatedAt
	r.st.quotes[quote.ID] = quote
	r.st.quoteIDs = append(r.st.quoteIDs, quote.ID)
	return nil
}

func (r *fakeQuotationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Quotation, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	quote, ok := r.st.quotes[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "quotation", ID: id.String()}
	}
	cp := *quote
	return &cp, nil
}

func (r *fakeQuotationRepo) GetByQuoteNumber(_ context.Context, quoteNumber string) (*domain.Quotation, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, q := range r.st.quotes {
		if q.QuoteNumber == quoteNumber {
			cp := *q
			return &cp, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "quotation", ID: quoteNumber}
}

func (r *fakeQuotationRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*domain.Quotation, error) {
	return r.list(func(q *domain.Quotation) bool { return q.UserID == userID })
}

func (r *fakeQuotationRepo) List(_ context.Context, limit, offset int) ([]*domain.Quotation, error) {
	return r.list(func(*domain.Quotation) bool { return true })
}

func (r *fakeQuotationRepo) list(keep func(*domain.Quotation) bool) ([]*domain.Quotation, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Quotation
	for _, id := range r.st.quoteIDs {
		if q, ok := r.st.quotes[id]; ok && keep(q) {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeQuotationRepo) Update(_ context.Context, quote *domain.Quotation) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.quotes[quote.ID]; !ok {
		return &errors.ErrNotFound{Resource: "quotation", ID: quote.ID.String()}
	}
	cp := *quote
	cp.UpdatedAt = time.Now()
	r.st.quotes[quote.ID] = &cp
	return nil
}

func (r *fakeQuotationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	quote, ok := r.st.quotes[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "quotation", ID: id.String()}
	}
	quote.Status = status
	quote.UpdatedAt = time.Now()
	return nil
}

func (r *fakeQuotationRepo) MarkViewed(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	quote, ok := r.st.quotes[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "quotation", ID: id.String()}
	}
	quote.Viewed = true
	return nil
}

func (r *fakeQuotationRepo) CountByYear(_ context.Context, year int) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	count := 0
	for _, q := range r.st.quotes {
		if q.CreatedAt.Year() == year {
			count++
		}
	}
	return count, nil
}

func (r *fakeQuotationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.quotes[id]; !ok {
		return &errors.ErrNotFound{Resource: "quotation", ID: id.String()}
	}
	delete(r.st.quotes, id)
	return nil
}

type fakeQuoteLineRepo struct{ st *fakeStore }

func (r *fakeQuoteLineRepo) CreateBatch(_ context.Context, lines []*domain.QuoteLine) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, line := range lines {
		line.ID = uuid.New()
		line.CreatedAt = time.Now()
		r.st.quoteLines[line.QuoteID] = append(r.st.quoteLines[line.QuoteID], line)
	}
	return nil
}

func (r *fakeQuoteLineRepo) GetByQuoteID(_ context.Context, quoteID uuid.UUID) ([]*domain.QuoteLine, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return append([]*domain.QuoteLine(nil), r.st.quoteLines[quoteID]...), nil
}

func (r *fakeQuoteLineRepo) ReplaceForQuote(ctx context.Context, quoteID uuid.UUID, lines []*domain.QuoteLine) error {
	r.st.mu.Lock()
	r.st.quoteLines[quoteID] = nil
	r.st.mu.Unlock()
	return r.CreateBatch(ctx, lines)
}

type fakeProductRepo struct{ st *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.st.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	product, ok := r.st.products[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	cp := *product
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, p := range r.st.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: sku}
}

func (r *fakeProductRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Product
	for _, p := range r.st.products {
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.products[product.ID]; !ok {
		return &errors.ErrNotFound{Resource: "product", ID: product.ID.String()}
	}
	cp := *product
	cp.UpdatedAt = time.Now()
	r.st.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.products[id]; !ok {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	delete(r.st.products, id)
	return nil
}

type fakeNotificationRepo struct{ st *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.st.notes = append(r.st.notes, n)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit, offset int) ([]*domain.Notification, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.st.notes {
		if n.Scope == domain.NotificationScopePersonal && n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListAdmin(_ context.Context, limit, offset int) ([]*domain.Notification, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.st.notes {
		if n.Scope == domain.NotificationScopeAdmin {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID, recipientID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, n := range r.st.notes {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return &errors.ErrNotFound{Resource: "notification", ID: id.String()}
}

type fakeIdempotencyKeyRepo struct{ st *fakeStore }

func (r *fakeIdempotencyKeyRepo) GetByKey(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	k, ok := r.st.idemKeys[key]
	if !ok {
		return nil, nil
	}
	cp := *k
	return &cp, nil
}

func (r *fakeIdempotencyKeyRepo) Create(_ context.Context, key *domain.IdempotencyKey) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	key.CreatedAt = time.Now()
	r.st.idemKeys[key.Key] = key
	return nil
}

// newTestEnv wires the fake store into real services. The dispatcher is built
// but not run; Emit only buffers, so lifecycle calls never block.
func newTestEnv() (*fakeStore, *orderService, *quoteService) {
	st := newFakeStore()
	logger := zap.NewNop()
	repos := st.repositories()
	dispatcher := notify.NewDispatcher(repos, notify.NewHub(logger), logger)
	return st, NewOrderService(repos, dispatcher, logger), NewQuoteService(repos, dispatcher, logger)
}
