package payment

import (
	"context"
	"time"

	"github.com/agroparts/payment-service/internal/config"
	"github.com/agroparts/payment-service/internal/domain"
	publisher "github.com/agroparts/payment-service/internal/infrastructure/kafka"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
	"github.com/agroparts/payment-service/internal/reference"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
	claims map[string]bool

	// applyErr fails the next claimed transition once, simulating a
	// transient database failure after the delivery was accepted.
	applyErr error
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		orders: make(map[string]*domain.Order),
		claims: make(map[string]bool),
	}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) CreateOrder(order *domain.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	if o, ok := r.orders[orderID]; ok {
		return o, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) GetOrderByNumber(orderNumber string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) GetOrderBySessionID(sessionID string) (*domain.Order, error) {
	if sessionID == "" {
		return nil, domain.ErrOrderNotFound
	}
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) GetOrderByTransactionID(transactionID string) (*domain.Order, error) {
	if transactionID == "" {
		return nil, domain.ErrOrderNotFound
	}
	for _, o := range r.orders {
		if o.TransactionID == transactionID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) SavePaymentSession(orderID string, session domain.PaymentSession) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.SessionID = session.SessionID
	o.MerchantRef = session.MerchantRef
	o.SessionPurpose = session.Purpose
	o.SessionCreatedAt = session.CreatedAt
	return nil
}

func (r *fakeOrderRepo) ApplyPaymentTransition(orderID string, payment domain.PaymentStatus, orderStatus domain.OrderStatus, transactionID, rawPayload string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if !domain.CanTransition(o.PaymentStatus, payment) {
		return domain.ErrStaleTransition
	}
	o.PaymentStatus = payment
	if orderStatus != "" {
		o.Status = orderStatus
	}
	if transactionID != "" {
		o.TransactionID = transactionID
	}
	if rawPayload != "" {
		o.RawPayload = rawPayload
	}
	o.UpdatedAt = time.Now()
	return nil
}

// ApplyClaimedTransition mirrors the real repository's all-or-nothing
// semantics: the claim is only kept when the transition itself applied.
func (r *fakeOrderRepo) ApplyClaimedTransition(transactionID, orderID string, payment domain.PaymentStatus, orderStatus domain.OrderStatus, rawPayload string) error {
	if r.claims[transactionID] {
		return domain.ErrDuplicateEvent
	}
	if r.applyErr != nil {
		err := r.applyErr
		r.applyErr = nil
		return err
	}
	if err := r.ApplyPaymentTransition(orderID, payment, orderStatus, transactionID, rawPayload); err != nil {
		return err
	}
	r.claims[transactionID] = true
	return nil
}

type fakeEventRepo struct {
	events []*domain.PaymentEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (r *fakeEventRepo) RecordEvent(event *domain.PaymentEvent) error {
	r.events = append(r.events, event)
	return nil
}

type fakeCartRepo struct {
	clearedCarts []string
	clearedUsers []string
}

func (r *fakeCartRepo) GetCartItems(cartID string) ([]*domain.CartItem, error) { return nil, nil }

func (r *fakeCartRepo) ClearCart(cartID string) error {
	r.clearedCarts = append(r.clearedCarts, cartID)
	return nil
}

func (r *fakeCartRepo) ClearUserCart(userID string) error {
	r.clearedUsers = append(r.clearedUsers, userID)
	return nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
}

func (r *fakeNotificationRepo) CreateNotification(n *domain.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (r *fakeAuditRepo) CreateEntry(entry *domain.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) byAction(action domain.AuditAction) []*domain.AuditEntry {
	var out []*domain.AuditEntry
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeProcessor struct {
	token      string
	tokenErr   error
	session    *tjpay.SessionResponse
	sessionErr error
	lastReq    tjpay.SessionRequest
}

func (p *fakeProcessor) FetchToken(ctx context.Context) (string, error) {
	return p.token, p.tokenErr
}

func (p *fakeProcessor) CreateSession(ctx context.Context, token string, req tjpay.SessionRequest) (*tjpay.SessionResponse, error) {
	p.lastReq = req
	return p.session, p.sessionErr
}

type fakeMailer struct {
	sent    []domain.EmailMessage
	sendErr error
}

func (m *fakeMailer) Send(msg domain.EmailMessage) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) to(address string) []domain.EmailMessage {
	var out []domain.EmailMessage
	for _, msg := range m.sent {
		if msg.To == address {
			out = append(out, msg)
		}
	}
	return out
}

type fakePublisher struct {
	published []publisher.OrderStatusEvent
}

func (p *fakePublisher) PublishOrderStatus(topic string, event publisher.OrderStatusEvent) error {
	p.published = append(p.published, event)
	return nil
}

type fixture struct {
	uc            *DefaultPaymentUsecase
	orders        *fakeOrderRepo
	events        *fakeEventRepo
	carts         *fakeCartRepo
	notifications *fakeNotificationRepo
	audit         *fakeAuditRepo
	processor     *fakeProcessor
	mailer        *fakeMailer
	publisher     *fakePublisher
}

func newFixture(webhookSecret string, orders ...*domain.Order) *fixture {
	f := &fixture{
		orders:        newFakeOrderRepo(orders...),
		events:        newFakeEventRepo(),
		carts:         &fakeCartRepo{},
		notifications: &fakeNotificationRepo{},
		audit:         &fakeAuditRepo{},
		processor:     &fakeProcessor{},
		mailer:        &fakeMailer{},
		publisher:     &fakePublisher{},
	}
	f.uc = &DefaultPaymentUsecase{
		OrderRepo:        f.orders,
		EventRepo:        f.events,
		CartRepo:         f.carts,
		NotificationRepo: f.notifications,
		AuditRepo:        f.audit,
		Processor:        f.processor,
		Mailer:           f.mailer,
		Publisher:        f.publisher,
		Codec:            reference.NewCodec("agroparts"),
		ProcessorCfg: config.ProcessorConfig{
			WebhookSecret:   webhookSecret,
			ReferencePrefix: "agroparts",
			SessionTTL:      3600,
		},
		Currencies:        []string{"USD", "EUR"},
		AdminAlertAddress: "alerts@agroparts.example",
		EventTopic:        "order-status-events",
	}
	return f
}
