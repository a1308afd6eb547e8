package payment

import (
	"context"

	"github.com/agroparts/payment-service/internal/config"
	"github.com/agroparts/payment-service/internal/domain"
	publisher "github.com/agroparts/payment-service/internal/infrastructure/kafka"
	"github.com/agroparts/payment-service/internal/infrastructure/metrics"
	"github.com/agroparts/payment-service/internal/infrastructure/tjpay"
	"github.com/agroparts/payment-service/internal/reference"
)

type PaymentUsecase interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) (*WebhookResult, error)
	GetOrderByID(orderID string) (*domain.Order, error)
}

// ProcessorClient is the slice of the hosted processor API the usecase
// needs; tjpay.Client implements it.
type ProcessorClient interface {
	FetchToken(ctx context.Context) (string, error)
	CreateSession(ctx context.Context, token string, req tjpay.SessionRequest) (*tjpay.SessionResponse, error)
}

type EmailSender interface {
	Send(msg domain.EmailMessage) error
}

type StatusPublisher interface {
	PublishOrderStatus(topic string, event publisher.OrderStatusEvent) error
}

type DefaultPaymentUsecase struct {
	OrderRepo        domain.OrderRepository
	EventRepo        domain.PaymentEventRepository
	CartRepo         domain.CartRepository
	NotificationRepo domain.NotificationRepository
	AuditRepo        domain.AuditRepository
	Processor        ProcessorClient
	Mailer           EmailSender
	Publisher        StatusPublisher
	Codec            *reference.Codec
	Metrics          *metrics.PaymentMetrics

	ProcessorCfg      config.ProcessorConfig
	Currencies        []string
	AdminAlertAddress string
	EventTopic        string
}

func NewDefaultPaymentUsecase(
	orderRepo domain.OrderRepository,
	eventRepo domain.PaymentEventRepository,
	cartRepo domain.CartRepository,
	notificationRepo domain.NotificationRepository,
	auditRepo domain.AuditRepository,
	processor ProcessorClient,
	mailer EmailSender,
	statusPublisher StatusPublisher,
	paymentMetrics *metrics.PaymentMetrics,
	cfg *config.PaymentConfig) *DefaultPaymentUsecase {

	return &DefaultPaymentUsecase{
		OrderRepo:         orderRepo,
		EventRepo:         eventRepo,
		CartRepo:          cartRepo,
		NotificationRepo:  notificationRepo,
		AuditRepo:         auditRepo,
		Processor:         processor,
		Mailer:            mailer,
		Publisher:         statusPublisher,
		Codec:             reference.NewCodec(cfg.Processor.ReferencePrefix),
		Metrics:           paymentMetrics,
		ProcessorCfg:      cfg.Processor,
		Currencies:        cfg.Checkout.Currencies,
		AdminAlertAddress: cfg.Checkout.AdminAlertAddress,
		EventTopic:        cfg.Kafka.Topic,
	}
}

func (uc *DefaultPaymentUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(orderID)
}
