package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/kelseyhightower/envconfig"
)

type PaymentConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	OrderDB    `yaml:"order_db"`
	LogConfig  `yaml:"log_config"`
	Kafka      `yaml:"kafka"`
	Checkout   `yaml:"checkout"`
	Processor  ProcessorConfig
	Mailer     MailerConfig
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderDB struct {
	Dsn           string `yaml:"dsn"`
	MigrationPath string `yaml:"migration_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type Kafka struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic"`
}

type Checkout struct {
	TaxRate           float64  `yaml:"tax_rate"`
	ShippingFlat      float64  `yaml:"shipping_flat"`
	FreeShippingOver  float64  `yaml:"free_shipping_over"`
	Currencies        []string `yaml:"currencies"`
	AdminAlertAddress string   `yaml:"admin_alert_address"`
}

// ProcessorConfig carries the hosted-payment-processor credentials. These
// are secrets, so they come from the environment rather than the YAML file.
type ProcessorConfig struct {
	BaseURL         string `envconfig:"TJ_BASE_URL"`
	ClientID        string `envconfig:"TJ_CLIENT_ID"`
	ClientSecret    string `envconfig:"TJ_CLIENT_SECRET"`
	WebhookSecret   string `envconfig:"TJ_WEBHOOK_SECRET"`
	ReferencePrefix string `envconfig:"TJ_REF_PREFIX" default:"agroparts"`
	ReturnURL       string `envconfig:"TJ_RETURN_URL"`
	CancelURL       string `envconfig:"TJ_CANCEL_URL"`
	WebhookURL      string `envconfig:"TJ_WEBHOOK_URL"`
	SessionTTL      int    `envconfig:"TJ_SESSION_TTL" default:"3600"`
}

type MailerConfig struct {
	APIURL    string `envconfig:"MAIL_API_URL"`
	APIKey    string `envconfig:"MAIL_API_KEY"`
	FromEmail string `envconfig:"MAIL_FROM" default:"orders@agroparts.example"`
}

func MustLoad() *PaymentConfig {

	// Processing env config variable and file
	configPath := os.Getenv("PAYMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PAYMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	// Secrets are environment-only
	if err := envconfig.Process("", &cfg.Processor); err != nil {
		log.Fatalf("failed to read processor config: %v", err)
	}
	if err := envconfig.Process("", &cfg.Mailer); err != nil {
		log.Fatalf("failed to read mailer config: %v", err)
	}

	return &cfg
}
