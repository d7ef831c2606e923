package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret is only ever used when APP_ENV is dev.
const devJWTSecret = "dev-secret"

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside the dev environment")

// Base is shared by every binary.
type Base struct {
	AppEnv       string
	LogLevel     string
	OTLPEndpoint string
}

type WorkerConfig struct {
	Base

	CartAddr     string
	CatalogAddr  string
	IdentityURL  string
	Username     string
	Interval     time.Duration
	DiscountCode string
	Color        string
	ClientID     string
	ClientSecret string
	Scope        string
	StartDelay   time.Duration
	TokenTimeout time.Duration
	RPCTimeout   time.Duration
	CycleTimeout time.Duration
}

type ProductWorkerConfig struct {
	Base

	CatalogAddr string
	ProductName string
	MaxPrice    int64
	Interval    time.Duration
	StartDelay  time.Duration
	RPCTimeout  time.Duration
}

type CartServerConfig struct {
	Base

	GRPCPort              int
	HTTPPort              int
	MySQLDSN              string
	RedisAddr             string
	DiscountAddr          string
	JWTSecret             string
	JWTIssuer             string
	CartScope             string
	PublicMethods         []string
	PricingPolicy         string
	UnknownDiscountPolicy string
	KafkaBrokers          []string
	KafkaCartTopic        string
	LockTTL               time.Duration
	LockWait              time.Duration
	RPCTimeout            time.Duration
	PublishTimeout        time.Duration
}

type CatalogConfig struct {
	Base

	GRPCPort    int
	DatabaseURL string
}

type DiscountConfig struct {
	Base

	GRPCPort  int
	RedisAddr string
}

type IdentityConfig struct {
	Base

	HTTPPort  int
	PublicURL string
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	Clients   []string
}

// loadDotEnv pre-loads .env when present; real environment variables win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func loadBase() Base {
	loadDotEnv()
	return Base{
		AppEnv:       String("APP_ENV", "dev"),
		LogLevel:     String("LOG_LEVEL", "info"),
		OTLPEndpoint: String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func jwtSecret(env string) string {
	if v := String("JWT_SECRET", ""); v != "" {
		return v
	}
	if env == "dev" {
		return devJWTSecret
	}
	return ""
}

func LoadWorker() WorkerConfig {
	return WorkerConfig{
		Base:         loadBase(),
		CartAddr:     String("CART_ADDR", "localhost:50051"),
		CatalogAddr:  String("CATALOG_ADDR", "localhost:50052"),
		IdentityURL:  String("IDENTITY_URL", "http://localhost:5000"),
		Username:     String("WORKER_USERNAME", "swn"),
		Interval:     Duration("WORKER_INTERVAL", 10*time.Second),
		DiscountCode: String("WORKER_DISCOUNT_CODE", "CODE_100"),
		Color:        String("WORKER_COLOR", "Black"),
		ClientID:     String("WORKER_CLIENT_ID", "shoppingcart-worker"),
		ClientSecret: String("WORKER_CLIENT_SECRET", "secret"),
		Scope:        String("WORKER_SCOPE", "shoppingcart.api"),
		StartDelay:   Duration("WORKER_START_DELAY", 2*time.Second),
		TokenTimeout: Duration("TOKEN_TIMEOUT", 5*time.Second),
		RPCTimeout:   Duration("RPC_TIMEOUT", 5*time.Second),
		CycleTimeout: Duration("CYCLE_TIMEOUT", time.Minute),
	}
}

func LoadProductWorker() ProductWorkerConfig {
	return ProductWorkerConfig{
		Base:        loadBase(),
		CatalogAddr: String("CATALOG_ADDR", "localhost:50052"),
		ProductName: String("PRODUCT_NAME", "Product"),
		MaxPrice:    int64(Int("PRODUCT_MAX_PRICE", 1000)),
		Interval:    Duration("PRODUCT_WORKER_INTERVAL", 20*time.Second),
		StartDelay:  Duration("WORKER_START_DELAY", 2*time.Second),
		RPCTimeout:  Duration("RPC_TIMEOUT", 5*time.Second),
	}
}

func LoadCartServer() CartServerConfig {
	base := loadBase()
	return CartServerConfig{
		Base:                  base,
		GRPCPort:              Int("GRPC_PORT", 50051),
		HTTPPort:              Int("HTTP_PORT", 8080),
		MySQLDSN:              String("MYSQL_DSN", ""),
		RedisAddr:             String("REDIS_ADDR", ""),
		DiscountAddr:          String("DISCOUNT_ADDR", "localhost:50053"),
		JWTSecret:             jwtSecret(base.AppEnv),
		JWTIssuer:             String("JWT_ISSUER", "http://localhost:5000"),
		CartScope:             String("CART_SCOPE", "shoppingcart.api"),
		PublicMethods:         List("CART_PUBLIC_METHODS", []string{"RemoveItem", "AddItems"}),
		PricingPolicy:         String("PRICING_POLICY", "clamp"),
		UnknownDiscountPolicy: String("UNKNOWN_DISCOUNT_POLICY", "reject"),
		KafkaBrokers:          List("KAFKA_BROKERS", nil),
		KafkaCartTopic:        String("KAFKA_CART_TOPIC", "cart-events"),
		LockTTL:               Duration("LOCK_TTL", 10*time.Second),
		LockWait:              Duration("LOCK_WAIT", 5*time.Second),
		RPCTimeout:            Duration("RPC_TIMEOUT", 5*time.Second),
		PublishTimeout:        Duration("EVENT_PUBLISH_TIMEOUT", 5*time.Second),
	}
}

func (c CartServerConfig) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func LoadCatalog() CatalogConfig {
	return CatalogConfig{
		Base:        loadBase(),
		GRPCPort:    Int("GRPC_PORT", 50052),
		DatabaseURL: String("DATABASE_URL", ""),
	}
}

func LoadDiscount() DiscountConfig {
	return DiscountConfig{
		Base:      loadBase(),
		GRPCPort:  Int("GRPC_PORT", 50053),
		RedisAddr: String("REDIS_ADDR", ""),
	}
}

func LoadIdentity() IdentityConfig {
	base := loadBase()
	return IdentityConfig{
		Base:      base,
		HTTPPort:  Int("HTTP_PORT", 5000),
		PublicURL: String("IDENTITY_PUBLIC_URL", ""),
		JWTSecret: jwtSecret(base.AppEnv),
		JWTIssuer: String("JWT_ISSUER", "http://localhost:5000"),
		TokenTTL:  Duration("TOKEN_TTL", time.Hour),
		Clients:   List("IDENTITY_CLIENTS", []string{"shoppingcart-worker:secret:shoppingcart.api"}),
	}
}

func (c IdentityConfig) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func Duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}

// List splits a comma separated value, dropping empty entries.
func List(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
