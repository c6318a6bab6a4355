package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/boxrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/printjobrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer func() {
		_ = app.Close()
	}()

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Failed to create jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		ShippoAPIKey:   os.Getenv("SHIPPO_API_KEY"),
		UseMockCarrier: envBool("USE_MOCK_CARRIER", false),

		ShopifyShopDomain:  os.Getenv("SHOPIFY_SHOP_DOMAIN"),
		ShopifyAccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		ShopifyAPIVersion:  os.Getenv("SHOPIFY_API_VERSION"),

		PrintAgentAPIKey:       os.Getenv("PRINT_AGENT_API_KEY"),
		PrintAgentLeaseSeconds: envInt("PRINT_AGENT_LEASE_SECONDS", 300),
		PrintAgentMaxAttempts:  envInt("PRINT_AGENT_MAX_ATTEMPTS", 3),

		DeniedShippingServices: envList("DENIED_SHIPPING_SERVICES"),
		PackingDensityGPerCuIn: envFloat("PACKING_DENSITY_G_PER_CUIN", 0),
		AutoProcessOrders:      envBool("AUTO_PROCESS_ORDERS", false),

		ShipperName:    os.Getenv("SHIPPER_NAME"),
		ShipperStreet1: os.Getenv("SHIPPER_STREET1"),
		ShipperStreet2: os.Getenv("SHIPPER_STREET2"),
		ShipperCity:    os.Getenv("SHIPPER_CITY"),
		ShipperState:   os.Getenv("SHIPPER_STATE"),
		ShipperZip:     os.Getenv("SHIPPER_ZIP"),
		ShipperCountry: envOrDefault("SHIPPER_COUNTRY", "US"),
		ShipperPhone:   os.Getenv("SHIPPER_PHONE"),
		ShipperEmail:   os.Getenv("SHIPPER_EMAIL"),

		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: envOrDefault("KAFKA_ORDER_CHANGED_TOPIC", "order-state-changed"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	items := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&boxrepo.BoxDTO{},
		&shipmentrepo.GroupDTO{},
		&shipmentrepo.ShipmentDTO{},
		&printjobrepo.PrintJobDTO{},
	)
	if err != nil {
		return nil, err
	}
	return gormDB, nil
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config) {
	server, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Failed to create HTTP server: %v", err)
	}

	e := echo.New()
	server.RegisterRoutes(e, configs.PrintAgentAPIKey)

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil {
			e.Logger.Info("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
