package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ShippoAPIKey   string
	UseMockCarrier bool

	ShopifyShopDomain  string
	ShopifyAccessToken string
	ShopifyAPIVersion  string

	PrintAgentAPIKey       string
	PrintAgentLeaseSeconds int
	PrintAgentMaxAttempts  int

	DeniedShippingServices []string
	PackingDensityGPerCuIn float64
	AutoProcessOrders      bool

	ShipperName    string
	ShipperStreet1 string
	ShipperStreet2 string
	ShipperCity    string
	ShipperState   string
	ShipperZip     string
	ShipperCountry string
	ShipperPhone   string
	ShipperEmail   string

	KafkaHost              string
	KafkaOrderChangedTopic string
}
