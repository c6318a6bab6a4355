package http

// Error is the uniform error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddressPayload mirrors the normalized intake address.
type AddressPayload struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// LinePayload mirrors one normalized intake order line.
type LinePayload struct {
	SKU              string  `json:"sku"`
	Title            string  `json:"title"`
	VariantID        string  `json:"variant_id"`
	Quantity         int     `json:"quantity"`
	UnitWeightG      float64 `json:"unit_weight_g"`
	RequiresShipping bool    `json:"requires_shipping"`
}

// OrderWebhookRequest is the normalized order intake payload.
type OrderWebhookRequest struct {
	OrderNumber       string         `json:"order_number"`
	ShippingAddress   AddressPayload `json:"shipping_address"`
	Lines             []LinePayload  `json:"lines"`
	RiskLevel         string         `json:"risk_level"`
	RequestedShipping string         `json:"requested_shipping_method"`
}

// OrderWebhookResponse acknowledges an accepted intake.
type OrderWebhookResponse struct {
	OrderID string `json:"order_id"`
}

// PrintJobPayload is one leased job handed to a print agent.
type PrintJobPayload struct {
	ID        string `json:"id"`
	JobType   string `json:"job_type"`
	ZPLData   string `json:"zpl_data"`
	PrinterID string `json:"printer_id,omitempty"`
}

// PollResponse is the print agent poll result.
type PollResponse struct {
	PrinterID string            `json:"printer_id"`
	Jobs      []PrintJobPayload `json:"jobs"`
}

// CompleteRequest is a print agent's report on a leased job.
type CompleteRequest struct {
	JobID        string `json:"job_id"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}

// StatusResponse is a bare acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// UnshippedOrderPayload is one in-flight order in the operator listing.
type UnshippedOrderPayload struct {
	ID           string `json:"id"`
	OrderNumber  string `json:"order_number"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// QueuedPrintJobPayload is one uncompleted job in the operator listing.
type QueuedPrintJobPayload struct {
	ID           string `json:"id"`
	JobType      string `json:"job_type"`
	Status       string `json:"status"`
	Attempts     int    `json:"attempts"`
	PrinterID    string `json:"printer_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
}
