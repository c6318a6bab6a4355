package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	processOrderHandler     commands.ProcessOrderCommandHandler
	pollPrintJobsHandler    commands.PollPrintJobsCommandHandler
	completePrintJobHandler commands.CompletePrintJobCommandHandler
	retryPrintJobHandler    commands.RetryPrintJobCommandHandler
	reprintLabelsHandler    commands.ReprintLabelsCommandHandler

	// Query handlers
	getUnshippedOrdersHandler queries.GetUnshippedOrdersQueryHandler
	getPrintQueueHandler      queries.GetPrintQueueQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	processOrderHandler commands.ProcessOrderCommandHandler,
	pollPrintJobsHandler commands.PollPrintJobsCommandHandler,
	completePrintJobHandler commands.CompletePrintJobCommandHandler,
	retryPrintJobHandler commands.RetryPrintJobCommandHandler,
	reprintLabelsHandler commands.ReprintLabelsCommandHandler,
	getUnshippedOrdersHandler queries.GetUnshippedOrdersQueryHandler,
	getPrintQueueHandler queries.GetPrintQueueQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		processOrderHandler:       processOrderHandler,
		pollPrintJobsHandler:      pollPrintJobsHandler,
		completePrintJobHandler:   completePrintJobHandler,
		retryPrintJobHandler:      retryPrintJobHandler,
		reprintLabelsHandler:      reprintLabelsHandler,
		getUnshippedOrdersHandler: getUnshippedOrdersHandler,
		getPrintQueueHandler:      getPrintQueueHandler,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance. The print-agent
// group is guarded by the shared bearer token.
func (s *Server) RegisterRoutes(e *echo.Echo, printAgentAPIKey string) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/shopify/webhook/order", s.CreateOrder)

	agent := e.Group("/print-agent", PrintAgentAuth(printAgentAPIKey))
	agent.GET("/poll", s.PollPrintJobs)
	agent.POST("/complete", s.CompletePrintJob)

	api := e.Group("/api/v1")
	api.GET("/orders", s.GetUnshippedOrders)
	api.POST("/orders/:id/process", s.ProcessOrder)
	api.POST("/orders/:id/reprint", s.ReprintLabels)
	api.GET("/print-jobs", s.GetPrintQueue)
	api.POST("/print-jobs/:id/retry", s.RetryPrintJob)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// CreateOrder handles POST /shopify/webhook/order - registers a normalized
// marketplace order for fulfillment.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request OrderWebhookRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	address, err := kernel.NewAddress(
		request.ShippingAddress.Name,
		request.ShippingAddress.Street1,
		request.ShippingAddress.Street2,
		request.ShippingAddress.City,
		request.ShippingAddress.State,
		request.ShippingAddress.Zip,
		request.ShippingAddress.Country,
		request.ShippingAddress.Phone,
		request.ShippingAddress.Email,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid shipping address: " + err.Error(),
		})
	}

	lines := make([]order.OrderLine, 0, len(request.Lines))
	for _, payload := range request.Lines {
		line, lineErr := order.NewLine(
			kernel.NewUUID(),
			payload.SKU,
			payload.Title,
			payload.VariantID,
			payload.Quantity,
			payload.UnitWeightG,
			payload.RequiresShipping,
		)
		if lineErr != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid order line: " + lineErr.Error(),
			})
		}
		lines = append(lines, line)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		request.OrderNumber,
		address,
		lines,
		order.RiskLevel(request.RiskLevel),
		request.RequestedShipping,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	metrics.OrdersCreatedTotal.Inc()
	return ctx.JSON(http.StatusCreated, OrderWebhookResponse{OrderID: orderID.String()})
}

// ProcessOrder handles POST /api/v1/orders/:id/process - runs the fulfillment
// pipeline for one order. Pipeline failures land in the order's own state, so
// an error here means the run itself could not start or commit.
func (s *Server) ProcessOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewProcessOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	if handleErr := s.processOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		metrics.OperationErrorsTotal.WithLabelValues("process_order").Inc()
		return s.errorResponse(ctx, handleErr, "Failed to process order")
	}

	metrics.OrdersProcessedTotal.Inc()
	return ctx.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// PollPrintJobs handles GET /print-agent/poll - leases a batch of pending
// print jobs for the calling agent.
func (s *Server) PollPrintJobs(ctx echo.Context) error {
	printerID := ctx.QueryParam("printer_id")

	cmd, err := commands.NewPollPrintJobsCommand(printerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid poll request: " + err.Error(),
		})
	}

	jobs, err := s.pollPrintJobsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("poll_print_jobs").Inc()
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to lease print jobs",
		})
	}

	response := PollResponse{
		PrinterID: printerID,
		Jobs:      make([]PrintJobPayload, 0, len(jobs)),
	}
	for _, job := range jobs {
		payload := PrintJobPayload{
			ID:      job.ID().String(),
			JobType: string(job.Type()),
			ZPLData: job.Payload(),
		}
		if job.PrinterID() != nil {
			payload.PrinterID = *job.PrinterID()
		}
		response.Jobs = append(response.Jobs, payload)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CompletePrintJob handles POST /print-agent/complete - records a print
// agent's success or failure report for a leased job.
func (s *Server) CompletePrintJob(ctx echo.Context) error {
	var request CompleteRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	jobID, err := kernel.UUIDFromString(request.JobID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id",
		})
	}

	cmd, err := commands.NewCompletePrintJobCommand(jobID, request.Success, request.ErrorMessage)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid completion report: " + err.Error(),
		})
	}

	if handleErr := s.completePrintJobHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		metrics.OperationErrorsTotal.WithLabelValues("complete_print_job").Inc()
		return s.errorResponse(ctx, handleErr, "Failed to complete print job")
	}

	if request.Success {
		metrics.PrintJobsCompletedTotal.Inc()
	} else {
		metrics.PrintJobsFailedTotal.Inc()
	}
	return ctx.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// RetryPrintJob handles POST /api/v1/print-jobs/:id/retry - operator reset of
// a failed job back to pending.
func (s *Server) RetryPrintJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id",
		})
	}

	cmd, err := commands.NewRetryPrintJobCommand(jobID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id: " + err.Error(),
		})
	}

	if handleErr := s.retryPrintJobHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		metrics.OperationErrorsTotal.WithLabelValues("retry_print_job").Inc()
		return s.errorResponse(ctx, handleErr, "Failed to retry print job")
	}

	return ctx.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// ReprintLabels handles POST /api/v1/orders/:id/reprint - enqueues fresh
// label print jobs for an order's purchased shipments.
func (s *Server) ReprintLabels(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewReprintLabelsCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	if handleErr := s.reprintLabelsHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		metrics.OperationErrorsTotal.WithLabelValues("reprint_labels").Inc()
		return s.errorResponse(ctx, handleErr, "Failed to reprint labels")
	}

	return ctx.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// GetUnshippedOrders handles GET /api/v1/orders - lists all in-flight orders.
func (s *Server) GetUnshippedOrders(ctx echo.Context) error {
	query := queries.NewGetUnshippedOrdersQuery()

	orders, err := s.getUnshippedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]UnshippedOrderPayload, len(orders))
	for i, item := range orders {
		response[i] = UnshippedOrderPayload{
			ID:           item.ID.String(),
			OrderNumber:  item.OrderNumber,
			Status:       item.Status.String(),
			ErrorMessage: item.ErrorMessage,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetPrintQueue handles GET /api/v1/print-jobs - lists uncompleted print jobs.
func (s *Server) GetPrintQueue(ctx echo.Context) error {
	query := queries.NewGetPrintQueueQuery()

	jobs, err := s.getPrintQueueHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve print queue",
		})
	}

	response := make([]QueuedPrintJobPayload, len(jobs))
	for i, item := range jobs {
		response[i] = QueuedPrintJobPayload{
			ID:           item.ID.String(),
			JobType:      item.JobType,
			Status:       item.Status.String(),
			Attempts:     item.Attempts,
			PrinterID:    item.PrinterID,
			ErrorMessage: item.ErrorMessage,
			CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// errorResponse maps use case failures onto HTTP statuses: unknown aggregate
// ids turn into 404, invalid input into 400, everything else into 500.
func (s *Server) errorResponse(ctx echo.Context, err error, message string) error {
	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: notFound.Error(),
		})
	}

	var invalid *errs.ValueIsInvalidError
	var required *errs.ValueIsRequiredError
	if errors.As(err, &invalid) || errors.As(err, &required) {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}
