package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/helpdesk/common/id"
	"basegraph.app/helpdesk/internal/brain"
	"basegraph.app/helpdesk/internal/http/dto"
	"basegraph.app/helpdesk/internal/queue"
	"basegraph.app/helpdesk/internal/service"
)

type TicketHandler struct {
	service     service.TicketService
	traceHeader string
}

func NewTicketHandler(service service.TicketService, traceHeader string) *TicketHandler {
	return &TicketHandler{
		service:     service,
		traceHeader: traceHeader,
	}
}

// Create runs the ticket to completion before responding.
func (h *TicketHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.Submit(ctx, service.TicketParams{
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTicket) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var sf *brain.StageFailure
		if errors.As(err, &sf) {
			slog.ErrorContext(ctx, "ticket processing failed", "error", err, "stage", sf.Stage)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "stage": sf.Stage})
			return
		}
		slog.ErrorContext(ctx, "failed to process ticket", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process ticket"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Enqueue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := service.TicketParams{
		Subject:     req.Subject,
		Description: req.Description,
	}
	traceID := c.GetHeader(h.traceHeader)
	if traceID == "" {
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			traceID = spanCtx.TraceID().String()
		}
	}
	if traceID != "" {
		params.TraceID = &traceID
	}

	result, err := h.service.Enqueue(ctx, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTicket) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to enqueue ticket", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue ticket"})
		return
	}

	c.JSON(http.StatusAccepted, dto.EnqueueTicketResponse{
		TicketID:  result.TicketID,
		MessageID: result.MessageID,
		Status:    string(queue.ResultStatusQueued),
	})
}

func (h *TicketHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	ticketID, err := id.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	result, err := h.service.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, queue.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get ticket result", "error", err, "ticket_id", ticketID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get ticket"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResultResponse(result))
}
