package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/helpdesk/internal/http/dto"
	"basegraph.app/helpdesk/internal/service"
)

type EscalationHandler struct {
	service service.TicketService
}

func NewEscalationHandler(service service.TicketService) *EscalationHandler {
	return &EscalationHandler{service: service}
}

func (h *EscalationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListEscalationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := h.service.ListEscalations(ctx, query.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list escalations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list escalations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"escalations": dto.ToEscalationResponses(records)})
}
