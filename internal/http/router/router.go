package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/helpdesk/internal/http/handler"
	"basegraph.app/helpdesk/internal/service"
)

type RouterConfig struct {
	TraceHeaderName string
}

func SetupRoutes(router *gin.Engine, tickets service.TicketService, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		ticketHandler := handler.NewTicketHandler(tickets, cfg.TraceHeaderName)
		TicketRouter(v1.Group("/tickets"), ticketHandler)

		escalationHandler := handler.NewEscalationHandler(tickets)
		EscalationRouter(v1.Group("/escalations"), escalationHandler)
	}
}

func TicketRouter(router *gin.RouterGroup, handler *handler.TicketHandler) {
	router.POST("", handler.Create)
	router.POST("/enqueue", handler.Enqueue)
	router.GET("/:id", handler.Get)
}

func EscalationRouter(router *gin.RouterGroup, handler *handler.EscalationHandler) {
	router.GET("", handler.List)
}
