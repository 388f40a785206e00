package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/internal/http/handler"
	"basegraph.app/helpdesk/internal/model"
)

var _ = Describe("EscalationHandler", func() {
	var (
		router *gin.Engine
		svc    *mockTicketService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockTicketService{}
		router.GET("/escalations", handler.NewEscalationHandler(svc).List)
	})

	It("lists escalation records", func() {
		var gotLimit int
		svc.listEscalationsFn = func(_ context.Context, limit int) ([]model.EscalationRecord, error) {
			gotLimit = limit
			return []model.EscalationRecord{{
				Subject:          "Suspicious login",
				Description:      "someone logged in from abroad",
				Draft:            model.NotAvailable,
				Feedback:         "REJECTED missing MFA guidance",
				EscalationReason: "Max attempts (2) reached without approval",
			}}, nil
		}

		w := doJSON(router, http.MethodGet, "/escalations?limit=5", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gotLimit).To(Equal(5))

		var resp struct {
			Escalations []map[string]any `json:"escalations"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Escalations).To(HaveLen(1))
		Expect(resp.Escalations[0]["draft"]).To(Equal("N/A"))
		Expect(resp.Escalations[0]).NotTo(HaveKey("ticket_id"))
		Expect(resp.Escalations[0]).NotTo(HaveKey("created_at"))
	})

	It("returns an empty list rather than null", func() {
		w := doJSON(router, http.MethodGet, "/escalations", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"escalations":[]}`))
	})

	It("rejects an out of range limit", func() {
		w := doJSON(router, http.MethodGet, "/escalations?limit=1000", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 500 when the store fails", func() {
		svc.listEscalationsFn = func(context.Context, int) ([]model.EscalationRecord, error) {
			return nil, errors.New("disk error")
		}

		w := doJSON(router, http.MethodGet, "/escalations", nil)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
