package bootstrap_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/common/llm"
	"basegraph.app/helpdesk/core/config"
	"basegraph.app/helpdesk/internal/bootstrap"
	"basegraph.app/helpdesk/internal/brain"
	"basegraph.app/helpdesk/internal/retriever/knowledge"
)

func testConfig(dir string) config.Config {
	stage := config.LLMConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o-mini", MaxTokens: 256}
	return config.Config{
		ClassifierLLM: stage,
		DrafterLLM:    stage,
		ReviewerLLM:   stage,
		Knowledge:     config.KnowledgeConfig{SpecificK: 3, GeneralK: 1},
		Escalation: config.EscalationConfig{
			Sink:    config.SinkCSV,
			CSVPath: filepath.Join(dir, "escalation_log.csv"),
		},
	}
}

var _ = Describe("NewPipeline", func() {
	It("wires the orchestrator with a csv sink", func() {
		dir := GinkgoT().TempDir()

		p, err := bootstrap.NewPipeline(context.Background(), testConfig(dir))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(p.Close)

		Expect(p.Orchestrator).NotTo(BeNil())
		Expect(p.Escalations).NotTo(BeNil())
		Expect(filepath.Join(dir, "escalation_log.csv")).To(BeAnExistingFile())
	})

	It("fails the stage when the LLM provider hangs", func() {
		release := make(chan struct{})
		hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		DeferCleanup(func() {
			close(release)
			hung.Close()
		})

		dir := GinkgoT().TempDir()
		cfg := testConfig(dir)
		cfg.ClassifierLLM.BaseURL = hung.URL + "/"
		cfg.ClassifierLLM.Timeout = 100 * time.Millisecond

		p, err := bootstrap.NewPipeline(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(p.Close)

		_, err = p.Orchestrator.Process(context.Background(), "Refund", "I was charged twice")

		var sf *brain.StageFailure
		Expect(errors.As(err, &sf)).To(BeTrue())
		Expect(sf.Stage).To(Equal(brain.StageClassify))
		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(err).To(MatchError(llm.ErrTimeout))
		Expect(brain.IsRetryable(context.Background(), err)).To(BeTrue())

		records, err := p.Escalations.List(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())
	})

	It("rejects an unsupported provider", func() {
		cfg := testConfig(GinkgoT().TempDir())
		cfg.DrafterLLM.Provider = "bedrock"

		_, err := bootstrap.NewPipeline(context.Background(), cfg)
		Expect(err).To(MatchError(ContainSubstring("creating drafter llm client")))
	})
})

var _ = Describe("NewKnowledgeRegistry", func() {
	It("defaults to the built-in knowledge base in memory", func() {
		reg, err := bootstrap.NewKnowledgeRegistry(testConfig(GinkgoT().TempDir()))
		Expect(err).NotTo(HaveOccurred())

		_, ok := reg.Lookup("billing")
		Expect(ok).To(BeTrue())
		Expect(reg.General()).To(BeAssignableToTypeOf(&knowledge.MemoryIndex{}))
	})

	It("loads an external knowledge base", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "kb.yaml")
		Expect(os.WriteFile(path, []byte("categories:\n  general:\n    - Contact support any time.\n  shipping:\n    - Orders ship in 2 days.\n"), 0o644)).To(Succeed())

		cfg := testConfig(dir)
		cfg.Knowledge.Path = path
		reg, err := bootstrap.NewKnowledgeRegistry(cfg)
		Expect(err).NotTo(HaveOccurred())

		_, ok := reg.Lookup("Shipping")
		Expect(ok).To(BeTrue())
		_, ok = reg.Lookup("billing")
		Expect(ok).To(BeFalse())
	})
})
