package knowledge_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/internal/retriever/knowledge"
)

var _ = Describe("MemoryIndex", func() {
	var idx *knowledge.MemoryIndex

	BeforeEach(func() {
		idx = knowledge.NewMemoryIndex([]string{
			"Support hours are Monday to Friday.",
			"Refunds need supervisor approval within 30 days.",
			"Update your payment method under Account Settings.",
		})
	})

	It("ranks documents sharing more query terms first", func() {
		results, err := idx.Search(context.Background(), "How do I update my payment method?", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0]).To(ContainSubstring("payment method"))
	})

	It("keeps document order for unrelated queries", func() {
		results, err := idx.Search(context.Background(), "help", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]string{
			"Support hours are Monday to Friday.",
			"Refunds need supervisor approval within 30 days.",
		}))
	})

	It("caps results at the number of documents", func() {
		results, err := idx.Search(context.Background(), "refund", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(idx.Len()))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := idx.Search(ctx, "refund", 1)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("LoadKnowledgeBase", func() {
	It("reads an external file and normalizes category names", func() {
		path := filepath.Join(GinkgoT().TempDir(), "kb.yaml")
		Expect(os.WriteFile(path, []byte("categories:\n  General:\n    - hello\n  Billing:\n    - invoices\n"), 0o600)).To(Succeed())

		kb, err := knowledge.LoadKnowledgeBase(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(kb.Categories).To(HaveKeyWithValue("general", []string{"hello"}))
		Expect(kb.Categories).To(HaveKey("billing"))
	})

	It("rejects a knowledge base without general documents", func() {
		_, err := knowledge.ParseKnowledgeBase([]byte("categories:\n  billing:\n    - x\n"))
		Expect(err).To(MatchError(knowledge.ErrNoGeneralIndex))
	})

	It("reports malformed yaml", func() {
		_, err := knowledge.ParseKnowledgeBase([]byte("categories: [oops"))
		Expect(err).To(MatchError(ContainSubstring("parsing knowledge base")))
	})
})
