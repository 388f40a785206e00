package otel_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/helpdesk/common/otel"
	"basegraph.app/helpdesk/core/config"
)

var _ = Describe("Setup", func() {
	It("is a no-op without an endpoint", func() {
		tel, err := otel.Setup(context.Background(), config.OTelConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(tel).To(BeNil())
		Expect(tel.Shutdown(context.Background())).To(Succeed())
	})
})

var _ = DescribeTable("ParseHeaders",
	func(in string, want map[string]string) {
		Expect(otel.ParseHeaders(in)).To(Equal(want))
	},
	Entry("empty", "", map[string]string{}),
	Entry("single pair", "x-api-key=abc", map[string]string{"x-api-key": "abc"}),
	Entry("trims whitespace", " a = 1 , b=2", map[string]string{"a": "1", "b": "2"}),
	Entry("skips malformed pairs", "a=1,broken", map[string]string{"a": "1"}),
	Entry("keeps '=' inside values", "auth=Basic a=b", map[string]string{"auth": "Basic a=b"}),
)
