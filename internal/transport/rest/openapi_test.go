package rest_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents the core endpoints the router exposes", func() {
		for _, path := range []string{
			"/auth/login",
			"/auth/activate",
			"/staff",
			"/staff/{staffID}/coe",
			"/workgroups/{workgroupID}/approvers",
			"/leaves/{leaveID}/approve",
			"/notifications",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("requires a bearer token on protected operations", func() {
		item := doc.Paths.Find("/leaves/{leaveID}/approve")
		Expect(item).NotTo(BeNil())
		Expect(item.Post.Security).NotTo(BeNil())
	})
})
