package http

import (
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

var (
	swaggerInfo = &swag.Spec{
		Version:          "1.0.0",
		Title:            "Dispatch API",
		Description:      "Cascade dispatch of delivery and ride jobs to candidate drivers.",
		InfoInstanceName: "swagger",
		LeftDelim:        "{{",
		RightDelim:       "}}",
	}
	registerDocsOnce sync.Once
)

// registerDocs publishes doc to swag so /swagger/* serves it. swag allows a
// single registration per process.
func registerDocs(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return err
	}

	registerDocsOnce.Do(func() {
		swaggerInfo.SwaggerTemplate = string(raw)
		swag.Register(swaggerInfo.InstanceName(), swaggerInfo)
	})
	return nil
}
