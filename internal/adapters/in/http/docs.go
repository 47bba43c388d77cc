package http

import (
	"encoding/json"
	"sync"

	"cafe/internal/api/servers"

	"github.com/swaggo/swag"
)

var registerDocsOnce sync.Once

// registerDocs publishes the embedded OpenAPI document to swag so echo-swagger
// can serve it at /swagger/doc.json.
func registerDocs() error {
	var err error
	registerDocsOnce.Do(func() {
		swagger, loadErr := servers.GetSwagger()
		if loadErr != nil {
			err = loadErr
			return
		}
		raw, marshalErr := json.Marshal(swagger)
		if marshalErr != nil {
			err = marshalErr
			return
		}
		swag.Register(swag.Name, &swag.Spec{
			Title:            swagger.Info.Title,
			Version:          swagger.Info.Version,
			Description:      swagger.Info.Description,
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(raw),
			LeftDelim:        "{%",
			RightDelim:       "%}",
		})
	})
	return err
}
