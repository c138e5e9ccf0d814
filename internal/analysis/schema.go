package analysis

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed response.schema.json
var responseSchemaJSON []byte

var (
	responseSchemaOnce sync.Once
	responseSchema     *gojsonschema.Schema
	responseSchemaErr  error
)

func getResponseSchema() (*gojsonschema.Schema, error) {
	responseSchemaOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(responseSchemaJSON)
		responseSchema, responseSchemaErr = gojsonschema.NewSchema(loader)
	})
	return responseSchema, responseSchemaErr
}

// validateResponse checks a decoded body against the response schema and
// returns the violations, if any.
func validateResponse(body any) ([]string, error) {
	schema, err := getResponseSchema()
	if err != nil {
		return nil, err
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}

	out := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, e.String())
	}
	return out, nil
}

func joinViolations(v []string) string {
	return strings.Join(v, "; ")
}
