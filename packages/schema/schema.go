// Package schema validates response bodies against JSON Schema documents.
package schema

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Report holds the outcome of one validation.
type Report struct {
	Valid  bool
	Errors []string
}

// Validate checks body against the JSON Schema stored at schemaPath.
func Validate(body []byte, schemaPath string) (*Report, error) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ValidateBytes(body, schemaData)
}

// ValidateBytes checks body against an in-memory JSON Schema.
func ValidateBytes(body, schemaData []byte) (*Report, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	report := &Report{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		report.Errors = append(report.Errors, desc.String())
	}
	return report, nil
}
