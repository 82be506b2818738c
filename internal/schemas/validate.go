// Package schemas provides JSON Schema validation for resume profiles and catalog documents.
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/careerpilot/schemas"
)

// Name identifies an embedded schema.
type Name string

// Embedded schemas
const (
	ResumeProfile Name = "resume_profile"
	JobPosting    Name = "job_posting"
	CourseRecord  Name = "course_record"
	RoleTarget    Name = "role_target"
)

// Names lists every embedded schema.
func Names() []Name {
	return []Name{ResumeProfile, JobPosting, CourseRecord, RoleTarget}
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// compiled holds every embedded schema, compiled on first use.
var compiled = sync.OnceValues(func() (map[Name]*gojsonschema.Schema, error) {
	out := make(map[Name]*gojsonschema.Schema)
	for _, name := range Names() {
		file := string(name) + ".schema.json"
		data, err := schemafiles.FS.ReadFile(file)
		if err != nil {
			return nil, &SchemaLoadError{Path: file, Message: "embedded schema missing", Cause: err}
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, &SchemaLoadError{Path: file, Message: "invalid schema", Cause: err}
		}
		out[name] = schema
	}
	return out, nil
})

func schemaFor(name Name) (*gojsonschema.Schema, error) {
	all, err := compiled()
	if err != nil {
		return nil, err
	}
	schema, ok := all[name]
	if !ok {
		return nil, &SchemaLoadError{Path: string(name), Message: "unknown schema"}
	}
	return schema, nil
}

// Validate validates a JSON document against the named schema.
func Validate(name Name, data []byte) error {
	schema, err := schemaFor(name)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "malformed JSON"}}}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	return toValidationError(result, "")
}

// ValidateList validates a JSON array whose every element must match the named schema.
// Field paths are prefixed with the element index, e.g. "[2].id".
func ValidateList(name Name, data []byte) error {
	schema, err := schemaFor(name)
	if err != nil {
		return err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "expected a JSON array"}}}
	}

	var all []FieldError
	for i, item := range items {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(item))
		if err != nil {
			return fmt.Errorf("failed to validate element %d: %w", i, err)
		}
		if verr := toValidationError(result, fmt.Sprintf("[%d]", i)); verr != nil {
			all = append(all, verr.(*ValidationError).Errors...)
		}
	}
	if len(all) > 0 {
		return &ValidationError{Errors: all}
	}
	return nil
}

// ValidateFile validates a JSON file against the named schema.
func ValidateFile(name Name, jsonPath string) error {
	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	data, err := os.ReadFile(jsonAbsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return Validate(name, data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result, "")
}

// toValidationError builds a structured error from a result, or returns nil when valid.
func toValidationError(result *gojsonschema.Result, prefix string) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		switch {
		case field == "(root)" || field == "":
			if prefix == "" {
				field = "(root)"
			} else {
				field = prefix
			}
		case prefix != "":
			field = prefix + "." + field
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
