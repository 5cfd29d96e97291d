package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

var ErrSchemaInvalid = errors.New("front-matter schema invalid")

// SchemaOverlay validates the raw front-matter mapping against a compiled
// JSON-Schema (draft 2020-12). It complements the baseline field rules for
// teams that extend the metadata schema with their own keys.
type SchemaOverlay struct {
	compiled *jsonschema.Schema
}

// NewSchemaOverlay compiles the supplied schema document. Compilation happens
// once at construction so per-document validation stays cheap.
func NewSchemaOverlay(schema map[string]any) (*SchemaOverlay, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: empty schema", ErrSchemaInvalid)
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &SchemaOverlay{compiled: compiled}, nil
}

// LoadSchemaOverlay reads and compiles a JSON-Schema document from disk.
func LoadSchemaOverlay(path string) (*SchemaOverlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load front-matter schema %s: %w", path, err)
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, path, err)
	}
	return NewSchemaOverlay(schema)
}

// Validate checks the raw mapping and returns one violation per failing leaf,
// each carrying the JSON-pointer instance location in Field.
func (o *SchemaOverlay) Validate(raw map[string]any) []interfaces.Violation {
	if o == nil || o.compiled == nil {
		return nil
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// The compiled schema expects JSON-decoded values; YAML and TOML decoders
	// produce native ints and nested typed maps, so normalize through JSON.
	payload, err := normalizePayload(raw)
	if err != nil {
		return []interfaces.Violation{{
			Code:    interfaces.ViolationSchema,
			Message: fmt.Sprintf("front matter is not schema-checkable: %v", err),
		}}
	}

	err = o.compiled.Validate(payload)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []interfaces.Violation{{
			Code:    interfaces.ViolationSchema,
			Message: err.Error(),
		}}
	}

	var violations []interfaces.Violation
	for _, issue := range collectSchemaIssues(validationErr) {
		violations = append(violations, interfaces.Violation{
			Code:    interfaces.ViolationSchema,
			Field:   issue.location,
			Message: issue.message,
		})
	}
	return violations
}

type schemaIssue struct {
	location string
	message  string
}

// collectSchemaIssues walks the validation error tree and keeps the leaves,
// which carry the actionable messages.
func collectSchemaIssues(err *jsonschema.ValidationError) []schemaIssue {
	if err == nil {
		return nil
	}

	issues := []schemaIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			} else if !strings.HasPrefix(location, "#") {
				location = "#" + location
			}
			issues = append(issues, schemaIssue{
				location: location,
				message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.schema.json")
}

func normalizePayload(raw map[string]any) (any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
