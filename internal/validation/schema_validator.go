package validation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SchemaValidator checks JSON documents against JSON Schema files.
// Compiled schemas are cached per path, so repeated validations of
// deck import files only pay the compile cost once.
type SchemaValidator struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
	printer *message.Printer
}

func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		schemas: make(map[string]*jsonschema.Schema),
		printer: message.NewPrinter(language.English),
	}
}

// ValidateFile validates the JSON document at dataPath against the
// schema at schemaPath.
func (v *SchemaValidator) ValidateFile(dataPath, schemaPath string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read data file %s: %w", dataPath, err)
	}
	return v.ValidateBytes(data, schemaPath)
}

// ValidateBytes validates raw JSON bytes against the schema at schemaPath.
func (v *SchemaValidator) ValidateBytes(data []byte, schemaPath string) error {
	schema, err := v.schema(schemaPath)
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var vErr *jsonschema.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(v.describe(vErr), "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (v *SchemaValidator) schema(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[schemaPath]; ok {
		return schema, nil
	}

	resolved, err := resolveSchemaPath(schemaPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", schemaPath, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaPath, doc); err != nil {
		return nil, fmt.Errorf("failed to register schema %s: %w", schemaPath, err)
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", schemaPath, err)
	}

	v.schemas[schemaPath] = schema
	return schema, nil
}

// describe flattens a validation error tree into one line per leaf cause.
// Branch nodes only restate which subschema failed, so they are skipped
// when a more specific cause exists underneath.
func (v *SchemaValidator) describe(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		at := "/" + strings.Join(err.InstanceLocation, "/")
		if at == "/" {
			at = "(root)"
		}
		detail := ""
		if err.ErrorKind != nil {
			detail = err.ErrorKind.LocalizedString(v.printer)
		}
		return []string{fmt.Sprintf("  - at %s: %s", at, detail)}
	}

	var lines []string
	for _, cause := range err.Causes {
		lines = append(lines, v.describe(cause)...)
	}
	return lines
}

// resolveSchemaPath makes relative schema paths work regardless of the
// directory the tool is invoked from. It tries the working directory
// first, then walks up towards the module root looking for go.mod.
func resolveSchemaPath(schemaPath string) (string, error) {
	if filepath.IsAbs(schemaPath) {
		return schemaPath, nil
	}
	if _, err := os.Stat(schemaPath); err == nil {
		return schemaPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, schemaPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", fmt.Errorf("schema file not found: %s", schemaPath)
		}
		if filepath.Dir(dir) == dir {
			return "", fmt.Errorf("schema file not found: %s (searched from %s)", schemaPath, cwd)
		}
	}
}
