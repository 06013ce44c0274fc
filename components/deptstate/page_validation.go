package deptstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PageSchemaValidator validates raw page values against JSON schemas registered per key.
// Keys without a schema pass through untouched.
type PageSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[PageKey]*jsonschema.Schema
}

// NewPageSchemaValidator builds an empty validator.
func NewPageSchemaValidator() *PageSchemaValidator {
	return &PageSchemaValidator{compiled: make(map[PageKey]*jsonschema.Schema)}
}

// Register compiles schema and binds it to key.
func (v *PageSchemaValidator) Register(key PageKey, schema map[string]any) error {
	if key == "" {
		return ErrUnknownPageKey
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("deptstate: marshal schema %s: %w", key, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(key) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("deptstate: load schema %s: %w", key, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return fmt.Errorf("deptstate: compile schema %s: %w", key, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return nil
}

// Validate checks value.Data against the schema registered for value.Key.
func (v *PageSchemaValidator) Validate(value RawPageValue) error {
	v.mu.RLock()
	schema, ok := v.compiled[value.Key]
	v.mu.RUnlock()
	if !ok {
		return nil
	}
	var payload any
	if len(value.Data) > 0 {
		if err := json.Unmarshal(value.Data, &payload); err != nil {
			return fmt.Errorf("deptstate: decode page value %s: %w", value.Key, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("deptstate: page value %s failed validation: %w", value.Key, err)
	}
	return nil
}
