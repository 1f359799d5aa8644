package resolve

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed overrides.schema.json
var overridesSchemaText string

const overridesSchemaURL = "https://palletforge.schemas.local/overrides.schema.json"

var (
	overridesSchemaOnce sync.Once
	overridesSchema     *jsonschema.Schema
	overridesSchemaErr  error
)

func compiledOverridesSchema() (*jsonschema.Schema, error) {
	overridesSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(overridesSchemaURL, strings.NewReader(overridesSchemaText)); err != nil {
			overridesSchemaErr = fmt.Errorf("overrides schema load failed: %w", err)
			return
		}
		overridesSchema, overridesSchemaErr = c.Compile(overridesSchemaURL)
	})
	return overridesSchema, overridesSchemaErr
}

// LoadOverrides reads a JSON override document of the form
//
//	{"Balances": {"ExistentialDeposit": {"multiplier": 5, "unit": "UNIT"}}}
//
// and validates it against the embedded schema before decoding.
func LoadOverrides(r io.Reader) (Overrides, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Overrides{}, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("overrides are not valid JSON: %w", err)
	}

	schema, err := compiledOverridesSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("overrides failed schema validation: %w", err)
	}

	var out Overrides
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return out, nil
}
