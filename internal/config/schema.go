package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "keypress://config.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// Schema returns the JSON schema configuration documents are checked
// against.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// Validate checks a configuration assembled in code, such as one with
// command-line overrides applied.
func Validate(cfg *Config) error {
	return validate("flags", cfg)
}

// validate checks v against the schema. v may be any value that encodes to
// JSON; it is normalized to the generic JSON form first.
func validate(path string, v any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	doc, err := toJSONValue(v)
	if err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Path: path, Err: err}
	}
	return nil
}

// toJSONValue round-trips v through encoding/json so decoder-specific
// number and map types become the generic JSON types the validator expects.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
