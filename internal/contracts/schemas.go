package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed events
var schemasFS embed.FS

// Версионированные контракты исходящих событий
const (
	InteractionEventSchema = "events/interaction/v1.json"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	for _, path := range []string{InteractionEventSchema} {
		raw, err := schemasFS.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("contracts: missing embedded schema %s: %v", path, err))
		}
		if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
			panic(fmt.Sprintf("contracts: failed to add schema resource %s: %v", path, err))
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			panic(fmt.Sprintf("contracts: failed to compile schema %s: %v", path, err))
		}
		compiledSchemas[path] = schema
	}
}

// Validate проверяет JSON-полезную нагрузку против зарегистрированного контракта
func Validate(schemaPath string, payload []byte) error {
	schema, ok := compiledSchemas[schemaPath]
	if !ok {
		return fmt.Errorf("contracts: unknown schema %q", schemaPath)
	}

	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("contracts: payload is not valid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("contracts: payload violates %s: %w", schemaPath, err)
	}
	return nil
}
