package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const pointerSchema = `{
  "type": "object",
  "properties": {
    "x":      {"type": "number"},
    "y":      {"type": "number"},
    "width":  {"type": "integer", "minimum": 1, "maximum": 4096},
    "height": {"type": "integer", "minimum": 1, "maximum": 4096},
    "mode":   {"type": "string", "enum": ["snap", "free"]},
    "explain": {"type": "boolean"}
  },
  "required": ["x", "y"],
  "additionalProperties": false
}`

const eventSchema = `{
  "type": "object",
  "properties": {
    "action": {"type": "string", "enum": ["press", "release", "move", "cancel"]},
    "button": {"type": "string", "enum": ["none", "left", "middle", "right"]},
    "x":      {"type": "number"},
    "y":      {"type": "number"},
    "shift":  {"type": "boolean"},
    "ctrl":   {"type": "boolean"},
    "alt":    {"type": "boolean"}
  },
  "required": ["action"],
  "additionalProperties": false
}`

// validator checks request bodies against a compiled JSON schema.
type validator struct {
	schema *gojsonschema.Schema
}

func mustValidator(src string) *validator {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("server: bad schema: %v", err))
	}
	return &validator{schema: s}
}

var (
	pointerValidator = mustValidator(pointerSchema)
	eventValidator   = mustValidator(eventSchema)
)

// validate reports every schema violation in data as one error.
func (v *validator) validate(data []byte) error {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
