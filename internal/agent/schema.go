/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// reflector generates tool input schemas from Go argument structs.
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
}

// inputSchema derives an Anthropic tool input schema for the argument
// struct T. Schemas are built once at startup from static types, so a
// reflection failure is a programming error and panics.
func inputSchema[T any]() anthropic.ToolInputSchemaParam {
	var zero T
	data, err := json.Marshal(reflector.Reflect(&zero))
	if err != nil {
		panic(fmt.Sprintf("marshaling tool schema for %T: %v", zero, err))
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("decoding tool schema for %T: %v", zero, err))
	}

	properties, _ := m["properties"].(map[string]any)
	var required []string
	if raw, ok := m["required"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}

	return anthropic.ToolInputSchemaParam{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
