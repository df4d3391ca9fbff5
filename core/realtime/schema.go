package realtime

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// Tool describes a function the session exposes to the remote model. The
// Parameters value is a struct whose JSON schema is derived by reflection.
type Tool struct {
	Name        string
	Description string
	Parameters  any
}

type sessionTool struct {
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

func toSessionTools(tools []Tool) []sessionTool {
	if len(tools) == 0 {
		return nil
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	sessionTools := make([]sessionTool, 0, len(tools))
	for _, tool := range tools {
		var schema *jsonschema.Schema
		if tool.Parameters != nil {
			if reflect.TypeOf(tool.Parameters).Kind() == reflect.Ptr {
				schema = reflector.ReflectFromType(reflect.TypeOf(tool.Parameters).Elem())
			} else {
				schema = reflector.Reflect(tool.Parameters)
			}
			// The realtime session schema has no use for these.
			schema.Version = ""
			schema.ID = ""
		}
		sessionTools = append(sessionTools, sessionTool{
			Type:        "function",
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  schema,
		})
	}
	return sessionTools
}
