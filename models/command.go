package models

// Canonical command names accepted by the schema registry.
const (
	CommandSpawnObject   = "spawn_object"
	CommandDeleteObject  = "delete_object"
	CommandTranslateMesh = "translate_mesh"
	CommandRotateMesh    = "rotate_mesh"

	// CommandUnknown is the model's escape hatch for instructions it cannot
	// resolve. It validates like any other command but terminates the
	// extraction run as a clean non-success.
	CommandUnknown = "unknown"
)

// Vector3 is a three-component spatial value (offset, position or rotation).
// After validation all axes are finite numbers.
type Vector3 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

// Command is a schema-validated scene-editing instruction. Only the fields
// required by its variant are populated; Command is always lower-case and
// allow-listed by the registry.
type Command struct {
	Command       string   `json:"command"                  mapstructure:"command"`
	ObjectName    string   `json:"object_name,omitempty"    mapstructure:"object_name"`
	PrimitiveType string   `json:"primitive_type,omitempty" mapstructure:"primitive_type"`
	Offset        *Vector3 `json:"offset,omitempty"         mapstructure:"offset"`
	Position      *Vector3 `json:"position,omitempty"       mapstructure:"position"`
	Rotation      *Vector3 `json:"rotation,omitempty"       mapstructure:"rotation"`
	Reason        string   `json:"reason,omitempty"         mapstructure:"reason"`
}

// IsUnknown reports whether the model used its escape hatch instead of
// producing an actionable command.
func (c *Command) IsUnknown() bool {
	return c.Command == CommandUnknown
}
