// Package schema holds the declarative command schema registry and the
// payload validator. The registry is immutable after construction and safely
// shared across concurrent extraction runs.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/mo"

	"vlmbridge/models"
)

// FieldPredicate checks a parsed payload for the fields its command variant
// requires. The diagnostic returned on rejection must be self-contained and
// actionable: it is echoed verbatim into the model conversation.
type FieldPredicate func(payload map[string]any) (bool, string)

// Registry maps canonical command names to their field predicates. Adding a
// command is a data change - a Register call - never an orchestration change.
type Registry struct {
	predicates  map[string]FieldPredicate
	autocorrect bool
}

// Option configures registry construction.
type Option func(*Registry)

// WithAutocorrect enables deterministic fuzzy command-name correction
// (Levenshtein distance up to 2, never on ambiguous ties).
func WithAutocorrect() Option {
	return func(r *Registry) { r.autocorrect = true }
}

// NewRegistry builds the default command schema registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{predicates: map[string]FieldPredicate{
		models.CommandSpawnObject: func(payload map[string]any) (bool, string) {
			if !hasNonEmptyString(payload, "primitive_type") {
				return false, "spawn_object requires 'primitive_type'."
			}
			return true, ""
		},
		models.CommandDeleteObject: func(payload map[string]any) (bool, string) {
			if !hasNonEmptyString(payload, "object_name") {
				return false, "delete_object requires 'object_name'."
			}
			return true, ""
		},
		models.CommandTranslateMesh: func(payload map[string]any) (bool, string) {
			if !IsVector(payload["offset"]) && !IsVector(payload["position"]) {
				return false, "translate_mesh requires 'offset' or 'position' vector."
			}
			return true, ""
		},
		models.CommandRotateMesh: func(payload map[string]any) (bool, string) {
			if !IsVector(payload["rotation"]) {
				return false, "rotate_mesh requires 'rotation' vector."
			}
			return true, ""
		},
		models.CommandUnknown: func(payload map[string]any) (bool, string) {
			if !hasNonEmptyString(payload, "reason") {
				return false, "unknown requires 'reason'."
			}
			return true, ""
		},
	}}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a command predicate. Names are stored lower-case.
// Must only be called during setup, before the registry is shared.
func (r *Registry) Register(name string, predicate FieldPredicate) {
	r.predicates[strings.ToLower(name)] = predicate
}

// Lookup resolves a command name case-insensitively.
func (r *Registry) Lookup(name string) mo.Option[FieldPredicate] {
	predicate, ok := r.predicates[strings.ToLower(name)]
	if !ok {
		return mo.None[FieldPredicate]()
	}
	return mo.Some(predicate)
}

// CommandNames returns the allow-listed command names in sorted order.
func (r *Registry) CommandNames() []string {
	names := make([]string, 0, len(r.predicates))
	for name := range r.predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks an arbitrary parsed value against the registry. It never
// panics or returns an error: every outcome is a ValidationResult. On
// success the normalized lower-case command name is written back into the
// payload.
func (r *Registry) Validate(value any) models.ValidationResult {
	payload, ok := value.(map[string]any)
	if !ok {
		return invalid("Response must be a JSON object.")
	}

	rawCommand, ok := payload["command"].(string)
	if !ok || rawCommand == "" {
		return invalid("Missing or invalid 'command' field.")
	}

	command := strings.ToLower(rawCommand)
	if r.autocorrect {
		if corrected, ok := normalizeCommandName(command, r.CommandNames()); ok {
			command = corrected
		}
	}

	maybePredicate := r.Lookup(command)
	if !maybePredicate.IsPresent() {
		return invalid(fmt.Sprintf("Command '%s' is not in the allowed list.", rawCommand))
	}

	if ok, diagnostic := maybePredicate.MustGet()(payload); !ok {
		return invalid(diagnostic)
	}

	// Write-back happens only once the payload is known to be valid, so
	// rejected payloads come back unmodified.
	payload["command"] = command

	return models.ValidationResult{Valid: true}
}

func invalid(diagnostic string) models.ValidationResult {
	return models.ValidationResult{Valid: false, Diagnostic: diagnostic}
}

func hasNonEmptyString(payload map[string]any, field string) bool {
	value, ok := payload[field].(string)
	return ok && value != ""
}
