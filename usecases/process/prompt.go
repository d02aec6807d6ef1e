package process

import (
	"fmt"
	"strings"

	"vlmbridge/models"
	"vlmbridge/utils"
)

// systemInstruction tells the model exactly what shape of output is
// acceptable. The allowed command list must stay in sync with the schema
// registry defaults.
const systemInstruction = `You are a scene editing assistant. Use the provided screenshot context and transcribed voice command to return a single JSON object that matches this schema. OUTPUT A SINGLE JSON OBJECT ONLY. NOTHING ELSE.

Schema (omit any fields that are not needed):
{
  "command": string,                   // required; use lower_snake_case
  "object_name": string,
  "offset": {"x": float, "y": float, "z": float},
  "position": {"x": float, "y": float, "z": float},
  "rotation": {"x": float, "y": float, "z": float},
  "primitive_type": string             // Cube | Sphere | Cylinder | Capsule | Plane
}

Valid command values (exactly one of these):
- "spawn_object"        (requires primitive_type)
- "delete_object"       (requires object_name)
- "translate_mesh"      (requires offset OR position)
- "rotate_mesh"         (requires rotation)

If the request cannot be mapped to one of the commands above, respond instead with:
{"command":"unknown","reason":"<brief explanation>"}

Rules:
- Do not invent command names or additional fields.
- Command names must match the spellings above exactly. Do not output variations such as "translate_messh" or "rotate_mash".
- Keep numbers in meters (convert centimetres to metres: 1 cm = 0.01).
- Final answer must be valid JSON, nothing else.

Examples:
{"command":"translate_mesh","object_name":"Cube_A","position":{"x":1.5,"y":0.0,"z":-2.0}}
{"command":"unknown","reason":"No actionable instruction detected"}`

// BuildConversation assembles the fresh per-request conversation: system
// instructions, then one user turn carrying the serialized context block,
// the transcript and the optional screenshot. Nothing is shared across
// requests.
func BuildConversation(transcript string, context any, imageB64 string) []models.ConversationTurn {
	var userContent strings.Builder
	if contextBlock := utils.SerializeContext(context); contextBlock != "" {
		fmt.Fprintf(&userContent, "Context:\n%s\n\n", contextBlock)
	}
	fmt.Fprintf(&userContent, "User request:\n%s", transcript)

	userTurn := models.ConversationTurn{
		Role:    models.RoleUser,
		Content: userContent.String(),
	}
	if imageB64 != "" {
		userTurn.Images = []string{imageB64}
	}

	return []models.ConversationTurn{
		{Role: models.RoleSystem, Content: systemInstruction},
		userTurn,
	}
}
