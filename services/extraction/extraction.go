// Package extraction implements the conversation-driving retry loop that
// coerces a non-deterministic completion backend into producing a
// schema-valid command. Recoverable failures (bad JSON, schema violations)
// become corrective turns appended to the run's own conversation; transport
// and timeout failures abort the run immediately.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"vlmbridge/core"
	"vlmbridge/metrics"
	"vlmbridge/models"
	"vlmbridge/services"
	"vlmbridge/services/schema"
	"vlmbridge/utils"
)

const (
	// DefaultMaxAttempts is used when the request does not set a budget.
	DefaultMaxAttempts = 2

	// MaxAttemptsLimit caps the attempt budget. Every corrective retry
	// appends two turns and the conversation is never pruned within a run,
	// so an unbounded budget would grow the history without bound.
	MaxAttemptsLimit = 5
)

const escapeHatchInstruction = `If you cannot resolve the instruction from the context, respond with {"command":"unknown","reason":"need clarification"}.`

type ExtractionServiceImpl struct {
	completionService services.CompletionService
	registry          *schema.Registry
}

func NewExtractionService(
	completionService services.CompletionService,
	registry *schema.Registry,
) *ExtractionServiceImpl {
	return &ExtractionServiceImpl{
		completionService: completionService,
		registry:          registry,
	}
}

// ExtractCommand drives one orchestration run over its own copy of the
// conversation. It never returns a partially-validated payload: the result
// is either a fully validated command, a clean "unknown" outcome, or a
// failure carrying the last raw output and diagnostic.
func (s *ExtractionServiceImpl) ExtractCommand(
	ctx context.Context,
	req models.ConversationRequest,
) (*models.ExtractionResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("conversation must contain at least one message")
	}

	maxAttempts := req.MaxAttempts
	switch {
	case maxAttempts <= 0:
		maxAttempts = DefaultMaxAttempts
	case maxAttempts > MaxAttemptsLimit:
		log.Printf("⚠️ Requested %d attempts exceeds the limit, capping at %d", maxAttempts, MaxAttemptsLimit)
		maxAttempts = MaxAttemptsLimit
	}

	runID := core.NewID("run")

	// The run owns its conversation exclusively; the caller's slice is
	// copied so corrective turns never leak across runs.
	conversation := make([]models.ConversationTurn, len(req.Messages), len(req.Messages)+2*maxAttempts)
	copy(conversation, req.Messages)

	var lastOutput, lastDiagnostic string

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Printf("📋 [%s] Attempt %d/%d - querying model", runID, attempt, maxAttempts)
		metrics.ExtractionAttempts.Inc()

		output, err := s.completionService.GenerateCompletion(ctx, conversation)
		if err != nil {
			if !core.IsFatalCompletionError(err) {
				// The completion service must wrap one of the core
				// sentinels; anything else is a broken contract, not a
				// model failure, and surfaces to the caller.
				return nil, fmt.Errorf("completion failed outside the error taxonomy: %w", err)
			}
			// Infrastructure failures are never retried within this loop:
			// retrying a hung or broken backend spends the budget without
			// changing the outcome.
			log.Printf("❌ [%s] Completion failed: %v", runID, err)
			metrics.ExtractionOutcomes.WithLabelValues("fatal").Inc()
			return &models.ExtractionResult{
				Success: false,
				RawText: lastOutput,
				Error:   err.Error(),
			}, nil
		}

		output = utils.TrimCompletion(output)
		lastOutput = output
		log.Printf("🔍 [%s] Raw model output: %s", runID, output)

		// The parse step only rejects text that is not JSON at all. Any
		// successfully parsed value, object or not, goes to the validator
		// so its diagnostics drive the corrective turn.
		var payload any
		if err := json.Unmarshal([]byte(output), &payload); err != nil {
			lastDiagnostic = fmt.Sprintf("Model response was not valid JSON: %v", err)
			log.Printf("⚠️ [%s] JSON parse error: %v", runID, err)
			metrics.RecoverableFailures.WithLabelValues("parse").Inc()
			conversation = appendCorrectiveTurns(conversation, output, parseCorrection(err))
			continue
		}

		if result := s.registry.Validate(payload); !result.Valid {
			lastDiagnostic = fmt.Sprintf("Invalid command payload: %s", result.Diagnostic)
			log.Printf("⚠️ [%s] Validation failed: %s", runID, result.Diagnostic)
			metrics.RecoverableFailures.WithLabelValues("validation").Inc()
			conversation = appendCorrectiveTurns(conversation, output, validationCorrection(result.Diagnostic))
			continue
		}

		object, isObject := payload.(map[string]any)
		utils.AssertInvariant(isObject, "validated payload must be an object")

		command, err := schema.DecodeCommand(object)
		if err != nil {
			lastDiagnostic = fmt.Sprintf("Invalid command payload: %v", err)
			log.Printf("⚠️ [%s] Decode failed after validation: %v", runID, err)
			metrics.RecoverableFailures.WithLabelValues("validation").Inc()
			conversation = appendCorrectiveTurns(conversation, output, validationCorrection(lastDiagnostic))
			continue
		}

		if command.IsUnknown() {
			// The model's explicit escape hatch terminates the run cleanly
			// instead of burning the remaining budget on retries.
			log.Printf("📋 [%s] Model reported unresolvable instruction: %s", runID, command.Reason)
			metrics.ExtractionOutcomes.WithLabelValues("unresolved").Inc()
			return &models.ExtractionResult{
				Success: false,
				RawText: output,
				Error:   fmt.Sprintf("model could not resolve the instruction: %s", command.Reason),
			}, nil
		}

		log.Printf("📋 [%s] Validation passed on attempt %d", runID, attempt)
		metrics.ExtractionOutcomes.WithLabelValues("success").Inc()
		return &models.ExtractionResult{
			Success: true,
			Command: command,
			RawText: output,
		}, nil
	}

	log.Printf("❌ [%s] All %d attempts failed", runID, maxAttempts)
	metrics.ExtractionOutcomes.WithLabelValues("exhausted").Inc()
	if lastDiagnostic == "" {
		lastDiagnostic = "model response was not valid after retries"
	}
	return &models.ExtractionResult{
		Success: false,
		RawText: lastOutput,
		Error:   lastDiagnostic,
	}, nil
}

// appendCorrectiveTurns adds exactly one corrective pair: the assistant's
// failing output echoed back, then a user turn carrying the diagnostic and
// re-asking for JSON-only output.
func appendCorrectiveTurns(
	conversation []models.ConversationTurn,
	assistantOutput, correction string,
) []models.ConversationTurn {
	return append(conversation,
		models.ConversationTurn{Role: models.RoleAssistant, Content: assistantOutput},
		models.ConversationTurn{Role: models.RoleUser, Content: correction},
	)
}

func parseCorrection(parseErr error) string {
	return fmt.Sprintf(
		"Your response could not be parsed as JSON (%v). "+
			"Reply again with JSON only, no code fences or commentary, using one of the allowed commands. "+
			"Do not include ellipses or placeholder values - every field must contain an explicit value. %s",
		parseErr, escapeHatchInstruction,
	)
}

func validationCorrection(diagnostic string) string {
	return fmt.Sprintf(
		"%s Use one of the allowed command names exactly as listed and include the required fields. "+
			"Respond with JSON only and avoid ellipses or placeholder tokens. %s",
		diagnostic, escapeHatchInstruction,
	)
}
