package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

// FallbackConfirmation is returned whenever the model cannot produce a
// confirmation message. The appointment is already booked at that
// point, so the caller gets a fixed apology instead of an error.
const FallbackConfirmation = "Your appointment is confirmed. We could not generate a personalized message right now; please arrive 10 minutes early."

// ExtractedRequest is the structured triple the model pulls out of a
// free-form sentence. All three fields are non-empty or the extraction
// is discarded as a whole.
type ExtractedRequest struct {
	Patient string `json:"patient"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Assistant wraps the LLM client with the clinic's two prompts.
type Assistant struct {
	llm    LLMClient
	clinic string
	doctor string
	logger *logging.Logger
}

// New constructs an assistant around an injected LLM client.
func New(llm LLMClient, clinicName, doctorName string, logger *logging.Logger) *Assistant {
	if llm == nil {
		panic("assistant: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Assistant{llm: llm, clinic: clinicName, doctor: doctorName, logger: logger}
}

// Extract asks the model for the patient, date and time in a free-form
// request. today anchors relative expressions like "tomorrow". The
// first return is nil when the model cannot confidently determine all
// three fields; partial extractions are never returned.
func (a *Assistant) Extract(ctx context.Context, text string, today time.Time) (*ExtractedRequest, error) {
	system := fmt.Sprintf(`You are the scheduling assistant for %s. The doctor is %s.
Extract the patient name, appointment date and appointment time from the user's request.
Today is %s. Resolve relative dates ("today", "tomorrow", "next Friday") against that date.
Reply with ONLY a JSON object: {"patient": "...", "date": "YYYY-MM-DD", "time": "HH:MM"} using a 24-hour clock.
If you cannot confidently determine all three fields, reply with exactly: null`,
		a.clinic, a.doctor, today.Format("2006-01-02"))

	resp, err := a.llm.Complete(ctx, LLMRequest{
		System:      []string{system},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: text}},
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: extract request: %w", err)
	}

	extracted := parseExtraction(resp.Text)
	if extracted == nil {
		a.logger.Info("extraction yielded nothing", "reply", resp.Text)
	}
	return extracted, nil
}

// parseExtraction pulls the JSON object out of a model reply. Code
// fences and surrounding prose are tolerated; a missing or blank field
// discards the whole extraction.
func parseExtraction(reply string) *ExtractedRequest {
	reply = strings.TrimSpace(reply)
	open := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if open < 0 || end <= open {
		return nil
	}

	var extracted ExtractedRequest
	if err := json.Unmarshal([]byte(reply[open:end+1]), &extracted); err != nil {
		return nil
	}
	extracted.Patient = strings.TrimSpace(extracted.Patient)
	extracted.Date = strings.TrimSpace(extracted.Date)
	extracted.Time = strings.TrimSpace(extracted.Time)
	if extracted.Patient == "" || extracted.Date == "" || extracted.Time == "" {
		return nil
	}
	return &extracted
}

// ConfirmationMessage writes a short cordial confirmation for a booked
// appointment. Model failures degrade to FallbackConfirmation; this
// never returns an error because the booking has already been saved.
func (a *Assistant) ConfirmationMessage(ctx context.Context, patient string, start time.Time) string {
	prompt := fmt.Sprintf(`Write a short, friendly appointment confirmation for the patient %s.
The appointment is with %s at %s on %s at %s.
Ask the patient to arrive 10 minutes early. Two sentences at most.`,
		patient, a.doctor, a.clinic, start.Format("02/01/2006"), start.Format("15:04"))

	resp, err := a.llm.Complete(ctx, LLMRequest{
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens:   120,
		Temperature: 0.7,
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		a.logger.Warn("confirmation message generation failed", "error", err)
		return FallbackConfirmation
	}
	return resp.Text
}
