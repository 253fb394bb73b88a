package ai

import (
	"encoding/json"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"telegram-job-applier/internal/domain/model"
)

const answerSystemPrompt = "You draft short, truthful answers to job application questions " +
	"on behalf of a candidate, using only the candidate profile provided. " +
	"If the profile does not contain the information, say so instead of inventing it."

// BuildAnswerPrompt renders the profile as JSON context plus the question,
// trimming the profile when the whole prompt would blow the token budget. The
// question is never trimmed.
func BuildAnswerPrompt(profile *model.UserProfile, question, tokenizerModel string, maxTokens int) (string, error) {
	profileJSON := "{}"
	if profile != nil {
		b, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal profile: %w", err)
		}
		profileJSON = string(b)
	}

	prompt := fmt.Sprintf("Candidate profile:\n%s\n\nApplication question:\n%s", profileJSON, question)

	enc, err := tiktoken.EncodingForModel(tokenizerModel)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return "", fmt.Errorf("load tokenizer: %w", err)
		}
	}
	tokens := enc.Encode(prompt, nil, nil)
	if len(tokens) <= maxTokens {
		return prompt, nil
	}

	// Over budget: drop the bulky history sections and retry with the rest.
	if profile != nil && (profile.WorkExperience != nil || profile.Education != nil) {
		trimmed := *profile
		trimmed.WorkExperience = nil
		trimmed.Education = nil
		return BuildAnswerPrompt(&trimmed, question, tokenizerModel, maxTokens)
	}
	// Nothing left to drop; hard-truncate at the token boundary.
	return enc.Decode(tokens[:maxTokens]), nil
}
