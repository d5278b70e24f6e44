// Package llm wraps the OpenAI chat API for the two calls the pipeline
// makes: classification (constrained JSON, low temperature) and reply
// drafting (free text).
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	emaildomain "ghostinbox-backend/internal/email/domain"
	"ghostinbox-backend/pkg/apperr"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT4o

const (
	// Classification must be reproducible across near-identical inputs, so
	// sampling stays low. Drafting is allowed more freedom.
	classifyTemperature = 0.3
	classifyMaxTokens   = 100
	draftTemperature    = 0.7
	draftMaxTokens      = 200
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: openai.NewClient(apiKey), model: model}
}

// NewClientWithBaseURL points the client at an alternative endpoint.
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: openai.NewClientWithConfig(cfg), model: model}
}

// Classify sends one prompt and parses the constrained JSON verdict.
func (c *Client) Classify(ctx context.Context, msg emaildomain.InboundMessage) (emaildomain.Verdict, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: ClassifyPrompt(msg)},
		},
		MaxTokens:   classifyMaxTokens,
		Temperature: classifyTemperature,
	})
	if err != nil {
		return emaildomain.Verdict{}, apperr.Upstream(apperr.CodeLLMFailed, "classification call failed", 0, err)
	}
	if len(resp.Choices) == 0 {
		return emaildomain.Verdict{}, apperr.Upstream(apperr.CodeLLMFailed, "classification returned no choices", 0, nil)
	}
	return ParseVerdict(resp.Choices[0].Message.Content)
}

// GenerateReply produces tone-matched free-text reply content.
func (c *Client) GenerateReply(ctx context.Context, subject, body string, tone *emaildomain.ToneProfile) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: DraftPrompt(subject, body, tone)},
		},
		MaxTokens:   draftMaxTokens,
		Temperature: draftTemperature,
	})
	if err != nil {
		return "", apperr.Upstream(apperr.CodeLLMFailed, "draft generation call failed", 0, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Upstream(apperr.CodeLLMFailed, "draft generation returned no choices", 0, nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ClassifyPrompt embeds the decision policy verbatim: the rule text defines
// product behavior, not a suggestion to the model.
func ClassifyPrompt(msg emaildomain.InboundMessage) string {
	return fmt.Sprintf(`Classify this email with specific criteria:

Subject: %s
From: %s
Body: %s

CLASSIFICATION RULES:
- HIGH_RISK: Contains "URGENT", "ASAP", "EOD", deadlines, budget approvals, legal matters, security issues, or requests requiring immediate action
- MEDIUM_RISK: Time-sensitive but not urgent, meeting requests, project updates requiring response within 24-48 hours
- LOW_RISK: Newsletters, notifications, FYI emails, marketing, no action needed

- HIGH URGENCY: Contains urgent keywords, tight deadlines (same day), critical business decisions
- MEDIUM URGENCY: Important but can wait 1-2 days, scheduled meetings, project deadlines
- LOW URGENCY: No deadline, informational, marketing emails

- REPLY: Requires a response from the recipient
- ARCHIVE: Can be filed away, no action needed
- NOTIFY: Important to read but may not need immediate response

Output JSON only: { "category": "low_risk|medium_risk|high_risk", "urgency": "low|medium|high", "sentiment": "positive|neutral|negative", "required_action": "reply|archive|notify" }`,
		msg.Subject, msg.Sender, msg.Body)
}

// DraftPrompt embeds the subject, body and the user's tone sliders.
func DraftPrompt(subject, body string, tone *emaildomain.ToneProfile) string {
	if tone == nil {
		tone = emaildomain.DefaultToneProfile("")
	}
	return fmt.Sprintf(`Generate a reply to this email: Subject: %s Body: %s
Match user tone: Formality %d%%, Emoji %d%%, Brevity %d%%.
Output reply text only.`, subject, body, tone.Formality, tone.EmojiUsage, tone.Brevity)
}

// StripFences removes a wrapping markdown code fence if present. Models
// sometimes wrap JSON answers in ``` or ```json despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseVerdict parses and validates the model's classification answer.
// Anything that is not a complete four-field verdict is a MalformedVerdict
// error, surfaced to the caller rather than silently retried.
func ParseVerdict(raw string) (emaildomain.Verdict, error) {
	cleaned := StripFences(raw)

	var v emaildomain.Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return emaildomain.Verdict{}, apperr.Upstream(apperr.CodeMalformedVerdict,
			"classification response is not valid JSON", 0, err)
	}
	if !v.Valid() {
		return emaildomain.Verdict{}, apperr.Upstream(apperr.CodeMalformedVerdict,
			fmt.Sprintf("classification response missing or invalid fields: %+v", v), 0, nil)
	}
	return v, nil
}
