// Package explain turns validation failures into plain-language explanations
// using the OpenAI Chat Completions API.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ziadkadry99/apivet/internal/engine"
)

const systemPrompt = `You are an API contract reviewer. You are given an OpenAPI
endpoint definition and the validation failures observed when calling the live
API. Explain, in plain language, what is wrong, whether the fault likely lies
in the API implementation or in the specification, and suggest a concrete fix.
Be concise. Use short paragraphs, no headings.`

// Explainer produces human-readable explanations for failed endpoints.
type Explainer struct {
	client *openai.Client
	model  string
}

// New creates an explainer. The API key comes from OPENAI_API_KEY via the
// caller; an empty key fails at request time, not here.
func New(apiKey, model string) *Explainer {
	return &Explainer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Explain asks the model to interpret one failed endpoint result.
func (e *Explainer) Explain(ctx context.Context, res engine.EndpointResult) (string, error) {
	if res.Success {
		return "", fmt.Errorf("endpoint %s passed validation, nothing to explain", res.Endpoint.ID())
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(res)},
		},
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("explanation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt assembles the failure context sent to the model.
func buildPrompt(res engine.EndpointResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Endpoint: %s\n", res.Endpoint.ID())
	if res.Endpoint.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", res.Endpoint.Summary)
	}
	if codes := res.Endpoint.ExpectedStatusCodes(); len(codes) > 0 {
		fmt.Fprintf(&b, "Declared status codes: %s\n", strings.Join(codes, ", "))
	}

	if res.Error != "" {
		fmt.Fprintf(&b, "\nTransport failure: %s\n", res.Error)
	}

	if res.Response != nil {
		fmt.Fprintf(&b, "\nObserved response: %d %s\n", res.Response.StatusCode, res.Response.Status)
		if res.Response.Body != "" {
			fmt.Fprintf(&b, "Response body (truncated):\n%s\n", res.Response.Body)
		}
	}

	var failed []string
	for _, v := range res.Validations {
		if v.Valid {
			continue
		}
		line := v.Name
		if v.Message != "" {
			line += ": " + v.Message
		}
		failed = append(failed, line)
		for _, issue := range v.Errors {
			item := "  - " + issue.Message
			if issue.Path != "" {
				item += " (at " + issue.Path + ")"
			}
			failed = append(failed, item)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&b, "\nFailed validations:\n%s\n", strings.Join(failed, "\n"))
	}

	if schema := res.Endpoint.ResponseSchema(statusOf(res)); schema != nil {
		if raw, err := json.MarshalIndent(schema, "", "  "); err == nil {
			fmt.Fprintf(&b, "\nExpected response schema:\n%s\n", raw)
		}
	}

	return b.String()
}

func statusOf(res engine.EndpointResult) string {
	if res.Response == nil {
		return "200"
	}
	return fmt.Sprintf("%d", res.Response.StatusCode)
}
