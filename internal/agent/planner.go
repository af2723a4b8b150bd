// Package agent runs the LLM planning loop: prompt, tool calls, final
// plan text.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/confplanner/config"
	"github.com/mohammad-safakhou/confplanner/internal/telemetry"
	"github.com/mohammad-safakhou/confplanner/internal/tools"
)

// Planner drives the chat-completions API with the tool registry
// advertised, executing tool calls until the model produces a plan.
type Planner struct {
	cfg      config.LLMConfig
	registry *tools.Registry
	tele     *telemetry.Telemetry
	logger   *log.Logger
	client   *http.Client
	preamble string
}

// NewPlanner wires the planner from config. The system preamble embeds
// the conference name and the process-wide reference date.
func NewPlanner(cfg *config.Config, registry *tools.Registry, tele *telemetry.Telemetry, logger *log.Logger) *Planner {
	ref := cfg.Conference.ReferenceTime()
	preamble := fmt.Sprintf(`You are a helpful assistant for %s %d conference planning. Current date: %s.

When asked about sessions or events:
1. Use the %s tool to search for relevant information
2. Format the results in a clear, organized way for the user
3. If sessions have dates, use the %s tool to note which ones are happening soon`,
		cfg.Conference.Name, cfg.Conference.Year, ref.Format("January 2, 2006"),
		tools.SearchToolName, tools.TimelinessToolName)

	return &Planner{
		cfg:      cfg.LLM,
		registry: registry,
		tele:     tele,
		logger:   logger,
		client:   &http.Client{Timeout: cfg.LLM.Timeout},
		preamble: preamble,
	}
}

// chat-completions wire types

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Tools       []chatTool    `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// Plan generates an action plan for the objective. Objectives
// containing "test simple" bypass the tools entirely, a smoke-test
// path for deployments.
func (p *Planner) Plan(ctx context.Context, objective string) (string, error) {
	if strings.Contains(objective, "test simple") {
		p.logger.Printf("running simple completion without tools")
		messages := []chatMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: objective},
		}
		return p.loop(ctx, messages, nil)
	}

	messages := []chatMessage{
		{Role: "system", Content: p.preamble},
		{Role: "user", Content: objective},
	}
	return p.loop(ctx, messages, p.chatTools())
}

func (p *Planner) chatTools() []chatTool {
	descs := p.registry.List()
	out := make([]chatTool, 0, len(descs))
	for _, d := range descs {
		out = append(out, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.InputSchema,
			},
		})
	}
	return out
}

// loop alternates between the model and the tool registry until the
// model answers without tool calls, or the round cap is hit.
func (p *Planner) loop(ctx context.Context, messages []chatMessage, toolDefs []chatTool) (string, error) {
	rounds := p.cfg.MaxToolRounds
	if rounds <= 0 {
		rounds = 6
	}
	for round := 0; round <= rounds; round++ {
		msg, err := p.send(ctx, messages, toolDefs)
		if err != nil {
			return "", err
		}
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}
		messages = append(messages, msg)
		for _, tc := range msg.ToolCalls {
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    p.callTool(ctx, tc),
			})
		}
	}
	return "", fmt.Errorf("planning did not converge within %d tool rounds", rounds)
}

// callTool executes one tool call. Failures are reported back to the
// model as content rather than aborting the loop, so it can recover or
// explain.
func (p *Planner) callTool(ctx context.Context, tc toolCall) string {
	name := tc.Function.Name
	out, err := p.registry.Call(ctx, name, json.RawMessage(tc.Function.Arguments))
	p.tele.ObserveToolCall(name, err)
	if err != nil {
		p.logger.Printf("tool %s failed: %v", name, err)
		return fmt.Sprintf("Error: %v", err)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return string(b)
}

func (p *Planner) send(ctx context.Context, messages []chatMessage, toolDefs []chatTool) (chatMessage, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
		Tools:       toolDefs,
	})
	if err != nil {
		return chatMessage{}, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return chatMessage{}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return chatMessage{}, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return chatMessage{}, fmt.Errorf("completion API status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return chatMessage{}, fmt.Errorf("decode completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return chatMessage{}, fmt.Errorf("no choices in completion response")
	}

	p.tele.ObserveLLM(out.Usage.PromptTokens, out.Usage.CompletionTokens)
	p.logger.Printf("completion round took %s (%d+%d tokens)",
		time.Since(start).Round(time.Millisecond), out.Usage.PromptTokens, out.Usage.CompletionTokens)
	return out.Choices[0].Message, nil
}
