package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rty-renty/SuanMing/internal/adapters/llm/contract"
	"github.com/rty-renty/SuanMing/internal/domain"
	"github.com/rty-renty/SuanMing/internal/ports"
)

// Client implements ports.Oracle via the OpenRouter API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	model          string
	fallbackModels []string
	temperature    float32
	logger         *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL, model string, fallbackModels []string, temperature float32, logger *slog.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		fallbackModels: fallbackModels,
		temperature:    temperature,
		logger:         logger,
	}
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float32        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Divine(ctx context.Context, apiKey string, in ports.DivineInput) (ports.DivineOutput, error) {
	if apiKey == "" {
		return ports.DivineOutput{}, domain.ErrNoCredential
	}

	models := make([]string, 0, 1+len(c.fallbackModels))
	models = append(models, c.model)
	models = append(models, c.fallbackModels...)

	var lastErr error
	for _, model := range models {
		out, err := c.divineWithModel(ctx, apiKey, in, model)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if len(models) > 1 {
			c.logger.WarnContext(ctx, "model failed, trying next", "model", model, "error", err)
		}
	}

	return ports.DivineOutput{}, lastErr
}

func (c *Client) divineWithModel(ctx context.Context, apiKey string, in ports.DivineInput, model string) (ports.DivineOutput, error) {
	userPrompt := contract.UserPrompt(in)

	content, answeredBy, err := c.callLLM(ctx, apiKey, model, userPrompt)
	if err != nil {
		return ports.DivineOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	fortune, err := contract.Decode(content)
	if errors.Is(err, domain.ErrInvalidLLMJSON) {
		c.logger.WarnContext(ctx, "LLM returned invalid JSON, retrying", "model", model, "error", err)
		content, answeredBy, err = c.callLLM(ctx, apiKey, model, contract.RetryPrompt(content))
		if err != nil {
			return ports.DivineOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
		}
		fortune, err = contract.Decode(content)
	}
	if err != nil {
		return ports.DivineOutput{}, err
	}

	if answeredBy == "" {
		answeredBy = model
	}
	return ports.DivineOutput{Fortune: fortune, Model: answeredBy}, nil
}

func (c *Client) callLLM(ctx context.Context, apiKey, model, user string) (string, string, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: contract.SystemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaFormat{
				Name:   contract.SchemaName,
				Strict: true,
				Schema: contract.JSONSchema(),
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), chatResp.Model, nil
}
