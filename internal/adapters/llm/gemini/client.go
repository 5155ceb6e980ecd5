// Package gemini implements ports.Oracle on top of the Google Generative
// AI SDK.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rty-renty/SuanMing/internal/adapters/llm/contract"
	"github.com/rty-renty/SuanMing/internal/domain"
	"github.com/rty-renty/SuanMing/internal/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Session is one authenticated connection to the Gemini API.
type Session interface {
	Generate(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)
	Close() error
}

// Dialer opens a Session for the given API key.
type Dialer func(ctx context.Context, apiKey string) (Session, error)

// Client implements ports.Oracle. A new session is opened per call so that
// each divination uses the key resolved for it.
type Client struct {
	dial           Dialer
	model          string
	fallbackModels []string
	timeout        time.Duration
	logger         *slog.Logger
}

// NewClient returns a Client backed by the genai SDK.
func NewClient(model string, fallbackModels []string, temperature float32, timeout time.Duration, logger *slog.Logger, opts ...option.ClientOption) *Client {
	return NewClientWithDialer(SDKDialer(temperature, opts...), model, fallbackModels, timeout, logger)
}

// NewClientWithDialer returns a Client that opens sessions with dial.
func NewClientWithDialer(dial Dialer, model string, fallbackModels []string, timeout time.Duration, logger *slog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		dial:           dial,
		model:          model,
		fallbackModels: fallbackModels,
		timeout:        timeout,
		logger:         logger,
	}
}

func (c *Client) Divine(ctx context.Context, apiKey string, in ports.DivineInput) (ports.DivineOutput, error) {
	if apiKey == "" {
		return ports.DivineOutput{}, domain.ErrNoCredential
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	sess, err := c.dial(ctx, apiKey)
	if err != nil {
		return ports.DivineOutput{}, fmt.Errorf("%w: create client: %w", domain.ErrUpstreamLLM, err)
	}
	defer sess.Close()

	models := make([]string, 0, 1+len(c.fallbackModels))
	models = append(models, c.model)
	models = append(models, c.fallbackModels...)

	prompt := contract.UserPrompt(in)

	var lastErr error
	for _, model := range models {
		fortune, err := c.divineWithModel(ctx, sess, model, prompt)
		if err == nil {
			return ports.DivineOutput{Fortune: fortune, Model: model}, nil
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

func (c *Client) divineWithModel(ctx context.Context, sess Session, model, prompt string) (domain.FortuneResult, error) {
	resp, err := sess.Generate(ctx, model, prompt)
	if err != nil {
		return domain.FortuneResult{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}
	return contract.Decode(responseText(resp))
}

// SDKDialer opens sessions with genai.NewClient.
func SDKDialer(temperature float32, opts ...option.ClientOption) Dialer {
	return func(ctx context.Context, apiKey string) (Session, error) {
		clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
		client, err := genai.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, err
		}
		return &sdkSession{client: client, temperature: temperature}, nil
	}
}

type sdkSession struct {
	client      *genai.Client
	temperature float32
}

func (s *sdkSession) Generate(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
	m := s.client.GenerativeModel(model)
	Configure(m, s.temperature)
	return m.GenerateContent(ctx, genai.Text(prompt))
}

func (s *sdkSession) Close() error {
	return s.client.Close()
}

// Configure applies the persona, JSON output contract and temperature.
func Configure(m *genai.GenerativeModel, temperature float32) {
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(contract.SystemPrompt)}}
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = Schema()
	m.SetTemperature(temperature)
}

// Schema is the genai form of the shared output schema.
func Schema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(contract.Fields))
	for _, f := range contract.Fields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   append([]string(nil), contract.Fields...),
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	return b.String()
}
