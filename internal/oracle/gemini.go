package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/receipterror"
)

// Generation defaults.
const (
	DefaultModel           = "gemini-2.0-flash"
	DefaultTemperature     = 0.1
	DefaultMaxOutputTokens = 500
	DefaultTimeout         = 60 * time.Second
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no response from Gemini API")

// GeminiConfig configures GeminiClient.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// generator is the part of *genai.GenerativeModel the client uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements Oracle with Google Gemini.
type GeminiClient struct {
	client    *genai.Client
	model     generator
	modelName string
	timeout   time.Duration
	logger    logging.Logger
}

// NewGeminiClient connects to Gemini. Zero-valued settings take the defaults.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger logging.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	cfg = withDefaults(cfg)

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)

	logger.Info("Gemini client initialized",
		logging.Field{Key: logging.FieldModel, Value: cfg.Model})

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

func withDefaults(cfg GeminiConfig) GeminiConfig {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// Extract sends the document and prompt in one request and returns the
// concatenated text parts of the first candidate. Failures come back as
// oracle-unavailable rejections with a user-facing message.
func (c *GeminiClient) Extract(ctx context.Context, doc Document, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx,
		genai.Blob{MIMEType: doc.MIMEType, Data: doc.Data},
		genai.Text(prompt))
	if err != nil {
		msg := c.userMessage(err)
		c.logger.WithError(err).Error("Gemini API call failed",
			logging.Field{Key: logging.FieldFileName, Value: doc.Name},
			logging.Field{Key: logging.FieldModel, Value: c.modelName},
			logging.Field{Key: logging.FieldReason, Value: msg})
		return "", receipterror.OracleUnavailable(msg, err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", receipterror.OracleUnavailable(receipterror.MsgUnparseable, ErrEmptyResponse)
	}

	c.logger.Debug("Gemini response received",
		logging.Field{Key: logging.FieldFileName, Value: doc.Name},
		logging.Field{Key: logging.FieldMIME, Value: doc.MIMEType},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return text, nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// userMessage maps API errors to messages an operator can act on.
func (c *GeminiClient) userMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return receipterror.MsgOracleConnection
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "api key") || strings.Contains(s, "api_key") ||
		strings.Contains(s, "unauthenticated") || strings.Contains(s, "permission"):
		return receipterror.MsgOracleInvalidKey
	case strings.Contains(s, "quota") || strings.Contains(s, "rate limit") ||
		strings.Contains(s, "resource_exhausted") || strings.Contains(s, "429"):
		return receipterror.MsgOracleQuota
	case strings.Contains(s, "model") && strings.Contains(s, "not found"):
		return fmt.Sprintf("Modelo %s não encontrado. Verifique ai.model na configuração.", c.modelName)
	case strings.Contains(s, "connection") || strings.Contains(s, "timeout") || strings.Contains(s, "deadline"):
		return receipterror.MsgOracleConnection
	default:
		return "Erro ao processar: " + truncate(err.Error(), 100)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
