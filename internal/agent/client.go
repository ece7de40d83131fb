package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel   = "anthropic/claude-sonnet-4.6"
	DefaultBaseURL = "https://api.ppq.ai"
	DefaultTimeout = 60 * time.Second
)

// Config configures a Client. Zero values take the defaults above.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	// Now supplies the date shown to the service. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Client calls an OpenAI-compatible chat completions endpoint with the
// entry tools attached.
//
// Thread-safety: safe for concurrent use.
type Client struct {
	api    *openai.Client
	model  string
	now    func() time.Time
	logger *slog.Logger
}

// New builds a Client. It does not contact the service.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	} else {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		api:    openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		now:    cfg.Now,
		logger: cfg.Logger,
	}
}

// Process sends one transcript with the current entries and returns the
// proposed mutations. Errors are always *Error.
func (c *Client) Process(ctx context.Context, transcript string, entries []ContextEntry) (BatchResult, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemContent(c.now())},
			{Role: openai.ChatMessageRoleUser, Content: FormatUserContent(transcript, entries)},
		},
		Tools:      Tools(),
		ToolChoice: "auto",
	}

	c.logger.Debug("reasoning request", "model", c.model, "entries", len(entries))
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	requestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		rerr := classify(err)
		requestErrors.WithLabelValues(rerr.Kind.String()).Inc()
		c.logger.Warn("reasoning request failed", "kind", rerr.Kind.String(), "status", rerr.Status, "error", err)
		return BatchResult{}, rerr
	}

	result, err := parseResponse(resp)
	if err != nil {
		requestErrors.WithLabelValues(KindParse.String()).Inc()
		c.logger.Warn("reasoning response rejected", "error", err)
		return BatchResult{}, err
	}

	tokensUsed.WithLabelValues("input").Add(float64(result.Usage.InputTokens))
	tokensUsed.WithLabelValues("output").Add(float64(result.Usage.OutputTokens))
	c.logger.Debug("reasoning response",
		"results", len(result.Results),
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
	)
	return result, nil
}

// classify maps a go-openai error to an *Error.
func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindAPI, Status: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &Error{Kind: KindAPI, Status: reqErr.HTTPStatusCode, Body: body, Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Kind: KindParse, Err: err}
	}
	return &Error{Kind: KindTransport, Err: err}
}
