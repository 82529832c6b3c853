package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nvandessel/futuresim/internal/logging"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAI defaults.
const (
	DefaultModel       = "gpt-4.1-mini"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxRetries  = 4
	DefaultRetryDelay  = 5 * time.Second
	DefaultTemperature = 0.4
	DefaultMaxTokens   = 2048
)

// Config configures an OpenAIForecaster.
type Config struct {
	// APIKey authenticates requests. Empty makes the forecaster unavailable.
	APIKey string

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	BaseURL string

	// Model defaults to DefaultModel.
	Model string

	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the total number of attempts per forecast.
	MaxRetries int

	// RetryDelay is the linear step between attempts: delay*attempt.
	RetryDelay time.Duration

	// RequestsPerMinute paces requests. Zero means unlimited.
	RequestsPerMinute int

	// Temperature is the sampling temperature. Nil means DefaultTemperature;
	// an explicit zero is sent as zero.
	Temperature *float32

	MaxTokens int

	Logger  *slog.Logger
	Journal *logging.Journal
}

// OpenAIForecaster requests forecasts from the OpenAI chat completions API
// with a strict JSON-schema response format.
type OpenAIForecaster struct {
	client      *openai.Client
	apiKey      string
	model       string
	maxRetries  int
	retryDelay  time.Duration
	temperature float32
	maxTokens   int
	limiter     *rate.Limiter
	logger      *slog.Logger
	journal     *logging.Journal
}

// NewOpenAIForecaster creates a forecaster from cfg, applying defaults.
func NewOpenAIForecaster(cfg Config) *OpenAIForecaster {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}
	delay := cfg.RetryDelay
	if delay < 0 {
		delay = 0
	}
	temperature := float32(DefaultTemperature)
	if cfg.Temperature != nil {
		temperature = max(*cfg.Temperature, 0)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIForecaster{
		client:      openai.NewClientWithConfig(clientCfg),
		apiKey:      cfg.APIKey,
		model:       model,
		maxRetries:  retries,
		retryDelay:  delay,
		temperature: temperature,
		maxTokens:   maxTokens,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      logger,
		journal:     cfg.Journal,
	}
}

// Available returns true if an API key is present.
func (f *OpenAIForecaster) Available() bool {
	return f.apiKey != ""
}

// Model returns the model identifier in use.
func (f *OpenAIForecaster) Model() string {
	return f.model
}

// Forecast implements Forecaster. Failed attempts, including unparseable
// responses, are retried on a linear schedule until MaxRetries is reached.
func (f *OpenAIForecaster) Forecast(ctx context.Context, req Request) (*Forecast, error) {
	if !f.Available() {
		return nil, ErrUnavailable
	}

	prompt := Prompt(req)
	attempt := 0
	operation := func() (*Forecast, error) {
		attempt++
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		start := time.Now()
		text, err := f.complete(ctx, prompt)
		var fc *Forecast
		if err == nil {
			fc, err = Parse(text)
		}
		f.recordAttempt(req, attempt, prompt, text, time.Since(start), err)
		if err != nil {
			if permanent(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return fc, nil
	}

	fc, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&linearBackOff{step: f.retryDelay}),
		backoff.WithMaxTries(uint(f.maxRetries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Warn("forecast attempt failed", "attempt", attempt, "retry_in", next, "error", err)
		}))
	if err != nil {
		return nil, fmt.Errorf("forecast after %d attempts: %w", attempt, err)
	}
	return fc, nil
}

func (f *OpenAIForecaster) complete(ctx context.Context, prompt string) (string, error) {
	schema := Schema()
	temperature := f.temperature
	if temperature == 0 {
		// The client omits a zero temperature from the request body.
		temperature = math.SmallestNonzeroFloat32
	}
	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:         temperature,
		MaxCompletionTokens: f.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: &schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (f *OpenAIForecaster) recordAttempt(req Request, attempt int, prompt, response string, elapsed time.Duration, err error) {
	if f.journal == nil {
		return
	}
	fields := map[string]any{
		"model":      f.model,
		"attempt":    attempt,
		"start_year": req.StartYear,
		"horizon":    req.Horizon,
		"levers":     req.Levers,
		"elapsed_ms": elapsed.Milliseconds(),
		"ok":         err == nil,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	if f.journal.Tracing() {
		fields["prompt"] = prompt
		fields["response"] = response
	}
	f.journal.Record("forecast_attempt", fields)
}

// permanent reports whether retrying err cannot help.
func permanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return true
		}
	}
	return false
}

// linearBackOff waits step, 2*step, 3*step and so on.
type linearBackOff struct {
	step time.Duration
	n    int64
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	if b.step > 0 && b.n > int64(math.MaxInt64/b.step) {
		return backoff.Stop
	}
	return b.step * time.Duration(b.n)
}

func (b *linearBackOff) Reset() { b.n = 0 }
