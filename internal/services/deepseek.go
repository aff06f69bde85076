package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"deepseek-relay/internal/metrics"
	"deepseek-relay/internal/models"
)

// Retry policy. These are fixed; nothing in the environment changes them.
const (
	MaxAttempts    = 3
	AttemptTimeout = 60 * time.Second

	timeoutRetryDelay    = 2 * time.Second
	connectionRetryDelay = 3 * time.Second
	transportRetryDelay  = 1 * time.Second
)

const (
	completionsPath = "/v1/chat/completions"
	modelsPath      = "/v1/models"

	systemPrompt = "You are a helpful AI assistant for students. Keep responses concise and helpful."
	temperature  = 0.7
	maxTokens    = 500

	maxResponseBytes = 4 << 20
)

// retryDelays is the pause before the next attempt, per retryable failure kind.
// A non-200 status is retried immediately.
var retryDelays = map[FailureKind]time.Duration{
	FailureStatus:     0,
	FailureTimeout:    timeoutRetryDelay,
	FailureConnection: connectionRetryDelay,
	FailureTransport:  transportRetryDelay,
}

type DeepSeekService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Collector

	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewDeepSeekService(apiKey, baseURL string, logger *zap.Logger, collector *metrics.Collector) *DeepSeekService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DeepSeekService{
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &http.Client{},
		logger:         logger,
		metrics:        collector,
		attemptTimeout: AttemptTimeout,
		sleep:          sleepContext,
	}
}

// attemptResult is the tagged outcome of one outbound call: success when kind
// is empty, otherwise a retryable or fatal failure of that kind.
type attemptResult struct {
	reply      string
	kind       FailureKind
	fatal      bool
	statusCode int
	body       string
	err        error
}

func (a attemptResult) ok() bool { return a.kind == "" }

func (a attemptResult) outcome() string {
	if a.ok() {
		return "success"
	}
	return string(a.kind)
}

func (a attemptResult) toError(attempts int) *UpstreamError {
	e := &UpstreamError{
		Kind:       a.kind,
		StatusCode: a.statusCode,
		Body:       a.body,
		Attempts:   attempts,
		Err:        a.err,
	}

	switch a.kind {
	case FailureStatus:
		e.Message = fmt.Sprintf("DeepSeek API error: %d - %s", a.statusCode, a.body)
	case FailureTimeout:
		e.Message = fmt.Sprintf("DeepSeek API timeout after %d attempts (%ds each)", attempts, int(AttemptTimeout.Seconds()))
	case FailureConnection:
		e.Message = "Connection error to DeepSeek API"
	case FailureTransport:
		e.Message = fmt.Sprintf("DeepSeek API request failed: %v", a.err)
	case FailureMalformed:
		e.Message = fmt.Sprintf("Unexpected DeepSeek API response: %v", a.err)
	case FailureRequest:
		e.Message = fmt.Sprintf("Could not build DeepSeek API request: %v", a.err)
	case FailureCanceled:
		e.Message = "DeepSeek API call canceled"
	}

	return e
}

// Chat sends one user message to the given model and returns the reply text.
//
// Errors are *ValidationError for an empty message, *ConfigurationError when
// no API key is set, and *UpstreamError once the retry policy gives up.
func (s *DeepSeekService) Chat(ctx context.Context, message, model string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &ValidationError{Message: "Message cannot be empty."}
	}
	if s.apiKey == "" {
		return "", &ConfigurationError{Message: "DeepSeek API key not configured"}
	}

	payload, err := json.Marshal(models.CompletionRequest{
		Model: model,
		Messages: []models.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", attemptResult{kind: FailureRequest, err: err}.toError(0)
	}

	start := time.Now()
	reply, err := s.callWithRetry(ctx, model, payload)

	result := "success"
	if err != nil {
		result = "error"
	}
	s.metrics.RecordCall(model, result, time.Since(start))

	return reply, err
}

func (s *DeepSeekService) callWithRetry(ctx context.Context, model string, payload []byte) (string, error) {
	for n := 1; ; n++ {
		res := s.doAttempt(ctx, payload)
		s.metrics.RecordAttempt(model, res.outcome())

		if res.ok() {
			if n > 1 {
				s.logger.Info("upstream call succeeded after retry",
					zap.String("model", model),
					zap.Int("attempt", n),
				)
			}
			return res.reply, nil
		}

		if res.fatal || n >= MaxAttempts {
			s.logger.Error("upstream call failed",
				zap.String("model", model),
				zap.Int("attempt", n),
				zap.String("kind", string(res.kind)),
				zap.Int("status", res.statusCode),
				zap.Bool("fatal", res.fatal),
				zap.Error(res.err),
			)
			return "", res.toError(n)
		}

		delay := retryDelays[res.kind]
		s.logger.Warn("upstream attempt failed, retrying",
			zap.String("model", model),
			zap.Int("attempt", n),
			zap.Int("max_attempts", MaxAttempts),
			zap.String("kind", string(res.kind)),
			zap.Int("status", res.statusCode),
			zap.Duration("delay", delay),
			zap.Error(res.err),
		)

		if delay > 0 {
			if err := s.sleep(ctx, delay); err != nil {
				return "", attemptResult{kind: FailureCanceled, err: err}.toError(n)
			}
		}
	}
}

func (s *DeepSeekService) doAttempt(ctx context.Context, payload []byte) attemptResult {
	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, s.baseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return attemptResult{kind: FailureRequest, fatal: true, err: err}
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classifyTransportError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return attemptResult{kind: FailureStatus, statusCode: resp.StatusCode, body: string(body)}
	}

	reply, err := extractReply(body)
	if err != nil {
		return attemptResult{kind: FailureMalformed, fatal: true, statusCode: resp.StatusCode, body: string(body), err: err}
	}

	return attemptResult{reply: reply}
}

// ListRemoteModels asks the upstream which models the API key can use.
// It makes a single attempt; it backs the key check, not the chat path.
func (s *DeepSeekService) ListRemoteModels(ctx context.Context) ([]string, error) {
	if s.apiKey == "" {
		return nil, &ConfigurationError{Message: "DeepSeek API key not configured"}
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.baseURL+modelsPath, nil)
	if err != nil {
		return nil, attemptResult{kind: FailureRequest, err: err}.toError(1)
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err).toError(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, err).toError(1)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, attemptResult{kind: FailureStatus, statusCode: resp.StatusCode, body: string(body)}.toError(1)
	}

	var list models.ModelListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, attemptResult{kind: FailureMalformed, statusCode: resp.StatusCode, body: string(body), err: err}.toError(1)
	}

	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (s *DeepSeekService) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

func extractReply(body []byte) (string, error) {
	var resp models.CompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == nil {
		return "", errors.New("first choice has no message content")
	}
	return *content, nil
}

// classifyTransportError sorts a failed round trip into a failure kind.
// parent is the caller's context, not the per-attempt one, so an expired
// attempt deadline reads as a timeout and a finished caller as canceled.
func classifyTransportError(parent context.Context, err error) attemptResult {
	if parent.Err() != nil {
		return attemptResult{kind: FailureCanceled, fatal: true, err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return attemptResult{kind: FailureTimeout, err: err}
	}

	if isConnectionError(err) {
		return attemptResult{kind: FailureConnection, err: err}
	}

	return attemptResult{kind: FailureTransport, err: err}
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
