package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"chess-mcp/internal/metrics"
)

const (
	DefaultBaseURL   = "https://api.chess.com/pub"
	DefaultUserAgent = "chess-mcp/1.0"

	AcceptJSON = "application/json"
	AcceptPGN  = "application/x-chess-pgn"
)

// maxErrorBody caps how much of a failed response ends up in an error message.
const maxErrorBody = 512

var tracer = otel.Tracer("chess-mcp/internal/fetch")

// Client issues GET requests against the public API. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Log       *zap.Logger
	Metrics   *metrics.Metrics
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: DefaultUserAgent,
		Log:       logger,
	}
}

// UpstreamError is returned for every transport-level failure: non-2xx
// status, connection error, timeout, or a body that does not decode.
type UpstreamError struct {
	Op         string
	Path       string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("GET %s failed: %d %s", e.Path, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("GET %s failed: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("GET %s failed: %s", e.Path, e.Message)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// FetchRaw downloads urlPath (like "player/hikaru") and returns the body.
func (c *Client) FetchRaw(ctx context.Context, op, urlPath, accept string) (body []byte, err error) {
	ctx, span := tracer.Start(ctx, "chess.api "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("chess.path", urlPath),
		),
	)
	start := time.Now()
	status := "error"
	defer func() {
		elapsed := time.Since(start)
		c.Metrics.ObserveUpstream(op, status, elapsed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.Log.Warn("upstream request failed",
				zap.String("op", op), zap.String("path", urlPath), zap.Duration("duration", elapsed), zap.Error(err))
		} else {
			c.Log.Debug("upstream request",
				zap.String("op", op), zap.String("path", urlPath), zap.String("status", status), zap.Duration("duration", elapsed))
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+strings.TrimLeft(urlPath, "/"), nil)
	if err != nil {
		return nil, &UpstreamError{Op: op, Path: urlPath, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Path: urlPath, Err: err}
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: op, Path: urlPath, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Op: op, Path: urlPath, StatusCode: resp.StatusCode, Message: upstreamMessage(body)}
	}
	return body, nil
}

// FetchJSON downloads urlPath and decodes it into v.
func (c *Client) FetchJSON(ctx context.Context, op, urlPath string, v any) error {
	body, err := c.FetchRaw(ctx, op, urlPath, AcceptJSON)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &UpstreamError{Op: op, Path: urlPath, StatusCode: http.StatusOK, Err: errors.Wrap(err, "decode body")}
	}
	return nil
}

// FetchText downloads urlPath as opaque text.
func (c *Client) FetchText(ctx context.Context, op, urlPath, accept string) (string, error) {
	body, err := c.FetchRaw(ctx, op, urlPath, accept)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// upstreamMessage pulls the "message" field the API puts in error bodies,
// falling back to the (truncated) body itself.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
