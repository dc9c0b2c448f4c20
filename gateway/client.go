package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxErrorBody   = 64 << 10
	defaultTimeout = 30 * time.Second
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent without an Authorization header.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// Client is the transport shared by the per-backend clients.
type Client struct {
	name           string
	baseURL        *BaseURL
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUnauthorizedHandler registers a hook run on every 401 response, before
// the error is returned to the caller.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func NewClient(name string, baseURL *BaseURL, options ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: baseURL,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return c
}

func (c *Client) BaseURL() *BaseURL {
	return c.baseURL
}

// File is an uploaded file part.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", c.name, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// doMultipart sends jsonField encoded as JSON under fieldName, plus the file
// under fileField when file is not nil.
func (c *Client) doMultipart(ctx context.Context, method, path, fieldName string, jsonField any, fileField string, file *File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	data, err := json.Marshal(jsonField)
	if err != nil {
		return fmt.Errorf("marshal %s field: %w", fieldName, err)
	}
	if err := w.WriteField(fieldName, string(data)); err != nil {
		return fmt.Errorf("write %s field: %w", fieldName, err)
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, file.Name))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create %s part: %w", fileField, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("copy %s: %w", fileField, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	return c.do(ctx, method, path, &buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	target := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.name, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("%s access token: %w", c.name, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("service", c.name).Str("method", method).Str("url", target).Msg("Request failed")
		return fmt.Errorf("%w: %s %s: %v", errors.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("service", c.name).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("Request")

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return httpErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

// decodeError builds an HTTPError from the response, taking the message from
// a JSON "message" or "error" field, or the plain-text body.
func decodeError(resp *http.Response) *errors.HTTPError {
	httpErr := &errors.HTTPError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return httpErr
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return httpErr
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Message != "":
			httpErr.Message = payload.Message
		case payload.Error != "":
			httpErr.Message = payload.Error
		}
		if httpErr.Message != "" {
			return httpErr
		}
	}
	httpErr.Message = text
	return httpErr
}
