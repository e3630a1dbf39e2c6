package graylog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"graylogsync/internal/core/domain"
	"graylogsync/pkg/tracing"
)

// DefaultBaseURL is the API root of a local Graylog node.
const DefaultBaseURL = "http://127.0.0.1:9000/api/"

// tokenPassword is the fixed basic-auth password Graylog expects when the
// username is an access token.
const tokenPassword = "token"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// Config holds configuration for creating a Graylog API Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://graylog.example.org/api/".
	// Defaults to DefaultBaseURL.
	BaseURL string

	// Token is a Graylog access token. Required.
	Token string

	// HTTPClient is used for all requests. Defaults to a client with Timeout.
	HTTPClient *http.Client

	// Timeout applies to the default HTTP client only.
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	Logger *zap.SugaredLogger
}

// Client is a small typed client for the Graylog users and streams APIs.
// Calls are never retried.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// NewClient creates a Graylog API client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("graylog: no API token configured")
	}

	raw := config.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	// Relative paths resolve under the API root only with a trailing slash.
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("graylog: invalid base URL %q: %w", raw, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("graylog: base URL must be http or https (got %q)", raw)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// ListUsers returns every platform user.
func (client *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var response usersResponse
	if err := client.get(ctx, "users", &response); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(response.Users))
	for _, u := range response.Users {
		users = append(users, u.toDomain())
	}
	return users, nil
}

// GetUser returns a single user by username.
func (client *Client) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var response user
	if err := client.get(ctx, "users/"+url.PathEscape(username), &response); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrUserNotFound, username, err)
		}
		return nil, err
	}
	u := response.toDomain()
	return &u, nil
}

// SetPermissions replaces the permission set of username.
func (client *Client) SetPermissions(ctx context.Context, username string, permissions []string) error {
	if permissions == nil {
		permissions = []string{}
	}
	_, err := client.do(ctx, http.MethodPut, "users/"+url.PathEscape(username)+"/permissions",
		permissionsRequest{Permissions: permissions})
	return err
}

// DeleteUser removes the user with the given platform id.
func (client *Client) DeleteUser(ctx context.Context, id domain.UserID) error {
	_, err := client.do(ctx, http.MethodDelete, "users/id/"+url.PathEscape(string(id)), nil)
	return err
}

// ListStreams returns every stream visible to the token.
func (client *Client) ListStreams(ctx context.Context) ([]domain.Stream, error) {
	var response streamsResponse
	if err := client.get(ctx, "streams", &response); err != nil {
		return nil, err
	}
	streams := make([]domain.Stream, 0, len(response.Streams))
	for _, s := range response.Streams {
		streams = append(streams, domain.Stream{ID: domain.StreamID(s.ID), Title: s.Title})
	}
	return streams, nil
}

func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("graylog: decoding %s response: %w", path, err)
	}
	return nil
}

// do executes an authenticated request against a path relative to the API
// root. Non-2xx responses are returned as *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	ctx, span := tracing.TracePlatformRequest(ctx, method, path)
	defer span.End()

	if client.limiter != nil {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("graylog: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("graylog: invalid path %q: %w", path, err)
	}
	endpoint := client.baseURL.ResolveReference(ref)
	request, err := http.NewRequestWithContext(ctx, method, endpoint.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("graylog: creating request: %w", err)
	}
	request.SetBasicAuth(client.token, tokenPassword)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Requested-By", "cli")

	start := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("graylog: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	tracing.AddSpanAttributes(ctx, tracing.HTTPStatusKey.Int(response.StatusCode))
	client.logger.Debugw("graylog request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration", time.Since(start),
	)

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("graylog: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiError := parseAPIError(method, path, response.StatusCode, body)
		tracing.RecordError(ctx, apiError)
		return nil, apiError
	}
	return body, nil
}
