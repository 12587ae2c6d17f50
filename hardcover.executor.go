package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// GraphQLExecutor is the single low-level primitive shared by the search
// provider and the sync client. It posts one GraphQL operation and hands
// back the raw `data` payload.
type GraphQLExecutor interface {
	Execute(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error)
}

// graphQLPayload is the wire body of each call.
type graphQLPayload struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLEnvelope is the wire shape of each response. Errors being set
// means the operation failed even on HTTP 200.
type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Ensure *HTTPExecutor implements GraphQLExecutor.
var _ GraphQLExecutor = (*HTTPExecutor)(nil)

// HTTPExecutor implements GraphQLExecutor over a plain HTTP client.
type HTTPExecutor struct {
	logger   *zap.Logger
	endpoint string
	agent    string
	client   *http.Client
}

// NewHTTPExecutor provides a ready to use executor against the
// configured GraphQL endpoint.
func NewHTTPExecutor(logger *zap.Logger, config *HardcoverConfig) *HTTPExecutor {
	return &HTTPExecutor{
		logger:   logger,
		endpoint: config.Endpoint,
		agent:    config.UserAgent,
		client:   &http.Client{Timeout: config.RequestTimeout},
	}
}

// Execute posts the operation and returns the `data` payload. A non-2xx
// status maps to ErrGraphQLTransport and a present `errors` array to
// ErrGraphQLErrors so callers can tell the two failure classes apart.
func (e *HTTPExecutor) Execute(ctx context.Context, token, query string, variables map[string]any) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphQLPayload{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", e.agent)
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(token, "Bearer "))

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGraphQLTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGraphQLTransport, resp.StatusCode)
	}

	var envelope graphQLEnvelope
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode response: %s", ErrGraphQLTransport, err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			messages = append(messages, gqlErr.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrGraphQLErrors, strings.Join(messages, "; "))
	}
	return envelope.Data, nil
}
