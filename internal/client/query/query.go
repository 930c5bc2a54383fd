package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fi-collar/pet-tracker/internal/pet"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// GraphQLResponse represents the envelope of a GraphQL response. Data is extracted with gjson.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

var authMessages = []string{"unauthorized", "unauthenticated", "not logged in", "forbidden", "invalid session"}

// Client interacts with the TryFi GraphQL API. It implements pet.QueryService.
type Client struct {
	httpClient  *http.Client
	apiQueryURL string
	logger      *zerolog.Logger
}

var _ pet.QueryService = (*Client)(nil)

// NewClient creates a new instance of Client.
func NewClient(apiBaseURL string, client *http.Client, logger zerolog.Logger) (*Client, error) {
	path, err := url.JoinPath(apiBaseURL, "graphql")
	if err != nil {
		return nil, fmt.Errorf("create graphql URL: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("HTTP client is nil")
	}
	l := logger.With().Str("component", "query").Logger()
	return &Client{
		apiQueryURL: path,
		httpClient:  client,
		logger:      &l,
	}, nil
}

// FetchHouseholdPets returns the details document of every pet in every household the session can see.
func (c *Client) FetchHouseholdPets(ctx context.Context, session string) ([]json.RawMessage, error) {
	res, err := c.do(ctx, session, householdsQuery, nil, householdPetsPath)
	if err != nil {
		return nil, err
	}
	var pets []json.RawMessage
	gjson.ParseBytes(res).ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			pets = append(pets, json.RawMessage(value.Raw))
		}
		return true
	})
	return pets, nil
}

// FetchCurrentStats returns the document holding dailyStat, weeklyStat and monthlyStat.
func (c *Client) FetchCurrentStats(ctx context.Context, session, petID string) (json.RawMessage, error) {
	return c.do(ctx, session, statsQuery, map[string]any{"petId": petID}, petPath)
}

// FetchCurrentLocation returns the ongoing activity document of the pet.
func (c *Client) FetchCurrentLocation(ctx context.Context, session, petID string) (json.RawMessage, error) {
	return c.do(ctx, session, locationQuery, map[string]any{"petId": petID}, locationPath)
}

// FetchDeviceDetails returns a document holding the pet's device.
func (c *Client) FetchDeviceDetails(ctx context.Context, session, petID string) (json.RawMessage, error) {
	return c.do(ctx, session, deviceQuery, map[string]any{"petId": petID}, petPath)
}

// SetLedColor changes the LED color of a collar. The result holds setDeviceLed.
func (c *Client) SetLedColor(ctx context.Context, session, moduleID string, colorCode int) (json.RawMessage, error) {
	vars := map[string]any{
		"moduleId":     moduleID,
		"ledColorCode": colorCode,
	}
	return c.do(ctx, session, setLedColorMutation, vars, dataPath)
}

// SetLedPower turns the LED of a collar on or off. The result holds updateDeviceOperationParams.
func (c *Client) SetLedPower(ctx context.Context, session, moduleID, mode string, enabled bool) (json.RawMessage, error) {
	vars := map[string]any{
		"input": map[string]any{
			"moduleId":   moduleID,
			"mode":       mode,
			"ledEnabled": enabled,
		},
	}
	return c.do(ctx, session, setLedPowerMutation, vars, dataPath)
}

func (c *Client) do(ctx context.Context, session, query string, variables map[string]any, path string) (json.RawMessage, error) {
	requestBody := map[string]any{
		"query": query,
	}
	if variables != nil {
		requestBody["variables"] = variables
	}

	reqBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiQueryURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+session)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send GraphQL request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // ignore error

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: GraphQL API returned status %d", pet.ErrUnauthorized, resp.StatusCode)
	default:
		return nil, fmt.Errorf("non-200 response from GraphQL API: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response body: %w", err)
	}

	var respBody GraphQLResponse
	if err := json.Unmarshal(bodyBytes, &respBody); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal GraphQL response: %w", pet.ErrMalformedPayload, err)
	}
	if len(respBody.Errors) > 0 {
		return nil, graphQLErr(respBody.Errors)
	}

	result := gjson.GetBytes(bodyBytes, path)
	if !result.Exists() || result.Type == gjson.Null {
		c.logger.Debug().Str("path", path).Msg("GraphQL response is missing the requested result")
		return nil, fmt.Errorf("%w: GraphQL response has no %s", pet.ErrMalformedPayload, path)
	}
	return json.RawMessage(result.Raw), nil
}

func graphQLErr(errs []graphQLError) error {
	msg := errs[0].Message
	lower := strings.ToLower(msg)
	for _, m := range authMessages {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%w: GraphQL API error: %s", pet.ErrUnauthorized, msg)
		}
	}
	return errors.New("GraphQL API error: " + msg)
}
