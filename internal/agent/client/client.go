package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

// Client talks to the notification server's HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new API client
func NewClient(cfg *config.AgentConfig, logger zerolog.Logger) *Client {
	client := &Client{
		baseURL: cfg.ServerURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.With().Str("component", "api_client").Logger(),
	}

	logger.Info().
		Str("base_url", cfg.ServerURL).
		Msg("API client initialized")

	return client
}

type messageResponse struct {
	Message string `json:"message"`
}

// getJSON performs a GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewTransientError("server unreachable: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.NewNotFoundError("resource not found: " + url)
	}
	if resp.StatusCode != http.StatusOK {
		return pkgerrors.NewTransientError(fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// postJSON performs a POST with a JSON body and decodes the body into out
// when out is non-nil
func (c *Client) postJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewTransientError("server unreachable: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return pkgerrors.NewTransientError(fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		var msg messageResponse
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return pkgerrors.NewValidationError(fmt.Sprintf("request rejected (%d): %s", resp.StatusCode, msg.Message))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Feed fetches visible content and recent notifications for the employee
func (c *Client) Feed(ctx context.Context, employeeID string) (*domain.Feed, error) {
	url := fmt.Sprintf("%s/content/%s", c.baseURL, employeeID)

	var feed domain.Feed
	if err := c.getJSON(ctx, url, &feed); err != nil {
		return nil, err
	}

	return &feed, nil
}

type preferenceResponse struct {
	Preference domain.MessagePreference `json:"preference"`
}

// Preference fetches the stored delay preference, if any
func (c *Client) Preference(ctx context.Context, employeeID, contentID string) (*domain.MessagePreference, error) {
	url := fmt.Sprintf("%s/message_preferences/%s/%s", c.baseURL, employeeID, contentID)

	var result preferenceResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}

	return &result.Preference, nil
}

type setDelayResponse struct {
	Message     string    `json:"message"`
	DisplayTime time.Time `json:"display_time"`
}

// SetMessageDelay records a delay choice and returns the resolved display time
func (c *Client) SetMessageDelay(ctx context.Context, employeeID, contentID string, choice domain.DelayChoice) (time.Time, error) {
	url := fmt.Sprintf("%s/set_message_delay", c.baseURL)

	body := map[string]string{
		"employee_id":  employeeID,
		"content_id":   contentID,
		"delay_choice": string(choice),
	}

	var result setDelayResponse
	if err := c.postJSON(ctx, url, body, &result); err != nil {
		return time.Time{}, err
	}

	return result.DisplayTime, nil
}

// RecordView reports a viewed duration
func (c *Client) RecordView(ctx context.Context, contentID, employeeID string, duration float64) error {
	url := fmt.Sprintf("%s/record_view", c.baseURL)

	body := map[string]interface{}{
		"content_id":      contentID,
		"employee_id":     employeeID,
		"viewed_duration": duration,
	}

	return c.postJSON(ctx, url, body, nil)
}

// RecordReaction reports a reaction
func (c *Client) RecordReaction(ctx context.Context, contentID, employeeID string, reaction domain.ReactionType) error {
	url := fmt.Sprintf("%s/reaction", c.baseURL)

	body := map[string]string{
		"content_id":  contentID,
		"employee_id": employeeID,
		"reaction":    string(reaction),
	}

	return c.postJSON(ctx, url, body, nil)
}

// RecordFeedback reports free-form feedback
func (c *Client) RecordFeedback(ctx context.Context, contentID, employeeID, feedback string) error {
	url := fmt.Sprintf("%s/feedback", c.baseURL)

	body := map[string]string{
		"content_id":  contentID,
		"employee_id": employeeID,
		"feedback":    feedback,
	}

	return c.postJSON(ctx, url, body, nil)
}

type viewsResponse struct {
	Views []domain.View `json:"views"`
}

// Views bulk-fetches recorded views for startup reconciliation
func (c *Client) Views(ctx context.Context, employeeID string) ([]domain.View, error) {
	url := fmt.Sprintf("%s/views/%s", c.baseURL, employeeID)

	var result viewsResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}

	return result.Views, nil
}

// ReportStatus sends the heartbeat and update-status report
func (c *Client) ReportStatus(ctx context.Context, report *domain.StatusReport) error {
	url := fmt.Sprintf("%s/update_status", c.baseURL)
	return c.postJSON(ctx, url, report, nil)
}

type versionResponse struct {
	Version string `json:"version"`
}

// Version fetches the authoritative agent version
func (c *Client) Version(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/updates/version", c.baseURL)

	var result versionResponse
	if err := c.getJSON(ctx, url, &result); err != nil {
		return "", err
	}

	return result.Version, nil
}
