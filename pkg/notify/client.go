package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cast_manager/internal/models"
)

// Client posts recalculation outcomes to a back-office webhook.
type Client struct {
	WebhookURL string
	AuthToken  string
	HTTPClient *http.Client
}

type recalcPayload struct {
	StoreID        uint   `json:"store_id"`
	Date           string `json:"date"`
	Success        bool   `json:"success"`
	CastsProcessed int    `json:"casts_processed"`
	ItemsProcessed int    `json:"items_processed"`
	Error          string `json:"error,omitempty"`
}

func NewClient(webhookURL, authToken string) *Client {
	return &Client{
		WebhookURL: webhookURL,
		AuthToken:  authToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NotifyRecalc sends one run's summary. A non-2xx response is an error so the
// caller can log it; the run itself is already committed at this point.
func (c *Client) NotifyRecalc(storeID uint, date string, result models.RecalcResult) error {
	payload := recalcPayload{
		StoreID:        storeID,
		Date:           date,
		Success:        result.Success,
		CastsProcessed: result.CastsProcessed,
		ItemsProcessed: result.ItemsProcessed,
		Error:          result.Error,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequest("POST", c.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
