package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mealopt/optimizer"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts optimization summaries to a chat webhook.
type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostResult renders a search result as a short summary and posts it.
func (c *Client) PostResult(ctx context.Context, channel string, result optimizer.SearchResult) error {
	return c.PostMessage(ctx, channel, FormatResult(result))
}

// FormatResult renders a run summary: fitness before and after, then one line
// per change.
func FormatResult(result optimizer.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimization run %s: fitness %.2f -> %.2f in %d iterations.",
		result.RunID, result.InitialFitness, result.Fitness, result.Iterations)
	if len(result.Changes) == 0 {
		b.WriteString(" No changes.")
		return b.String()
	}
	for _, change := range result.Changes {
		b.WriteString("\n- ")
		b.WriteString(change.String())
	}
	return b.String()
}
