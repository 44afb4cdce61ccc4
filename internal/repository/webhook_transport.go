package repository

import (
	"context"
	"fmt"
	"io"
	"time"

	"StockTiming/internal/domain/models"
	pkghttp "StockTiming/pkg/http"
)

// WebhookTransport posts rendered payloads to endpoint URLs. One attempt per
// call; any non-2xx status is a failure.
type WebhookTransport struct {
	client *pkghttp.Client
}

func NewWebhookTransport(timeout time.Duration) *WebhookTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookTransport{client: pkghttp.NewClient(pkghttp.WithTimeout(timeout))}
}

func (t *WebhookTransport) Send(ctx context.Context, endpoint models.Endpoint, payload interface{}) error {
	resp, err := t.client.SendRequest(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    endpoint.URL,
		Body:   payload,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
