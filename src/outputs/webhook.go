package outputs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kerberos-io/media/src/models"
)

// WebhookOutput posts the message as JSON.
type WebhookOutput struct {
	URI    string
	client *http.Client
}

func NewWebhookOutput(uri string) *WebhookOutput {
	return &WebhookOutput{
		URI:    uri,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *WebhookOutput) Name() string {
	return "webhook"
}

func (w *WebhookOutput) Trigger(message models.OutputMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	resp, err := w.client.Post(w.URI, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
