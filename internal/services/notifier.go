package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"picks-site-backend-go/internal/models"
)

var ErrWebhookNotConfigured = errors.New("contact webhook url is not configured")

// Notifier delivers a stored contact submission somewhere a human will see it.
type Notifier interface {
	Notify(ctx context.Context, submission models.ContactSubmission) error
}

// WebhookNotifier posts the submission as JSON. Any non-2xx answer is a failure.
type WebhookNotifier struct {
	URL    string
	ShopID string
	Client *http.Client
}

func (n WebhookNotifier) Notify(ctx context.Context, submission models.ContactSubmission) error {
	if n.URL == "" {
		return ErrWebhookNotConfigured
	}
	body, err := json.Marshal(WebhookPayload(submission, n.ShopID))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

// WebhookPayload is the full record plus shop_id. The short keys (name, email, company,
// interests, role) are still read by the older lead consumer.
func WebhookPayload(s models.ContactSubmission, shopID string) map[string]any {
	interests := []string(s.InterestedIn)
	return map[string]any{
		"id":            s.ID,
		"full_name":     s.FullName,
		"work_email":    s.WorkEmail,
		"phone":         s.Phone,
		"company_name":  s.CompanyName,
		"website":       s.Website,
		"message":       s.Message,
		"interested_in": interests,
		"role_title":    s.RoleTitle,
		"status":        s.Status,
		"notify_status": s.NotifyStatus,
		"created_at":    s.CreatedAt.UTC().Format(time.RFC3339),
		"shop_id":       shopID,

		"name":      s.FullName,
		"email":     s.WorkEmail,
		"company":   s.CompanyName,
		"interests": interests,
		"role":      s.RoleTitle,
	}
}
