package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"recruitdesk/screening-service/internal/services"
)

const defaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

// Message is the subset of a Graph mail message the poller needs.
type Message struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	ReceivedDateTime time.Time `json:"receivedDateTime"`
	HasAttachments   bool      `json:"hasAttachments"`
	IsRead           bool      `json:"isRead"`
	From             struct {
		EmailAddress struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
}

// Attachment carries metadata plus the inline base64 content Graph returns
// for file attachments.
type Attachment struct {
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	ContentBytes string `json:"contentBytes"`
}

// GraphClient is the mailbox boundary: list unread application mail, fetch
// attachments, mark messages read.
type GraphClient interface {
	ListUnreadApplications(ctx context.Context, token string, top int) ([]Message, error)
	GetAttachments(ctx context.Context, token, messageID string) ([]Attachment, error)
	MarkRead(ctx context.Context, token, messageID string) error
	GetAccountEmail(ctx context.Context, token string) (string, error)
}

type graphClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGraphClient() GraphClient {
	return &graphClient{
		baseURL:    defaultGraphBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListUnreadApplications implements GraphClient. Unread messages whose
// subject contains "application", newest first, capped at top.
func (g *graphClient) ListUnreadApplications(ctx context.Context, token string, top int) ([]Message, error) {
	params := url.Values{}
	params.Set("$filter", "isRead eq false and contains(subject,'application')")
	params.Set("$orderby", "receivedDateTime desc")
	params.Set("$top", fmt.Sprintf("%d", top))
	params.Set("$select", "id,subject,from,receivedDateTime,hasAttachments,isRead")

	var payload struct {
		Value []Message `json:"value"`
	}
	if err := g.do(ctx, token, http.MethodGet, "/me/messages?"+params.Encode(), nil, &payload); err != nil {
		return nil, err
	}

	return payload.Value, nil
}

// GetAttachments implements GraphClient.
func (g *graphClient) GetAttachments(ctx context.Context, token, messageID string) ([]Attachment, error) {
	var payload struct {
		Value []Attachment `json:"value"`
	}
	path := fmt.Sprintf("/me/messages/%s/attachments", url.PathEscape(messageID))
	if err := g.do(ctx, token, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	return payload.Value, nil
}

// MarkRead implements GraphClient.
func (g *graphClient) MarkRead(ctx context.Context, token, messageID string) error {
	path := fmt.Sprintf("/me/messages/%s", url.PathEscape(messageID))
	body := map[string]bool{"isRead": true}
	return g.do(ctx, token, http.MethodPatch, path, body, nil)
}

// GetAccountEmail implements GraphClient.
func (g *graphClient) GetAccountEmail(ctx context.Context, token string) (string, error) {
	var payload struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := g.do(ctx, token, http.MethodGet, "/me", nil, &payload); err != nil {
		return "", err
	}

	if payload.Mail != "" {
		return payload.Mail, nil
	}
	return payload.UserPrincipalName, nil
}

func (g *graphClient) do(ctx context.Context, token, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &services.UpstreamError{Op: "mailbox " + method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &services.UpstreamError{Op: "mailbox " + method + " " + path, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &services.UpstreamError{
			Op:     "mailbox " + method + " " + path,
			Status: resp.StatusCode,
			Body:   string(raw),
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &services.ParseError{Reason: "mailbox response is not valid JSON", Raw: string(raw), Err: err}
		}
	}

	return nil
}
