package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/model"
)

// ConnectClient talks to the Power Automate webhooks: Postman for outbound
// email, Teamsbot for channel posts, Setupbot for channel provisioning.
// Its methods never return an error — every call produces a result the
// orchestrators fold into their step bookkeeping.
type ConnectClient struct {
	httpClient  *http.Client
	postmanURL  string
	teamsbotURL string
	setupbotURL string
}

// NewConnectClient creates a new notification client
func NewConnectClient(cfg *config.ConnectConfig) *ConnectClient {
	return &ConnectClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		postmanURL:  cfg.PostmanURL,
		teamsbotURL: cfg.TeamsbotURL,
		setupbotURL: cfg.SetupbotURL,
	}
}

// EmailPayload is what Postman expects. ReplyTo threads the message onto
// the original email when present.
type EmailPayload struct {
	To      string       `json:"to"`
	Subject string       `json:"subject"`
	Body    string       `json:"body"`
	ReplyTo *ReplyThread `json:"replyTo,omitempty"`
}

// ReplyThread quotes the original message for threading.
type ReplyThread struct {
	From      string `json:"from"`
	FromEmail string `json:"fromEmail"`
	Sent      string `json:"sent"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// PostChannelMessage posts to a Teams channel via Teamsbot.
func (c *ConnectClient) PostChannelMessage(ctx context.Context, teamID, channelID, subject, body, jobNumber string) *model.StepResult {
	if teamID == "" || channelID == "" {
		log.Printf("[connect] Teams skipped - missing IDs")
		return &model.StepResult{Success: false, Skipped: true, Error: "Missing teamId or channelId"}
	}
	if c.teamsbotURL == "" {
		log.Printf("[connect] PA_TEAMSBOT_URL not configured")
		return &model.StepResult{Success: false, Error: "PA_TEAMSBOT_URL not configured"}
	}

	payload := map[string]string{
		"teamId":    teamID,
		"channelId": channelID,
		"subject":   subject,
		"message":   body,
		"jobNumber": jobNumber,
	}

	log.Printf("[connect] Posting to Teams: %s", subject)
	return c.fireAndReport(ctx, c.teamsbotURL, payload)
}

// SendEmail sends an email via Postman. ReplyTo may be nil.
func (c *ConnectClient) SendEmail(ctx context.Context, to, subject, htmlBody string, original *model.OriginalEmail) *model.StepResult {
	if c.postmanURL == "" {
		log.Printf("[connect] PA_POSTMAN_URL not configured")
		return &model.StepResult{Success: false, Error: "PA_POSTMAN_URL not configured"}
	}

	payload := EmailPayload{
		To:      to,
		Subject: subject,
		Body:    htmlBody,
	}
	if original != nil {
		payload.ReplyTo = &ReplyThread{
			From:      original.SenderName,
			FromEmail: original.SenderEmail,
			Sent:      original.ReceivedDateTime,
			Subject:   original.Subject,
			Body:      original.Content,
		}
	}

	log.Printf("[connect] Sending email -> %s", to)
	return c.fireAndReport(ctx, c.postmanURL, payload)
}

// ProvisionChannel creates a Teams channel via Setupbot.
func (c *ConnectClient) ProvisionChannel(ctx context.Context, teamID, channelName string) *model.ChannelResult {
	if teamID == "" {
		return &model.ChannelResult{Success: false, Error: "No team_id provided"}
	}
	if c.setupbotURL == "" {
		log.Printf("[connect] PA_SETUPBOT_URL not configured")
		return &model.ChannelResult{Success: false, Error: "PA_SETUPBOT_URL not configured"}
	}

	payload := map[string]string{
		"teamId":      teamID,
		"channelName": channelName,
	}

	log.Printf("[connect] Creating channel: %s", channelName)

	body, status, err := c.post(ctx, c.setupbotURL, payload)
	if err != nil {
		return &model.ChannelResult{Success: false, Error: err.Error()}
	}
	if status != http.StatusOK {
		return &model.ChannelResult{Success: false, Error: fmt.Sprintf("Setupbot returned %d", status)}
	}

	var result struct {
		Success    bool   `json:"success"`
		ChannelID  string `json:"channelId"`
		ChannelURL string `json:"channelUrl"`
		Error      string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &model.ChannelResult{Success: false, Error: fmt.Sprintf("bad Setupbot response: %v", err)}
	}
	if !result.Success {
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "Unknown Setupbot error"
		}
		return &model.ChannelResult{Success: false, Error: errMsg}
	}

	return &model.ChannelResult{
		Success:    true,
		ChannelID:  result.ChannelID,
		ChannelURL: result.ChannelURL,
	}
}

func (c *ConnectClient) fireAndReport(ctx context.Context, url string, payload interface{}) *model.StepResult {
	_, status, err := c.post(ctx, url, payload)
	if err != nil {
		log.Printf("[connect] error: %v", err)
		return &model.StepResult{Success: false, Error: err.Error()}
	}

	success := status == http.StatusOK || status == http.StatusAccepted
	log.Printf("[connect] delivered: %v (%d)", success, status)
	if !success {
		return &model.StepResult{Success: false, Error: fmt.Sprintf("webhook returned %d", status)}
	}
	return &model.StepResult{Success: true}
}

func (c *ConnectClient) post(ctx context.Context, url string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
