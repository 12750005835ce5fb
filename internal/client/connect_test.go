package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/model"
)

func TestPostChannelMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewConnectClient(&config.ConnectConfig{TeamsbotURL: srv.URL})
	result := c.PostChannelMessage(context.Background(), "team001", "chan001", "UPDATE: TOW 091", "Body.", "TOW 091")

	assert.True(t, result.Success)
	assert.Equal(t, "team001", got["teamId"])
	assert.Equal(t, "chan001", got["channelId"])
	assert.Equal(t, "UPDATE: TOW 091", got["subject"])
}

func TestPostChannelMessage_MissingIDsSkips(t *testing.T) {
	c := NewConnectClient(&config.ConnectConfig{TeamsbotURL: "http://unused"})
	result := c.PostChannelMessage(context.Background(), "", "chan001", "s", "b", "TOW 091")

	assert.False(t, result.Success)
	assert.True(t, result.Skipped)
}

func TestPostChannelMessage_WebhookFailureReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewConnectClient(&config.ConnectConfig{TeamsbotURL: srv.URL})
	result := c.PostChannelMessage(context.Background(), "team001", "chan001", "s", "b", "TOW 091")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "500")
}

func TestSendEmail_ThreadsOriginal(t *testing.T) {
	var got EmailPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c := NewConnectClient(&config.ConnectConfig{PostmanURL: srv.URL})
	result := c.SendEmail(context.Background(), "jess@tower.co.nz", "Re: Creative approved", "<p>All sorted.</p>",
		&model.OriginalEmail{
			SenderName:  "Jess Woods",
			SenderEmail: "jess@tower.co.nz",
			Subject:     "Creative approved",
			Content:     "<p>Original.</p>",
		})

	assert.True(t, result.Success)
	assert.Equal(t, "jess@tower.co.nz", got.To)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "Jess Woods", got.ReplyTo.From)
}

func TestSendEmail_NotConfigured(t *testing.T) {
	c := NewConnectClient(&config.ConnectConfig{})
	result := c.SendEmail(context.Background(), "jess@tower.co.nz", "s", "b", nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "PA_POSTMAN_URL")
}

func TestProvisionChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"channelId":  "chan002",
			"channelUrl": "https://teams.microsoft.com/l/channel/chan002",
		})
	}))
	defer srv.Close()

	c := NewConnectClient(&config.ConnectConfig{SetupbotURL: srv.URL})
	result := c.ProvisionChannel(context.Background(), "team001", "TOW 092 - Winter Push")

	assert.True(t, result.Success)
	assert.Equal(t, "chan002", result.ChannelID)
	assert.Equal(t, "https://teams.microsoft.com/l/channel/chan002", result.ChannelURL)
}

func TestProvisionChannel_SetupbotReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "channel name taken"})
	}))
	defer srv.Close()

	c := NewConnectClient(&config.ConnectConfig{SetupbotURL: srv.URL})
	result := c.ProvisionChannel(context.Background(), "team001", "TOW 092 - Winter Push")

	assert.False(t, result.Success)
	assert.Equal(t, "channel name taken", result.Error)
}

func TestProvisionChannel_NoTeamID(t *testing.T) {
	c := NewConnectClient(&config.ConnectConfig{SetupbotURL: "http://unused"})
	result := c.ProvisionChannel(context.Background(), "", "name")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "team_id")
}
