package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/model"
)

func newTestAirtable(t *testing.T, handler http.HandlerFunc) (*AirtableClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewAirtableClient(&config.AirtableConfig{APIKey: "key123", BaseID: "appBase"})
	c.baseURL = srv.URL
	return c, srv
}

func listResponse(records ...map[string]interface{}) []byte {
	b, _ := json.Marshal(map[string]interface{}{"records": records})
	return b
}

func TestGetMessageBody(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("filterByFormula"), "<msg001@outlook.com>")
		w.Write(listResponse(map[string]interface{}{
			"id":     "recTraffic1",
			"fields": map[string]interface{}{"EmailBody": "Creative is approved."},
		}))
	})

	body, err := c.GetMessageBody(context.Background(), "<msg001@outlook.com>")
	require.NoError(t, err)
	assert.Equal(t, "Creative is approved.", body)
}

func TestGetMessageBody_MissingRecordIsNotAnError(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listResponse())
	})

	body, err := c.GetMessageBody(context.Background(), "<ghost@outlook.com>")
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestGetJob(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listResponse(map[string]interface{}{
			"id": "recProj001",
			"fields": map[string]interface{}{
				"Project Name": "Retention Campaign",
				"Stage":        "Live",
				"Status":       "In Progress",
				"With Client?": true,
				"Update":       "Creative in review",
				"Channel Url":  "https://teams.microsoft.com/l/channel/x?groupId=abc123def",
			},
		}))
	})

	job, err := c.GetJob(context.Background(), "TOW 091")
	require.NoError(t, err)
	assert.Equal(t, "recProj001", job.RecordID)
	assert.Equal(t, "Retention Campaign", job.ProjectName)
	assert.Equal(t, model.StageLive, job.Stage)
	assert.True(t, job.WithClient)
	// team id parsed out of the channel url
	assert.Equal(t, "abc123def", job.TeamID)
}

func TestGetJob_NotFound(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listResponse())
	})

	_, err := c.GetJob(context.Background(), "TOW 999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJob_MissingFieldsDefaultToUnknown(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listResponse(map[string]interface{}{
			"id":     "recProj002",
			"fields": map[string]interface{}{},
		}))
	})

	job, err := c.GetJob(context.Background(), "TOW 091")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", job.ProjectName)
	assert.Equal(t, model.StageUnknown, job.Stage)
	assert.Equal(t, model.StatusUnknown, job.Status)
}

func TestPatchJob_EmptyPatchIsANoOp(t *testing.T) {
	called := false
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := c.PatchJob(context.Background(), "recProj001", JobPatch{})
	require.NoError(t, err)
	assert.False(t, called, "an empty patch must not hit the API")
}

func TestPatchJob_DropsPlaceholders(t *testing.T) {
	var got map[string]interface{}
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": "recProj001"}`))
	})

	withClient := false
	err := c.PatchJob(context.Background(), "recProj001", JobPatch{
		Stage:      model.StageUnknown,
		Status:     model.StatusCompleted,
		WithClient: &withClient,
	})
	require.NoError(t, err)

	fields := got["fields"].(map[string]interface{})
	assert.NotContains(t, fields, "Stage")
	assert.Equal(t, "Completed", fields["Status"])
	assert.Equal(t, false, fields["With Client?"])
}

func TestReserveJobNumber(t *testing.T) {
	var patched map[string]interface{}
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listResponse(map[string]interface{}{
				"id": "recClient001",
				"fields": map[string]interface{}{
					"Client name":     "Tower",
					"Next job number": "TOW 091",
					"Next counter":    float64(91),
					"Team ID":         "team001",
				},
			}))
		case http.MethodPatch:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			w.Write([]byte(`{"id": "recClient001"}`))
		}
	})

	jobNumber, recordID, teamID, err := c.ReserveJobNumber(context.Background(), "TOW")
	require.NoError(t, err)
	assert.Equal(t, "TOW 091", jobNumber)
	assert.Equal(t, "recClient001", recordID)
	assert.Equal(t, "team001", teamID)

	fields := patched["fields"].(map[string]interface{})
	assert.Equal(t, float64(92), fields["Next counter"])
	assert.Equal(t, "TOW 092", fields["Next job number"])
}

func TestReserveJobNumber_NoNextNumberConfigured(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listResponse(map[string]interface{}{
			"id":     "recClient002",
			"fields": map[string]interface{}{"Client name": "Labour"},
		}))
	})

	_, _, _, err := c.ReserveJobNumber(context.Background(), "LAB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAB")
}

func TestCreateUpdate(t *testing.T) {
	var got map[string]interface{}
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "Updates")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": "recUpd001"}`))
	})

	id, err := c.CreateUpdate(context.Background(), "recProj001", "Creative approved.", "2026-09-04")
	require.NoError(t, err)
	assert.Equal(t, "recUpd001", id)

	fields := got["fields"].(map[string]interface{})
	assert.Equal(t, []interface{}{"recProj001"}, fields["Project Link"])
	assert.Equal(t, "Creative approved.", fields["Update"])
	assert.Equal(t, "2026-09-04", fields["Update due"])
}

func TestCreateUpdate_APIError(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "INVALID_VALUE"}`))
	})

	_, err := c.CreateUpdate(context.Background(), "recProj001", "Update.", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestListDueJobs_Buckets(t *testing.T) {
	// 2026-08-24 is a Monday; next working day is Tuesday the 25th
	monday := time.Date(2026, 8, 24, 7, 0, 0, 0, time.UTC)

	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(listResponse(
			map[string]interface{}{"id": "r1", "fields": map[string]interface{}{
				"Job Number": "TOW 091", "Project Name": "Overdue Job", "Update due": "2026-08-20"}},
			map[string]interface{}{"id": "r2", "fields": map[string]interface{}{
				"Job Number": "SKY 018", "Project Name": "Due Today", "Update due": "2026-08-24"}},
			map[string]interface{}{"id": "r3", "fields": map[string]interface{}{
				"Job Number": "HUN 030", "Project Name": "Due Tomorrow", "Update due": "2026-08-25"}},
			map[string]interface{}{"id": "r4", "fields": map[string]interface{}{
				"Job Number": "LAB 010", "Project Name": "Due Friday", "Update due": "2026-08-28"}},
			map[string]interface{}{"id": "r5", "fields": map[string]interface{}{
				"Job Number": "FIS 002", "Project Name": "Far Future", "Update due": "2026-10-01"}},
		))
	})

	jobs, err := c.ListDueJobs(context.Background(), monday)
	require.NoError(t, err)
	assert.Len(t, jobs.Today, 2, "overdue and due-today share the Today bucket")
	assert.Len(t, jobs.Tomorrow, 1)
	assert.Len(t, jobs.Week, 1)
	assert.Equal(t, "TOW", jobs.Today[0].ClientCode)
}

func TestListClientJobs_Buckets(t *testing.T) {
	c, _ := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("filterByFormula"), "TOW")
		w.Write(listResponse(
			map[string]interface{}{"id": "r1", "fields": map[string]interface{}{
				"Job Number": "TOW 091", "Status": "In Progress"}},
			map[string]interface{}{"id": "r2", "fields": map[string]interface{}{
				"Job Number": "TOW 089", "Status": "In Progress", "With Client?": true}},
			map[string]interface{}{"id": "r3", "fields": map[string]interface{}{
				"Job Number": "TOW 085", "Status": "On Hold"}},
			map[string]interface{}{"id": "r4", "fields": map[string]interface{}{
				"Job Number": "TOW 095", "Status": "Incoming"}},
		))
	})

	jobs, err := c.ListClientJobs(context.Background(), "TOW")
	require.NoError(t, err)
	assert.Len(t, jobs.WithUs, 1)
	assert.Len(t, jobs.WithYou, 1)
	assert.Len(t, jobs.OnHold, 1)
	assert.Len(t, jobs.Upcoming, 1)
	assert.Equal(t, 4, jobs.Total())
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewAirtableClient(&config.AirtableConfig{APIKey: "k", BaseID: "b"}).IsConfigured())
	assert.False(t, NewAirtableClient(&config.AirtableConfig{APIKey: "k"}).IsConfigured())
	assert.False(t, NewAirtableClient(&config.AirtableConfig{}).IsConfigured())
}
