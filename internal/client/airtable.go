package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/model"
)

// Table names in the base.
const (
	trafficTable  = "Traffic"
	projectsTable = "Projects"
	updatesTable  = "Updates"
	clientsTable  = "Clients"
	trackerTable  = "Tracker"
	meetingsTable = "Meetings"
)

const airtableBaseURL = "https://api.airtable.com/v0"

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

var teamIDPattern = regexp.MustCompile(`groupId=([a-f0-9-]+)`)

// AirtableClient is the typed record-store client. Lookups use short
// timeouts; the orchestrators treat failures per their own fatality rules.
type AirtableClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	baseID     string
}

// NewAirtableClient creates a new Airtable record-store client
func NewAirtableClient(cfg *config.AirtableConfig) *AirtableClient {
	return &AirtableClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: airtableBaseURL,
		apiKey:  cfg.APIKey,
		baseID:  cfg.BaseID,
	}
}

// IsConfigured returns true if the client has valid configuration
func (c *AirtableClient) IsConfigured() bool {
	return c.apiKey != "" && c.baseID != ""
}

type airtableRecord struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
}

func (c *AirtableClient) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
}

func (c *AirtableClient) do(ctx context.Context, method, rawURL string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("airtable error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// findFirst runs a filterByFormula query and returns the first record.
func (c *AirtableClient) findFirst(ctx context.Context, table, formula string) (*airtableRecord, error) {
	q := url.Values{}
	q.Set("filterByFormula", formula)
	q.Set("maxRecords", "1")

	var list airtableList
	if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	if len(list.Records) == 0 {
		return nil, ErrNotFound
	}
	return &list.Records[0], nil
}

func (c *AirtableClient) list(ctx context.Context, table, formula string) ([]airtableRecord, error) {
	q := url.Values{}
	if formula != "" {
		q.Set("filterByFormula", formula)
	}
	var list airtableList
	if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Records, nil
}

// GetMessageBody retrieves the source message body from the Traffic table.
// Brain logs it there when the email arrives. Returns "" when no record or
// no body exists; the caller decides whether that's fatal.
func (c *AirtableClient) GetMessageBody(ctx context.Context, internetMessageID string) (string, error) {
	rec, err := c.findFirst(ctx, trafficTable, fmt.Sprintf("{internetMessageId}='%s'", internetMessageID))
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return fieldString(rec.Fields, "EmailBody"), nil
}

// GetJob looks up a job by job number. Returns ErrNotFound when absent.
func (c *AirtableClient) GetJob(ctx context.Context, jobNumber string) (*model.JobRecord, error) {
	rec, err := c.findFirst(ctx, projectsTable, fmt.Sprintf("{Job Number}='%s'", jobNumber))
	if err != nil {
		return nil, err
	}

	channelURL := fieldString(rec.Fields, "Channel Url")
	teamID := ""
	if m := teamIDPattern.FindStringSubmatch(channelURL); m != nil {
		teamID = m[1]
	}

	return &model.JobRecord{
		RecordID:      rec.ID,
		JobNumber:     jobNumber,
		ProjectName:   fieldStringDefault(rec.Fields, "Project Name", "Unknown"),
		Stage:         model.Stage(fieldStringDefault(rec.Fields, "Stage", "Unknown")),
		Status:        model.Status(fieldStringDefault(rec.Fields, "Status", "Unknown")),
		WithClient:    fieldBool(rec.Fields, "With Client?"),
		CurrentUpdate: fieldString(rec.Fields, "Update"),
		UpdateDue:     fieldString(rec.Fields, "Update due"),
		ChannelID:     fieldString(rec.Fields, "Teams Channel ID"),
		ChannelURL:    channelURL,
		TeamID:        teamID,
		FilesURL:      fieldString(rec.Fields, "Files Url"),
	}, nil
}

// CreateUpdate appends an update record linked to a job. Write-once; nothing
// in this service ever mutates or deletes one.
func (c *AirtableClient) CreateUpdate(ctx context.Context, jobRecordID, updateText, updateDue string) (string, error) {
	fields := map[string]interface{}{
		"Project Link": []string{jobRecordID},
		"Update":       updateText,
	}
	if updateDue != "" {
		fields["Update due"] = updateDue
	}

	var created airtableRecord
	if err := c.do(ctx, http.MethodPost, c.tableURL(updatesTable), map[string]interface{}{"fields": fields}, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// JobPatch carries the optional field writes for PatchJob. Nil pointers are
// not written; placeholder stage/status values are dropped here as a last
// line of defence.
type JobPatch struct {
	Stage      model.Stage
	Status     model.Status
	WithClient *bool
	ChannelID  string
	ChannelURL string
	FilesURL   string
}

// PatchJob updates a job's mutable fields. A patch with nothing to write is
// a no-op, not an error.
func (c *AirtableClient) PatchJob(ctx context.Context, jobRecordID string, patch JobPatch) error {
	fields := map[string]interface{}{}
	if !patch.Stage.IsPlaceholder() {
		fields["Stage"] = string(patch.Stage)
	}
	if !patch.Status.IsPlaceholder() {
		fields["Status"] = string(patch.Status)
	}
	if patch.WithClient != nil {
		fields["With Client?"] = *patch.WithClient
	}
	if patch.ChannelID != "" {
		fields["Teams Channel ID"] = patch.ChannelID
	}
	if patch.ChannelURL != "" {
		fields["Channel Url"] = patch.ChannelURL
	}
	if patch.FilesURL != "" {
		fields["Files Url"] = patch.FilesURL
	}
	if len(fields) == 0 {
		return nil
	}

	return c.do(ctx, http.MethodPatch, c.tableURL(projectsTable)+"/"+jobRecordID,
		map[string]interface{}{"fields": fields}, nil)
}

// GetClient looks up a client organization by code.
func (c *AirtableClient) GetClient(ctx context.Context, clientCode string) (*model.ClientRecord, error) {
	rec, err := c.findFirst(ctx, clientsTable, fmt.Sprintf("{Client code}='%s'", clientCode))
	if err != nil {
		return nil, err
	}
	return &model.ClientRecord{
		RecordID:      rec.ID,
		ClientCode:    clientCode,
		ClientName:    fieldString(rec.Fields, "Client name"),
		NextJobNumber: fieldString(rec.Fields, "Next job number"),
		NextCounter:   int(fieldFloat(rec.Fields, "Next counter")),
		TeamID:        fieldString(rec.Fields, "Team ID"),
		SharePointURL: fieldString(rec.Fields, "Sharepoint ID"),
	}, nil
}

// ReserveJobNumber reads the client's pre-formatted next job number, then
// advances the counter and the formatted string. The read and the write are
// two requests — Airtable has no compare-and-swap, so concurrent setups for
// one client can race and hand out the same number.
func (c *AirtableClient) ReserveJobNumber(ctx context.Context, clientCode string) (jobNumber, clientRecordID, teamID string, err error) {
	cl, err := c.GetClient(ctx, clientCode)
	if err != nil {
		return "", "", "", err
	}
	if cl.NextJobNumber == "" {
		return "", "", "", fmt.Errorf("no next job number configured for client '%s'", clientCode)
	}

	nextCounter := cl.NextCounter + 1
	fields := map[string]interface{}{
		"Next counter":    nextCounter,
		"Next job number": fmt.Sprintf("%s %03d", clientCode, nextCounter),
	}
	if err := c.do(ctx, http.MethodPatch, c.tableURL(clientsTable)+"/"+cl.RecordID,
		map[string]interface{}{"fields": fields}, nil); err != nil {
		return "", "", "", fmt.Errorf("failed to advance job counter: %w", err)
	}

	return cl.NextJobNumber, cl.RecordID, cl.TeamID, nil
}

// CreateJob creates a new project record.
func (c *AirtableClient) CreateJob(ctx context.Context, job model.NewJob) (string, error) {
	fields := map[string]interface{}{
		"Job Number":   job.JobNumber,
		"Project Name": job.JobName,
		"Stage":        string(job.Stage),
		"Status":       string(job.Status),
	}
	if job.Description != "" {
		fields["Description"] = job.Description
	}
	if job.Owner != "" {
		fields["Owner"] = job.Owner
	}
	if job.UpdateDue != "" {
		fields["Update due"] = job.UpdateDue
	}
	if job.LiveDate != "" {
		fields["Live date"] = job.LiveDate
	}

	var created airtableRecord
	if err := c.do(ctx, http.MethodPost, c.tableURL(projectsTable), map[string]interface{}{"fields": fields}, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// CreateTracker creates a budget tracker entry for a job. Month and quarter
// are stamped from the current date.
func (c *AirtableClient) CreateTracker(ctx context.Context, tracker model.NewTracker) (string, error) {
	now := time.Now()
	fields := map[string]interface{}{
		"Project Link": []string{tracker.JobRecordID},
		"Spend type":   string(tracker.SpendType),
		"Month":        now.Format("January"),
		"Quarter":      fmt.Sprintf("Q%d", (int(now.Month())-1)/3+1),
		"Ballpark":     tracker.Ballpark,
	}
	if tracker.Spend != nil {
		fields["Spend"] = *tracker.Spend
	}
	if tracker.Notes != "" {
		fields["Notes"] = tracker.Notes
	}

	var created airtableRecord
	if err := c.do(ctx, http.MethodPost, c.tableURL(trackerTable), map[string]interface{}{"fields": fields}, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ListDueJobs fetches active jobs with a due date and buckets them for the
// daily digest: overdue-or-today, next working day, rest of the week.
func (c *AirtableClient) ListDueJobs(ctx context.Context, today time.Time) (model.DigestJobs, error) {
	var out model.DigestJobs

	records, err := c.list(ctx, projectsTable, "AND({Update due}!='', {Stage}!='Archived')")
	if err != nil {
		return out, err
	}

	todayStr := today.Format("2006-01-02")
	nextWorkday := nextWorkingDay(today).Format("2006-01-02")
	weekEnd := today.AddDate(0, 0, 7).Format("2006-01-02")

	for _, rec := range records {
		job := digestJobFromFields(rec.Fields)
		switch {
		case job.UpdateDue <= todayStr:
			out.Today = append(out.Today, job)
		case job.UpdateDue == nextWorkday:
			out.Tomorrow = append(out.Tomorrow, job)
		case job.UpdateDue <= weekEnd:
			out.Week = append(out.Week, job)
		}
	}
	return out, nil
}

// ListMeetings fetches calendar entries for today and the next working day.
func (c *AirtableClient) ListMeetings(ctx context.Context, today time.Time) (model.DigestMeetings, error) {
	var out model.DigestMeetings

	todayStr := today.Format("2006-01-02")
	nextWorkday := nextWorkingDay(today).Format("2006-01-02")

	records, err := c.list(ctx, meetingsTable,
		fmt.Sprintf("AND({Start}>='%s', {Start}<='%sT23:59:59')", todayStr, nextWorkday))
	if err != nil {
		return out, err
	}

	for _, rec := range records {
		m := model.Meeting{
			Title:     fieldString(rec.Fields, "Title"),
			StartTime: fieldString(rec.Fields, "Start"),
			EndTime:   fieldString(rec.Fields, "End"),
			Whose:     fieldString(rec.Fields, "Whose"),
			Location:  fieldString(rec.Fields, "Location"),
		}
		if len(m.StartTime) >= 10 && m.StartTime[:10] == todayStr {
			out.Today = append(out.Today, m)
		} else {
			out.Tomorrow = append(out.Tomorrow, m)
		}
	}
	return out, nil
}

// ListClientJobs fetches a client's active jobs bucketed the way the WIP
// email presents them.
func (c *AirtableClient) ListClientJobs(ctx context.Context, clientCode string) (model.WipJobs, error) {
	var out model.WipJobs

	records, err := c.list(ctx, projectsTable,
		fmt.Sprintf("AND(LEFT({Job Number}, %d)='%s', {Stage}!='Archived', {Status}!='Completed')",
			len(clientCode), clientCode))
	if err != nil {
		return out, err
	}

	for _, rec := range records {
		job := digestJobFromFields(rec.Fields)
		switch {
		case job.Status == model.StatusOnHold:
			out.OnHold = append(out.OnHold, job)
		case job.Status == model.StatusIncoming:
			out.Upcoming = append(out.Upcoming, job)
		case job.WithClient:
			out.WithYou = append(out.WithYou, job)
		default:
			out.WithUs = append(out.WithUs, job)
		}
	}
	return out, nil
}

func digestJobFromFields(fields map[string]interface{}) model.DigestJob {
	jobNumber := fieldString(fields, "Job Number")
	clientCode := jobNumber
	if i := indexSpace(jobNumber); i > 0 {
		clientCode = jobNumber[:i]
	}
	return model.DigestJob{
		JobNumber:   jobNumber,
		ProjectName: fieldStringDefault(fields, "Project Name", "Unknown"),
		ClientCode:  clientCode,
		Update:      fieldString(fields, "Update"),
		UpdateDue:   fieldString(fields, "Update due"),
		Status:      model.Status(fieldStringDefault(fields, "Status", "Unknown")),
		WithClient:  fieldBool(fields, "With Client?"),
		ChannelURL:  fieldString(fields, "Teams URL"),
	}
}

// nextWorkingDay returns the next Mon-Fri day after t.
func nextWorkingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func indexSpace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

func fieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func fieldStringDefault(fields map[string]interface{}, key, def string) string {
	if v, ok := fields[key].(string); ok && v != "" {
		return v
	}
	return def
}

func fieldBool(fields map[string]interface{}, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}

func fieldFloat(fields map[string]interface{}, key string) float64 {
	if v, ok := fields[key].(float64); ok {
		return v
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
