package model

// StepResult is the outcome of one pipeline step. Steps never abort the run
// by returning an error; they report here and the orchestrator decides.
type StepResult struct {
	Success  bool   `json:"success"`
	Skipped  bool   `json:"skipped,omitempty"`
	RecordID string `json:"recordId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ChannelResult is the outcome of Teams channel provisioning.
type ChannelResult struct {
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
	ChannelURL string `json:"channelUrl,omitempty"`
	Error      string `json:"error,omitempty"`
}

// FilingResult is the per-file outcome of a filing run.
type FilingResult struct {
	Success     bool     `json:"success"`
	Filed       bool     `json:"filed"`
	JobNumber   string   `json:"jobNumber,omitempty"`
	Destination string   `json:"destination,omitempty"` // subfolder: Briefs or Workings
	JobFolder   string   `json:"jobFolder,omitempty"`
	FolderURL   string   `json:"folderUrl,omitempty"`
	FilesMoved  []string `json:"filesMoved"`
	Count       int      `json:"count"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// UpdateResults accumulates per-step outcomes for one update run. It only
// shapes the confirmation message and the response; nothing persists it.
type UpdateResults struct {
	File     *FilingResult `json:"file"`
	Airtable *StepResult   `json:"airtable"`
	Teams    *StepResult   `json:"teams"`
	Email    *StepResult   `json:"email"`
}

// AllSorted reports whether every attempted non-fatal step succeeded.
// Skipped steps don't count against it.
func (r *UpdateResults) AllSorted() bool {
	if r.File != nil && !r.File.Success {
		return false
	}
	if r.Teams != nil && !r.Teams.Success && !r.Teams.Skipped {
		return false
	}
	return true
}

// SetupResults accumulates per-step outcomes for one setup run.
type SetupResults struct {
	Brief     *Brief         `json:"brief"`
	Project   *StepResult    `json:"project"`
	Tracker   *StepResult    `json:"tracker"`
	Channel   *ChannelResult `json:"channel"`
	TeamsPost *StepResult    `json:"teamsPost"`
	Email     *StepResult    `json:"email"`
}

// AllSorted reports whether every attempted non-fatal step succeeded.
func (r *SetupResults) AllSorted() bool {
	if r.Tracker != nil && !r.Tracker.Success {
		return false
	}
	if r.Channel != nil && !r.Channel.Success {
		return false
	}
	if r.TeamsPost != nil && !r.TeamsPost.Success && !r.TeamsPost.Skipped {
		return false
	}
	return true
}

// FileResults accumulates per-step outcomes for one filing run.
type FileResults struct {
	File  *FilingResult `json:"file"`
	Teams *StepResult   `json:"teams"`
	Email *StepResult   `json:"email"`
}

// OriginalEmail carries the source message for reply-threading.
type OriginalEmail struct {
	SenderName       string `json:"senderName"`
	SenderEmail      string `json:"senderEmail"`
	Subject          string `json:"subject"`
	ReceivedDateTime string `json:"receivedDateTime,omitempty"`
	Content          string `json:"content"`
}
