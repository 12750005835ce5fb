package model

// UpdateRequest is the body of POST /update, sent by Brain when an update
// email lands.
type UpdateRequest struct {
	JobNumber         string   `json:"jobNumber" validate:"required"`
	InternetMessageID string   `json:"internetMessageId" validate:"required"`
	SenderEmail       string   `json:"senderEmail" validate:"omitempty,email"`
	SenderName        string   `json:"senderName"`
	SubjectLine       string   `json:"subjectLine"`
	TeamID            string   `json:"teamId"`
	TeamsChannelID    string   `json:"teamsChannelId"`
	HasAttachments    bool     `json:"hasAttachments"`
	AttachmentNames   []string `json:"attachmentNames"`
	FilesURL          string   `json:"filesUrl"`
	ReceivedDateTime  string   `json:"receivedDateTime"`
	AllRecipients     []string `json:"allRecipients"`
}

// TeamsMessage is the channel post the extraction drafts for an update.
type TeamsMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ExtractedUpdate is the structured result of the update extraction.
// WithClient is a pointer so an explicit false survives the trip.
type ExtractedUpdate struct {
	UpdateSummary string       `json:"updateSummary"`
	UpdateDue     string       `json:"updateDue,omitempty"`
	Stage         Stage        `json:"stage,omitempty"`
	Status        Status       `json:"status,omitempty"`
	WithClient    *bool        `json:"withClient,omitempty"`
	TeamsMessage  TeamsMessage `json:"teamsMessage"`
}

// UpdateResponse is the success payload of POST /update.
type UpdateResponse struct {
	Success     bool           `json:"success"`
	JobNumber   string         `json:"jobNumber"`
	ProjectName string         `json:"projectName"`
	Update      string         `json:"update"`
	UpdateDue   string         `json:"updateDue"`
	Stage       Stage          `json:"stage,omitempty"`
	Status      Status         `json:"status,omitempty"`
	WithClient  *bool          `json:"withClient,omitempty"`
	Results     *UpdateResults `json:"results"`
	FilesFiled  int            `json:"filesFiled"`
	TeamsPosted bool           `json:"teamsPosted"`
	EmailSent   bool           `json:"emailSent"`
}
