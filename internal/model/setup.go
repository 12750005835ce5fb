package model

// Brief is the structured description of a new job, either extracted from an
// email or supplied directly by the Hub form.
type Brief struct {
	JobName    string `json:"jobName"`
	TheJob     string `json:"theJob,omitempty"`
	TheNeed    string `json:"theNeed,omitempty"`
	Who        string `json:"who,omitempty"`
	What       string `json:"what,omitempty"`
	Why        string `json:"why,omitempty"`
	When       string `json:"when,omitempty"`
	Costs      string `json:"costs,omitempty"`
	Owner      string `json:"owner,omitempty"`
	UpdateDue  string `json:"updateDue,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// SetupRequest is the body of POST /setup. Exactly one of InternetMessageID
// and Brief must be supplied; the handler enforces this on top of the tags.
type SetupRequest struct {
	ClientCode        string `json:"clientCode" validate:"required"`
	ClientName        string `json:"clientName"`
	InternetMessageID string `json:"internetMessageId"`
	Brief             *Brief `json:"brief"`
	SenderEmail       string `json:"senderEmail" validate:"omitempty,email"`
	SenderName        string `json:"senderName"`
	SubjectLine       string `json:"subjectLine"`
}

// SetupResponse is the success payload of POST /setup.
type SetupResponse struct {
	Success    bool          `json:"success"`
	JobNumber  string        `json:"jobNumber"`
	JobName    string        `json:"jobName"`
	ClientCode string        `json:"clientCode"`
	Brief      *Brief        `json:"brief"`
	Results    *SetupResults `json:"results"`
}
