package model

// JobRecord is one tracked piece of work in the Projects table.
type JobRecord struct {
	RecordID      string `json:"recordId"`
	JobNumber     string `json:"jobNumber"`
	ProjectName   string `json:"projectName"`
	Stage         Stage  `json:"stage"`
	Status        Status `json:"status"`
	WithClient    bool   `json:"withClient"`
	CurrentUpdate string `json:"currentUpdate"`
	UpdateDue     string `json:"updateDue,omitempty"`
	ChannelID     string `json:"channelId,omitempty"`
	ChannelURL    string `json:"channelUrl,omitempty"`
	TeamID        string `json:"teamId,omitempty"`
	FilesURL      string `json:"filesUrl,omitempty"`
}

// ClientRecord is one client organization in the Clients table.
type ClientRecord struct {
	RecordID      string
	ClientCode    string
	ClientName    string
	NextJobNumber string // pre-formatted, e.g. "LAB 056"
	NextCounter   int
	TeamID        string
	SharePointURL string // storage root, e.g. "https://hunch.sharepoint.com/sites/OneNZ"
}

// NewJob holds the fields written when the setup pipeline creates a job.
type NewJob struct {
	JobNumber   string
	JobName     string
	Description string
	Owner       string
	Stage       Stage
	Status      Status
	UpdateDue   string
	LiveDate    string
}

// NewTracker holds the fields for a budget tracker entry created at setup.
type NewTracker struct {
	JobRecordID string
	Spend       *int
	SpendType   SpendType
	Notes       string
	Ballpark    bool // true whenever a cost was mentioned at all
}
