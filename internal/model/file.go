package model

// FileRequest is the body of POST /file: file attachments to an existing
// job's folder without running the update pipeline.
type FileRequest struct {
	JobNumber         string   `json:"jobNumber" validate:"required"`
	AttachmentNames   []string `json:"attachmentNames" validate:"required,min=1"`
	InternetMessageID string   `json:"internetMessageId"`
	EmailContent      string   `json:"emailContent"`
	SenderEmail       string   `json:"senderEmail" validate:"omitempty,email"`
	SenderName        string   `json:"senderName"`
	SubjectLine       string   `json:"subjectLine"`
	ReceivedDateTime  string   `json:"receivedDateTime"`
	AllRecipients     []string `json:"allRecipients"`
}

// FileResponse is the success payload of POST /file.
type FileResponse struct {
	Success     bool         `json:"success"`
	JobNumber   string       `json:"jobNumber"`
	ProjectName string       `json:"projectName"`
	Results     *FileResults `json:"results"`
	FilesFiled  int          `json:"filesFiled"`
}

// FilingJob carries everything the filing subsystem needs for one run.
type FilingJob struct {
	JobNumber        string
	JobName          string
	ClientCode       string
	FilesURL         string // stored folder URL; when set it wins over the built path
	AttachmentNames  []string
	Route            string // setup-ish routes file to Briefs, the rest to Workings
	JobRecordID      string
	EmailContent     string
	SenderName       string
	SenderEmail      string
	Recipients       []string
	Subject          string
	ReceivedDateTime string
}
