package model

// DigestJob is one row in the daily TO DO digest.
type DigestJob struct {
	JobNumber   string `json:"jobNumber"`
	ProjectName string `json:"projectName"`
	ClientCode  string `json:"clientCode"`
	Update      string `json:"update"`
	UpdateDue   string `json:"updateDue"`
	Status      Status `json:"status"`
	WithClient  bool   `json:"withClient"`
	ChannelURL  string `json:"channelUrl,omitempty"`
}

// DigestJobs buckets due jobs by horizon.
type DigestJobs struct {
	Today    []DigestJob `json:"today"`
	Tomorrow []DigestJob `json:"tomorrow"`
	Week     []DigestJob `json:"week"`
}

// Total counts jobs across all buckets.
func (d DigestJobs) Total() int {
	return len(d.Today) + len(d.Tomorrow) + len(d.Week)
}

// Meeting is one calendar entry in the digest.
type Meeting struct {
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime,omitempty"`
	Whose     string `json:"whose,omitempty"`
	Location  string `json:"location,omitempty"`
}

// DigestMeetings buckets meetings by day.
type DigestMeetings struct {
	Today    []Meeting `json:"today"`
	Tomorrow []Meeting `json:"tomorrow"`
}

// TodoResponse is the payload of GET /todo/email.
type TodoResponse struct {
	Success  bool           `json:"success"`
	Sent     bool           `json:"sent"`
	Reason   string         `json:"reason,omitempty"`
	To       string         `json:"to,omitempty"`
	Jobs     map[string]int `json:"jobs,omitempty"`
	Meetings map[string]int `json:"meetings,omitempty"`
}

// WipRecipient is one client contact on a WIP email send.
type WipRecipient struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"firstName"`
	AccessLevel string `json:"accessLevel"`
}

// WipEmailRequest is the body of POST /wip/email, triggered from the Hub.
type WipEmailRequest struct {
	ClientCode string         `json:"clientCode" validate:"required"`
	Recipients []WipRecipient `json:"recipients" validate:"required,min=1,dive"`
	CustomNote string         `json:"customNote"`
}

// WipSendResult is the per-recipient outcome of a WIP send.
type WipSendResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WipResponse is the payload of POST /wip/email.
type WipResponse struct {
	Success   bool            `json:"success"`
	Sent      int             `json:"sent"`
	Failed    int             `json:"failed"`
	TotalJobs int             `json:"totalJobs"`
	Results   []WipSendResult `json:"results"`
}

// WipJobs buckets a client's active jobs the way the WIP email presents them.
type WipJobs struct {
	WithUs   []DigestJob `json:"withUs"`
	WithYou  []DigestJob `json:"withYou"`
	OnHold   []DigestJob `json:"onHold"`
	Upcoming []DigestJob `json:"upcoming"`
}

// Total counts jobs across all buckets.
func (w WipJobs) Total() int {
	return len(w.WithUs) + len(w.WithYou) + len(w.OnHold) + len(w.Upcoming)
}
