// Package mailer renders the HTML Dot sends: confirmations, failure
// notices, the daily TO DO digest and client WIP emails. Everything shares
// the same wrapper and footer so replies look like they came from one
// robot.
package mailer

import (
	"fmt"
	"strings"
)

const (
	logoURL      = "https://raw.githubusercontent.com/MGhunch/dot-hub/main/images/ai2-logo.png"
	askDotHeader = "https://raw.githubusercontent.com/MGhunch/dot-hub/main/images/Askdot-header.png"

	brandRed = "#ED1C24"
	darkGrey = "#333"
)

// FirstName extracts a first name for the greeting, falling back to "there".
func FirstName(senderName string) string {
	if senderName == "" {
		return "there"
	}
	fields := strings.Fields(senderName)
	if len(fields) == 0 {
		return "there"
	}
	first := strings.Trim(fields[0], `"'[]()`)
	if first == "" {
		return "there"
	}
	return first
}

// wrap applies the standard styling and robot footer.
func wrap(content string) string {
	return fmt.Sprintf(`<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; font-size: 15px; line-height: 1.6; color: #333;">
%s

<table cellpadding="0" cellspacing="0" border="0" width="100%%" style="margin-top: 32px; border-top: 1px solid #eee; padding-top: 16px;">
  <tr>
    <td style="vertical-align: middle; padding-right: 12px;" width="60">
      <img src="%s" alt="hai2" width="56" height="28" style="display: block;">
    </td>
    <td style="vertical-align: middle; font-size: 12px; color: #999;">
      Dot is a robot, but there's humans in the loop.
    </td>
  </tr>
</table>
</div>`, content, logoURL)
}

// successBox renders the green tick box.
func successBox(title, subtitle string) string {
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" width="100%%" style="margin-bottom: 20px;">
  <tr>
    <td style="background: #f0fdf4; border-radius: 8px; padding: 16px; border-left: 4px solid #22c55e;">
      <table cellpadding="0" cellspacing="0" border="0" width="100%%">
        <tr>
          <td width="28" style="vertical-align: top; padding-right: 12px;">
            <div style="width: 24px; height: 24px; background: #22c55e; border-radius: 50%%; text-align: center; line-height: 24px;">
              <span style="color: white; font-size: 14px;">&#10003;</span>
            </div>
          </td>
          <td style="vertical-align: top;">
            <div style="font-weight: 600; color: #333; margin-bottom: 2px;">%s</div>
            <div style="font-size: 13px; color: #666;">%s</div>
          </td>
        </tr>
      </table>
    </td>
  </tr>
</table>`, title, subtitle)
}

// failureBox renders the red cross box.
func failureBox(title, subtitle string) string {
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" width="100%%" style="margin-bottom: 20px;">
  <tr>
    <td style="background: #fef2f2; border-radius: 8px; padding: 16px; border-left: 4px solid #ef4444;">
      <table cellpadding="0" cellspacing="0" border="0" width="100%%">
        <tr>
          <td width="28" style="vertical-align: top; padding-right: 12px;">
            <div style="width: 24px; height: 24px; background: #ef4444; border-radius: 50%%; text-align: center; line-height: 24px;">
              <span style="color: white; font-size: 14px;">&#10005;</span>
            </div>
          </td>
          <td style="vertical-align: top;">
            <div style="font-weight: 600; color: #333; margin-bottom: 2px;">%s</div>
            <div style="font-size: 13px; color: #666;">%s</div>
          </td>
        </tr>
      </table>
    </td>
  </tr>
</table>`, title, subtitle)
}

// StepLine is one row of the what-happened checklist in confirmations.
type StepLine struct {
	Label   string
	OK      bool
	Skipped bool
}

// checklist renders per-step outcomes under the result box.
func checklist(steps []StepLine) string {
	if len(steps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div style="margin: 0 0 20px 0;">`)
	for _, s := range steps {
		mark := `<span style="color: #22c55e;">&#10003;</span>`
		if s.Skipped {
			mark = `<span style="color: #999;">&ndash;</span>`
		} else if !s.OK {
			mark = `<span style="color: #ef4444;">&#10005;</span>`
		}
		fmt.Fprintf(&b, `<div style="font-size: 13px; color: #666; padding: 2px 0;">%s %s</div>`, mark, s.Label)
	}
	b.WriteString(`</div>`)
	return b.String()
}

var routeFriendly = map[string]string{
	"update": "Job updated",
	"file":   "Files filed",
	"triage": "Job triaged",
	"newjob": "New job created",
	"setup":  "New job created",
}

var routeSubtitle = map[string]string{
	"update": "Status updated",
	"file":   "Filed to job folder",
	"triage": "New job created",
	"newjob": "Added to pipeline",
	"setup":  "Added to pipeline",
}

var routeFailureSubtitle = map[string]string{
	"update": "Couldn't update job",
	"file":   "Couldn't file attachments",
	"triage": "Couldn't create job",
	"newjob": "Couldn't create job",
	"setup":  "Couldn't create job",
}

// Confirmation holds the inputs to a success email.
type Confirmation struct {
	Route       string
	SenderName  string
	JobNumber   string
	JobName     string
	SubjectLine string
	FolderURL   string
	ChannelURL  string
	Steps       []StepLine
	AllSorted   bool
}

// linkButtons renders the folder and channel buttons for whichever URLs
// exist.
func linkButtons(folderURL, channelURL string) string {
	links := ""
	if folderURL != "" {
		links += fmt.Sprintf(`<p style="margin: 0 0 20px 0;"><a href="%s" style="color: %s; font-weight: 600;">Open the job folder &rsaquo;</a></p>
`, folderURL, brandRed)
	}
	if channelURL != "" {
		links += fmt.Sprintf(`<p style="margin: 0 0 20px 0;"><a href="%s" style="color: %s; font-weight: 600;">Open the Teams channel &rsaquo;</a></p>
`, channelURL, brandRed)
	}
	return links
}

// ConfirmationSubject builds the reply subject line.
func ConfirmationSubject(subjectLine string) string {
	if subjectLine == "" {
		return "Dot - Done"
	}
	return "Re: " + subjectLine
}

// BuildConfirmation renders the success email body.
func BuildConfirmation(p Confirmation) string {
	friendly, ok := routeFriendly[p.Route]
	if !ok {
		friendly = "Request completed"
	}
	subtitle, ok := routeSubtitle[p.Route]
	if !ok {
		subtitle = "Completed"
	}

	var boxTitle string
	switch {
	case p.JobNumber != "" && p.JobName != "":
		boxTitle = p.JobNumber + " | " + p.JobName
	case p.JobNumber != "":
		boxTitle = p.JobNumber
	default:
		boxTitle = "Done"
	}

	lead := "All sorted."
	if !p.AllSorted {
		lead = "Mostly sorted."
	}

	content := fmt.Sprintf(`<p style="margin: 0 0 20px 0;">Hey %s,</p>
<p style="margin: 0 0 20px 0;">%s %s.</p>

%s
%s%s<p style="margin: 0;">Dot</p>`,
		FirstName(p.SenderName), lead, friendly,
		successBox(boxTitle, subtitle), checklist(p.Steps),
		linkButtons(p.FolderURL, p.ChannelURL))

	return wrap(content)
}

// FailureNotice holds the inputs to a failure email.
type FailureNotice struct {
	Route        string
	SenderName   string
	JobNumber    string
	SubjectLine  string
	ErrorMessage string
}

// FailureSubject builds the failure subject line.
func FailureSubject(subjectLine string) string {
	if subjectLine == "" {
		return "Did not compute"
	}
	return "Did not compute: " + subjectLine
}

// BuildFailure renders the failure email body, including the raw error so
// the sender can forward it on.
func BuildFailure(p FailureNotice) string {
	boxTitle := p.JobNumber
	if boxTitle == "" {
		boxTitle = "Error"
	}
	subtitle, ok := routeFailureSubtitle[p.Route]
	if !ok {
		subtitle = "Something went wrong"
	}

	content := fmt.Sprintf(`<p style="margin: 0 0 20px 0;">Hey %s,</p>
<p style="margin: 0 0 20px 0;">Sorry, I got in a muddle over that one.</p>

%s

<p style="margin: 0 0 8px 0; font-size: 13px; color: #666;">Here's what I told myself:</p>
<pre style="background: #f5f5f5; padding: 12px; border-radius: 6px; font-size: 12px; overflow-x: auto; color: #666; margin: 0 0 24px 0;">%s</pre>

<p style="margin: 0;">Dot</p>`,
		FirstName(p.SenderName), failureBox(boxTitle, subtitle), p.ErrorMessage)

	return wrap(content)
}

// SetupConfirmation holds the inputs to a new-job confirmation email.
type SetupConfirmation struct {
	SenderName string
	JobNumber  string
	JobName    string
	FolderURL  string
	ChannelURL string
	Steps      []StepLine
	AllSorted  bool
}

// BuildSetupConfirmation renders the new-job email, with links to the
// freshly minted folder and channel where those exist.
func BuildSetupConfirmation(p SetupConfirmation) string {
	lead := "All sorted."
	if !p.AllSorted {
		lead = "Mostly sorted."
	}

	content := fmt.Sprintf(`<p style="margin: 0 0 20px 0;">Hey %s,</p>
<p style="margin: 0 0 20px 0;">%s %s is live.</p>

%s
%s%s
<p style="margin: 0;">Dot</p>`,
		FirstName(p.SenderName), lead, p.JobNumber,
		successBox(p.JobNumber+" | "+p.JobName, "New job created"),
		checklist(p.Steps), linkButtons(p.FolderURL, p.ChannelURL))

	return wrap(content)
}
