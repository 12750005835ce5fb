package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dotworkers/api/internal/model"
)

// FormatBrief renders a brief for a channel post. Teams wants HTML, and
// missing answers render as TBC so the gaps are visible.
func FormatBrief(jobNumber, jobName string, brief model.Brief, updateDue, updateURL, filesURL string) string {
	var parts []string

	theJob := brief.TheJob
	if theJob == "" {
		theJob = "Set up " + jobName
	}
	parts = append(parts, "<b>What's the job?</b><br>"+theJob)

	parts = append(parts, "<b>Who's owning it?</b><br>"+orTBC(brief.Owner))
	parts = append(parts, "<b>Tracker:</b><br>"+orTBC(brief.Costs))

	dueText := "TBC"
	if updateDue != "" {
		dueText = updateDue
		if due, err := time.Parse("2006-01-02", updateDue); err == nil {
			dueText = due.Format("2 Jan")
		}
	}
	parts = append(parts, fmt.Sprintf("<b>When?</b><br>Next update due: %s<br>Live in: %s", dueText, orTBC(brief.When)))

	var links []string
	if updateURL != "" {
		links = append(links, fmt.Sprintf(`<a href="%s">Update the project here</a>`, updateURL))
	}
	if filesURL != "" {
		links = append(links, fmt.Sprintf(`<a href="%s">See files here</a>`, filesURL))
	}
	if len(links) > 0 {
		parts = append(parts, strings.Join(links, " | "))
	}

	return strings.Join(parts, "<br><br>")
}

// UpdateBody appends a preview of the source email under the extracted
// update, so the channel keeps the context.
func UpdateBody(body, emailBody string) string {
	preview := emailBody
	// truncate on a rune boundary so a multi-byte character never gets split
	if runes := []rune(preview); len(runes) > 300 {
		preview = string(runes[:300]) + "..."
	}
	return fmt.Sprintf("%s\n\n---\n**Original email:**\n>%s", body, preview)
}

func orTBC(s string) string {
	if s == "" {
		return "TBC"
	}
	return s
}
