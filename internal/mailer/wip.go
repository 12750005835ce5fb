package mailer

import (
	"fmt"
	"strings"

	"github.com/dotworkers/api/internal/model"
)

// WipSubject is the fixed subject line for client WIP emails.
const WipSubject = "Latest WIP from Hunch"

func wipSectionHeader(text string) string {
	return fmt.Sprintf(`<div style="font-size: 13px; font-weight: 600; color: %s; text-transform: uppercase; letter-spacing: 0.1em; margin: 28px 0 12px 0;">%s</div>`, brandRed, text)
}

func wipJobCard(job model.DigestJob, hubLink string) string {
	description := job.Update
	if len(description) > 120 {
		description = description[:117] + "..."
	}

	return fmt.Sprintf(`<a href="%s" style="display: block; text-decoration: none; color: inherit; background: #f9f9f9; border-radius: 12px; padding: 16px 18px; margin-bottom: 10px; border-left: 3px solid %s;">
  <div style="margin-bottom: 8px;">
    <span style="font-size: 15px; font-weight: 600; color: #1a1a1a;">%s</span>
    <span style="color: #ccc; margin: 0 8px;">&middot;</span>
    <span style="font-size: 15px; font-weight: 600; color: #1a1a1a;">%s</span>
  </div>
  <div style="font-size: 15px; color: #666; line-height: 1.4; margin-bottom: 8px;">%s</div>
  <div style="font-size: 13px; font-weight: 600; color: %s;">View details &rsaquo;</div>
</a>`, hubLink, brandRed, job.JobNumber, job.ProjectName, description, brandRed)
}

// BuildWipEmail renders a client WIP email: active jobs grouped by who
// holds the ball, each card deep-linking into the Hub with the recipient's
// own token.
func BuildWipEmail(jobs model.WipJobs, jobLinks map[string]string, firstName, customNote string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<p style="margin: 0 0 6px 0; font-size: 16px;">Hey %s,</p>`, firstName)
	if customNote != "" {
		fmt.Fprintf(&b, `<p style="margin: 0 0 16px 0; font-size: 16px; color: #333;">%s</p>`, customNote)
	}

	sections := []struct {
		title string
		jobs  []model.DigestJob
	}{
		{"With Hunch", jobs.WithUs},
		{"With You", jobs.WithYou},
		{"On Hold", jobs.OnHold},
		{"Upcoming", jobs.Upcoming},
	}

	for _, section := range sections {
		if len(section.jobs) == 0 {
			continue
		}
		b.WriteString(wipSectionHeader(section.title))
		for _, job := range section.jobs {
			b.WriteString(wipJobCard(job, linkFor(jobLinks, job.JobNumber)))
		}
	}

	return emailDocument(b.String())
}
