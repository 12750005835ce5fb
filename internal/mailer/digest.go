package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dotworkers/api/internal/model"
)

// TodoSubject builds the digest subject line with today's day name.
func TodoSubject(now time.Time) string {
	return "Daily To Do List: " + now.Format("Monday")
}

func digestSectionHeader(text string) string {
	return fmt.Sprintf(`<div style="font-size: 20px; font-weight: 600; color: %s; margin: 28px 0 16px 0;">%s</div>`, darkGrey, text)
}

func digestSubtitle(text string) string {
	return fmt.Sprintf(`<div style="font-size: 13px; font-weight: 600; color: %s; text-transform: uppercase; letter-spacing: 0.5px; margin: 20px 0 10px 0;">%s</div>`, brandRed, text)
}

func meetingCard(m model.Meeting) string {
	timeStr := m.StartTime
	if m.EndTime != "" {
		timeStr = m.StartTime + " &ndash; " + m.EndTime
	}
	location := m.Location
	if location == "" {
		location = "TBC"
	}

	return fmt.Sprintf(`<div style="background: #f9f9f9; border-radius: 12px; padding: 16px 18px; margin-bottom: 10px;">
  <div style="margin-bottom: 8px;">
    <span style="font-size: 15px; font-weight: 600; color: %s;">%s</span>
    <span style="font-size: 11px; font-weight: 600; color: #666; background: #eee; padding: 4px 10px; border-radius: 999px; text-transform: uppercase; letter-spacing: 0.5px; margin-left: 10px;">%s</span>
  </div>
  <div style="font-weight: 600; font-size: 17px; color: #1a1a1a; margin-bottom: 4px;">%s</div>
  <div style="font-size: 15px; color: #666;">&#128205; %s</div>
</div>`, darkGrey, timeStr, m.Whose, m.Title, location)
}

func digestJobCard(job model.DigestJob, hubLink string) string {
	statusStyle := "color: #666; background: #eee;"
	if job.Status == "Overdue" {
		statusStyle = fmt.Sprintf("color: %s; background: rgba(237, 28, 36, 0.1);", brandRed)
	}

	teamsButton := ""
	if job.ChannelURL != "" {
		teamsButton = fmt.Sprintf(`<a href="%s" style="font-size: 13px; font-weight: 600; text-decoration: none; color: #666; margin-left: 20px;">&rsaquo; TEAMS</a>`, job.ChannelURL)
	}

	description := job.Update
	if len(description) > 100 {
		description = description[:97] + "..."
	}

	return fmt.Sprintf(`<div style="background: #f9f9f9; border-radius: 12px; padding: 16px 18px; margin-bottom: 10px;">
  <div style="margin-bottom: 8px;">
    <span style="font-size: 15px; font-weight: 600; color: #1a1a1a;">%s</span>
    <span style="color: #ccc; margin: 0 8px;">&middot;</span>
    <span style="font-size: 15px; font-weight: 600; color: #1a1a1a;">%s</span>
    <span style="font-size: 11px; font-weight: 600; %s padding: 4px 10px; border-radius: 999px; text-transform: uppercase; letter-spacing: 0.3px; float: right;">%s</span>
  </div>
  <div style="font-size: 15px; color: #666; line-height: 1.4; margin-bottom: 12px;">%s</div>
  <div>
    <a href="%s" style="font-size: 13px; font-weight: 600; text-decoration: none; color: #666;">&rsaquo; UPDATE</a>%s
  </div>
</div>`, job.JobNumber, job.ProjectName, statusStyle, job.Status, description, hubLink, teamsButton)
}

func weekItem(job model.DigestJob, hubLink string) string {
	return fmt.Sprintf(`<div style="padding: 10px 0; border-bottom: 1px solid #eee;">
  <a href="%s" style="font-size: 15px; font-weight: 600; text-decoration: none; color: #1a1a1a;">%s</a>
  <span style="font-size: 15px; color: #666;"> &middot; %s</span>
  <span style="font-size: 13px; color: #999; float: right;">%s</span>
</div>`, hubLink, job.JobNumber, job.ProjectName, job.Status)
}

func emptyState(text string) string {
	return fmt.Sprintf(`<div style="background: #f9f9f9; border-radius: 12px; padding: 16px 18px; color: #999; font-size: 15px;">%s</div>`, text)
}

func askDotBanner() string {
	return fmt.Sprintf(`<div style="padding-bottom: 16px; border-bottom: 3px solid %s; margin-bottom: 24px;">
  <img src="%s" alt="Ask Dot" height="32" style="display: block;">
</div>`, brandRed, askDotHeader)
}

func digestFooter() string {
	return fmt.Sprintf(`<table cellpadding="0" cellspacing="0" border="0" width="100%%" style="margin-top: 32px; border-top: 1px solid #eee; padding-top: 16px;">
  <tr>
    <td style="vertical-align: middle; padding-right: 12px;" width="60">
      <img src="%s" alt="hai2" width="56" height="28" style="display: block;">
    </td>
    <td style="vertical-align: middle; font-size: 12px; color: #999;">
      Dot is a robot, but there's humans in the loop.
    </td>
  </tr>
</table>`, logoURL)
}

func emailDocument(inner string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; font-size: 15px; line-height: 1.6; color: #333; margin: 0; padding: 20px; background: #f5f5f5;">

<div style="max-width: 600px; margin: 0 auto; background: white; padding: 24px; border-radius: 8px;">

%s
%s

</div>

</body>
</html>`, askDotBanner(), inner)
}

// BuildTodoEmail renders the daily TO DO digest: today's and the next
// working day's meetings and due jobs, plus the week's pipeline.
func BuildTodoEmail(jobs model.DigestJobs, meetings model.DigestMeetings, jobLinks map[string]string, nextDayLabel, firstName, weekLabel string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<p style="margin: 0 0 6px 0; font-size: 16px;">Hey %s,</p>
<p style="margin: 0; font-size: 16px; color: #666;">Here's what's what and what's hot.</p>`, firstName)

	b.WriteString(digestSectionHeader("Today"))

	b.WriteString(digestSubtitle("Meetings"))
	if len(meetings.Today) > 0 {
		for _, m := range meetings.Today {
			b.WriteString(meetingCard(m))
		}
	} else {
		b.WriteString(emptyState("No meetings today"))
	}

	b.WriteString(digestSubtitle("Jobs due"))
	if len(jobs.Today) > 0 {
		for _, job := range jobs.Today {
			b.WriteString(digestJobCard(job, linkFor(jobLinks, job.JobNumber)))
		}
	} else {
		b.WriteString(emptyState("No jobs due today"))
	}

	b.WriteString(digestSectionHeader(nextDayLabel))

	b.WriteString(digestSubtitle("Meetings"))
	if len(meetings.Tomorrow) > 0 {
		for _, m := range meetings.Tomorrow {
			b.WriteString(meetingCard(m))
		}
	} else {
		b.WriteString(emptyState("No meetings " + strings.ToLower(nextDayLabel)))
	}

	b.WriteString(digestSubtitle("Jobs due"))
	if len(jobs.Tomorrow) > 0 {
		for _, job := range jobs.Tomorrow {
			b.WriteString(digestJobCard(job, linkFor(jobLinks, job.JobNumber)))
		}
	} else {
		b.WriteString(emptyState("No jobs due " + strings.ToLower(nextDayLabel)))
	}

	if len(jobs.Week) > 0 {
		b.WriteString(digestSectionHeader(weekLabel))
		for _, job := range jobs.Week {
			b.WriteString(weekItem(job, linkFor(jobLinks, job.JobNumber)))
		}
	}

	return emailDocument(b.String())
}

func linkFor(links map[string]string, jobNumber string) string {
	if link, ok := links[jobNumber]; ok {
		return link
	}
	return "#"
}
