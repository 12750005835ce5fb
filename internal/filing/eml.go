package filing

import (
	"fmt"
	"strings"
	"time"
)

// EmlFilename builds a filename like "Email from Sarah - 25 Jan 2026.eml".
func EmlFilename(senderName, receivedDateTime string, now time.Time) string {
	dateStr := now.Format("02 Jan 2006")
	if receivedDateTime != "" {
		if dt, err := time.Parse(time.RFC3339, receivedDateTime); err == nil {
			dateStr = dt.Format("02 Jan 2006")
		}
	}

	firstName := "Unknown"
	if senderName != "" {
		firstName = strings.Fields(senderName)[0]
	}
	var clean strings.Builder
	for _, r := range firstName {
		if r == ' ' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			clean.WriteRune(r)
		}
	}

	return fmt.Sprintf("Email from %s - %s.eml", clean.String(), dateStr)
}

// EmlContent renders a minimal .eml artifact of the source message. The
// fixed header set matches what mail clients need to open the file.
func EmlContent(senderName, senderEmail string, recipients []string, subject, htmlContent, receivedDateTime string) string {
	emailDate := receivedDateTime
	if dt, err := time.Parse(time.RFC3339, receivedDateTime); err == nil {
		emailDate = dt.Format("Mon, 02 Jan 2006 15:04:05 -0700")
	}

	if senderName == "" {
		senderName = "Unknown"
	}

	return fmt.Sprintf(`MIME-Version: 1.0
Date: %s
From: %s <%s>
To: %s
Subject: %s
Content-Type: text/html; charset="utf-8"

%s
`, emailDate, senderName, senderEmail, strings.Join(recipients, ", "), subject, htmlContent)
}
