package service

import (
	"regexp"
	"strconv"
	"strings"
)

// stripMarkdownJSON removes code fences the model sometimes wraps around
// JSON output.
func stripMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if i := strings.Index(content, "\n"); i >= 0 {
			content = content[i+1:]
		} else {
			content = content[3:]
		}
	}
	if strings.HasSuffix(content, "```") {
		if i := strings.LastIndex(content, "```"); i >= 0 {
			content = content[:i]
		}
	}
	return strings.TrimSpace(content)
}

var costPattern = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// parseSpend pulls a dollar amount out of free text like "$2k", "$5,000" or
// "around 2000". Returns nil when no number is found.
func parseSpend(costs string) *int {
	if costs == "" {
		return nil
	}
	expanded := strings.ReplaceAll(strings.ReplaceAll(costs, "k", "000"), "K", "000")
	match := costPattern.FindString(expanded)
	if match == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return nil
	}
	spend := int(value)
	return &spend
}

// clientCodeFromJobNumber extracts the client code: "TOW 091" -> "TOW".
func clientCodeFromJobNumber(jobNumber string) string {
	if i := strings.Index(jobNumber, " "); i > 0 {
		return jobNumber[:i]
	}
	if len(jobNumber) > 3 {
		return jobNumber[:3]
	}
	return jobNumber
}
