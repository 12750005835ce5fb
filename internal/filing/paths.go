package filing

import (
	"fmt"
	"regexp"
	"strings"
)

// FileTransferPath is the staging folder Brain drops attachments into.
const FileTransferPath = "/File transfer"

// clientPaths maps client codes to their Dropbox roots.
var clientPaths = map[string]string{
	// Main clients
	"SKY": "Clients/Sky",
	"TOW": "Clients/Tower",
	"FIS": "Clients/Fisher Funds",
	"ONE": "Clients/One NZ/Marketing",
	"ONS": "Clients/One NZ/Simplification",
	"ONB": "Clients/One NZ/Business",
	"HUN": "Clients/Hunch",
	// Other clients
	"LAB": "Clients/Other/Labour",
	"FST": "Clients/Other/Firestop",
	"EON": "Clients/Other/Eon Fibre",
	"WKA": "Clients/Other/Waikato",
}

// routeSubfolders routes brief-ish requests to Briefs; everything else
// lands in Workings.
var routeSubfolders = map[string]string{
	"triage":  "Briefs",
	"new-job": "Briefs",
	"newjob":  "Briefs",
	"setup":   "Briefs",
}

const defaultSubfolder = "Workings"

var (
	unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	timestampPrefix = regexp.MustCompile(`^\d{8}-\d{6}_(.+)$`)
)

// BuildJobFolderPath builds the Dropbox path to a job folder,
// e.g. "/Clients/Sky/Active/SKY 018 - Broadband Launch".
func BuildJobFolderPath(clientCode, jobNumber, jobName string) (string, error) {
	clientPath, ok := clientPaths[clientCode]
	if !ok {
		return "", fmt.Errorf("unknown client code: %s", clientCode)
	}

	cleanName := strings.TrimSpace(jobName)
	if cleanName == "" {
		cleanName = "Untitled"
	}
	cleanName = unsafeNameChars.ReplaceAllString(cleanName, "")

	return fmt.Sprintf("/%s/Active/%s - %s", clientPath, jobNumber, cleanName), nil
}

// SubfolderForRoute resolves the destination subfolder for a route.
func SubfolderForRoute(route string) string {
	if sub, ok := routeSubfolders[route]; ok {
		return sub
	}
	return defaultSubfolder
}

// StripTimestampPrefix strips Brain's timestamp prefix from a filename:
// "20260208-185823_BroadbandBrief.pdf" -> "BroadbandBrief.pdf".
func StripTimestampPrefix(filename string) string {
	if m := timestampPrefix.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	return filename
}

const dropboxHomeURL = "https://www.dropbox.com/home"

// FolderURL returns the browsable Dropbox URL for a job folder path.
func FolderURL(jobFolder string) string {
	return dropboxHomeURL + jobFolder
}

// FolderPathFromURL recovers the Dropbox path from a stored folder URL, or
// "" when the URL isn't a Dropbox home link.
func FolderPathFromURL(folderURL string) string {
	if strings.HasPrefix(folderURL, dropboxHomeURL+"/") {
		return strings.TrimPrefix(folderURL, dropboxHomeURL)
	}
	return ""
}
