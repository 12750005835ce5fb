// Package filing moves inbound attachments from the shared transfer folder
// into per-job Dropbox folders and archives the source message alongside
// them. Filing is best-effort: per-file failures are accumulated, never
// raised.
package filing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/model"
	"github.com/google/uuid"
)

// Store is the slice of the Dropbox client the filer needs.
type Store interface {
	ListFolder(ctx context.Context, path string) ([]client.DropboxEntry, error)
	Move(ctx context.Context, fromPath, toPath string) error
	Upload(ctx context.Context, path, content string) error
	CreateFolder(ctx context.Context, path string) error
}

// Filer files attachments and .eml artifacts into job folders.
type Filer struct {
	store   Store
	archive client.MessageArchiver // optional secondary archive
}

// NewFiler creates a filer. archive may be nil.
func NewFiler(store Store, archive client.MessageArchiver) *Filer {
	return &Filer{store: store, archive: archive}
}

// FileAttachments moves the named attachments from the transfer folder into
// the job's subfolder, saves a .eml of the source message when content is
// supplied, and mirrors the .eml to the archive bucket when configured.
func (f *Filer) FileAttachments(ctx context.Context, job model.FilingJob) *model.FilingResult {
	if len(job.AttachmentNames) == 0 && job.EmailContent == "" {
		return &model.FilingResult{
			Success:    true,
			Filed:      false,
			Message:    "No attachments to file",
			FilesMoved: []string{},
		}
	}

	log.Printf("[file] === FILING ===")
	log.Printf("[file] Job: %s, files: %v, route: %s", job.JobNumber, job.AttachmentNames, job.Route)

	// a stored folder URL wins over the built path, so filing works even
	// when the job record (and its name) hasn't been resolved
	jobFolder := FolderPathFromURL(job.FilesURL)
	if jobFolder == "" {
		var err error
		jobFolder, err = BuildJobFolderPath(job.ClientCode, job.JobNumber, job.JobName)
		if err != nil {
			log.Printf("[file] Path error: %v", err)
			return &model.FilingResult{Success: false, Filed: false, Error: err.Error(), FilesMoved: []string{}}
		}
	}

	subfolder := SubfolderForRoute(job.Route)
	destPath := jobFolder + "/" + subfolder

	var filesMoved []string
	var errs []string

	if len(job.AttachmentNames) > 0 {
		transferFiles, err := f.store.ListFolder(ctx, FileTransferPath)
		if err != nil {
			log.Printf("[file] Error listing transfer folder: %v", err)
			return &model.FilingResult{
				Success:    false,
				Filed:      false,
				Error:      fmt.Sprintf("Could not list File transfer folder: %v", err),
				FilesMoved: []string{},
			}
		}

		for _, name := range job.AttachmentNames {
			transferName := findInTransfer(name, transferFiles)
			if transferName == "" {
				log.Printf("[file] NOT FOUND in transfer: %s", name)
				errs = append(errs, "Not found: "+name)
				continue
			}

			fromPath := FileTransferPath + "/" + transferName
			cleanName := StripTimestampPrefix(transferName)
			toPath := destPath + "/" + cleanName

			if err := f.store.Move(ctx, fromPath, toPath); err != nil {
				log.Printf("[file] Failed to move %s: %v", transferName, err)
				errs = append(errs, fmt.Sprintf("Move failed: %s - %v", name, err))
				continue
			}
			filesMoved = append(filesMoved, cleanName)
			log.Printf("[file] Moved: %s", cleanName)
		}
	}

	if job.EmailContent != "" {
		emlName := EmlFilename(job.SenderName, job.ReceivedDateTime, time.Now())
		emlBody := EmlContent(job.SenderName, job.SenderEmail, job.Recipients,
			job.Subject, job.EmailContent, job.ReceivedDateTime)

		if err := f.store.Upload(ctx, destPath+"/"+emlName, emlBody); err != nil {
			log.Printf("[file] Failed to save .eml: %v", err)
			errs = append(errs, fmt.Sprintf("EML save failed: %v", err))
		} else {
			filesMoved = append(filesMoved, emlName)
		}

		if f.archive != nil && f.archive.IsConfigured() {
			key := archiveKey(job.JobNumber, emlName)
			if _, err := f.archive.ArchiveMessage(ctx, key, emlBody); err != nil {
				// archive is a mirror; a miss is a warning, not a failure
				log.Printf("[file] Archive mirror failed: %v", err)
				errs = append(errs, fmt.Sprintf("Archive failed: %v", err))
			}
		}
	}

	if len(errs) > 0 && len(filesMoved) == 0 {
		return &model.FilingResult{
			Success:    false,
			Filed:      false,
			Error:      strings.Join(errs, "; "),
			FilesMoved: []string{},
		}
	}

	result := &model.FilingResult{
		Success:     len(filesMoved) > 0,
		Filed:       len(filesMoved) > 0,
		JobNumber:   job.JobNumber,
		Destination: subfolder,
		JobFolder:   jobFolder,
		FolderURL:   FolderURL(jobFolder),
		FilesMoved:  filesMoved,
		Count:       len(filesMoved),
		Warnings:    errs,
	}

	log.Printf("[file] === DONE === Filed %d file(s) to %s", len(filesMoved), subfolder)
	return result
}

// CreateJobFolder creates a new job folder with its standard subfolders.
// Returns the browsable folder URL.
func (f *Filer) CreateJobFolder(ctx context.Context, clientCode, jobNumber, jobName string) (string, error) {
	jobFolder, err := BuildJobFolderPath(clientCode, jobNumber, jobName)
	if err != nil {
		return "", err
	}

	log.Printf("[file] Creating job folder: %s", jobFolder)

	for _, path := range []string{jobFolder, jobFolder + "/Briefs", jobFolder + "/Finals", jobFolder + "/Workings"} {
		if err := f.store.CreateFolder(ctx, path); err != nil {
			return "", err
		}
	}

	return FolderURL(jobFolder), nil
}

// findInTransfer matches an attachment name against the transfer listing,
// tolerating Brain's timestamp prefixes.
func findInTransfer(attachmentName string, entries []client.DropboxEntry) string {
	for _, entry := range entries {
		if entry.Tag != "file" {
			continue
		}
		if StripTimestampPrefix(entry.Name) == attachmentName || entry.Name == attachmentName {
			return entry.Name
		}
	}
	return ""
}

// archiveKey builds the bucket key. EmlFilename only carries the day, and
// the bucket overwrites on key collision, so a short unique suffix keeps two
// same-day emails from the same sender apart.
func archiveKey(jobNumber, emlName string) string {
	return strings.ReplaceAll(jobNumber, " ", "") + "/" + uuid.NewString()[:8] + "-" + emlName
}
