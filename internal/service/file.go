package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/mailer"
	"github.com/dotworkers/api/internal/model"
)

// FileService files attachments to a job's folder without running the full
// update pipeline.
type FileService struct {
	store    RecordStore
	notifier Notifier
	filer    AttachmentFiler
}

// NewFileService creates the filing pipeline.
func NewFileService(store RecordStore, notifier Notifier, filer AttachmentFiler) *FileService {
	return &FileService{
		store:    store,
		notifier: notifier,
		filer:    filer,
	}
}

// Process files attachments: look up the job, move the files, tell the
// channel, confirm to the sender. Filing failure is fatal here — it's the
// whole point of the call.
func (s *FileService) Process(ctx context.Context, req model.FileRequest) (*model.FileResponse, *model.FileResults, error) {
	results := &model.FileResults{}

	log.Printf("[file] === PROCESSING ===")
	log.Printf("[file] Job: %s", req.JobNumber)
	log.Printf("[file] Attachments: %v", req.AttachmentNames)

	// 1. Look up job
	job, err := s.store.GetJob(ctx, req.JobNumber)
	if err != nil {
		return nil, results, s.fail(ctx, req, results,
			businessErr(fmt.Sprintf("Job '%s' not found in Airtable", req.JobNumber)))
	}
	log.Printf("[file] Found: %s", job.ProjectName)

	// 2. File attachments
	emailContent := req.EmailContent
	if emailContent == "" && req.InternetMessageID != "" {
		if body, err := s.store.GetMessageBody(ctx, req.InternetMessageID); err == nil {
			emailContent = body
		}
	}

	results.File = s.filer.FileAttachments(ctx, model.FilingJob{
		JobNumber:        req.JobNumber,
		JobName:          job.ProjectName,
		ClientCode:       clientCodeFromJobNumber(req.JobNumber),
		AttachmentNames:  req.AttachmentNames,
		Route:            "file",
		JobRecordID:      job.RecordID,
		EmailContent:     emailContent,
		SenderName:       req.SenderName,
		SenderEmail:      req.SenderEmail,
		Recipients:       req.AllRecipients,
		Subject:          req.SubjectLine,
		ReceivedDateTime: req.ReceivedDateTime,
	})
	if !results.File.Success {
		errMsg := results.File.Error
		if errMsg == "" {
			errMsg = "Filing failed"
		}
		return nil, results, s.fail(ctx, req, results, businessErr(errMsg))
	}
	log.Printf("[file] Filed: %d files to %s", results.File.Count, results.File.Destination)

	if results.File.FolderURL != "" && results.File.FolderURL != job.FilesURL {
		if err := s.store.PatchJob(ctx, job.RecordID, client.JobPatch{FilesURL: results.File.FolderURL}); err != nil {
			log.Printf("[file] Files Url patch failed: %v", err)
		}
	}

	// 3. Post to Teams (non-fatal)
	filesWord := "files"
	if results.File.Count == 1 {
		filesWord = "file"
	}
	var fileList strings.Builder
	for _, name := range results.File.FilesMoved {
		fileList.WriteString("<li>" + name + "</li>")
	}
	teamsBody := fmt.Sprintf("Filed %d %s:<br><ul>%s</ul>", results.File.Count, filesWord, fileList.String())
	if results.File.FolderURL != "" {
		teamsBody += fmt.Sprintf(`<a href="%s">View files here</a>`, results.File.FolderURL)
	}

	log.Printf("[file] Posting to Teams...")
	results.Teams = s.notifier.PostChannelMessage(ctx, job.TeamID, job.ChannelID,
		"Files filed \U0001F4C1", teamsBody, req.JobNumber)
	log.Printf("[file] Teams: %v", results.Teams.Success)

	// 4. Confirmation (non-fatal)
	log.Printf("[file] Sending confirmation...")
	results.Email = s.notifier.SendEmail(ctx, req.SenderEmail,
		mailer.ConfirmationSubject(req.SubjectLine),
		mailer.BuildConfirmation(mailer.Confirmation{
			Route:      "file",
			SenderName: req.SenderName,
			JobNumber:  req.JobNumber,
			JobName:    job.ProjectName,
			FolderURL:  results.File.FolderURL,
			ChannelURL: job.ChannelURL,
			Steps: []mailer.StepLine{
				{Label: "Files filed", OK: true},
				{Label: "Posted to Teams", OK: results.Teams.Success, Skipped: results.Teams.Skipped},
			},
			AllSorted: results.Teams.Success || results.Teams.Skipped,
		}),
		&model.OriginalEmail{
			SenderName:       req.SenderName,
			SenderEmail:      req.SenderEmail,
			Subject:          req.SubjectLine,
			ReceivedDateTime: req.ReceivedDateTime,
			Content:          emailContent,
		})
	log.Printf("[file] Email: %v", results.Email.Success)

	log.Printf("[file] === COMPLETE ===")

	return &model.FileResponse{
		Success:     true,
		JobNumber:   req.JobNumber,
		ProjectName: job.ProjectName,
		Results:     results,
		FilesFiled:  results.File.Count,
	}, results, nil
}

func (s *FileService) fail(ctx context.Context, req model.FileRequest, results *model.FileResults, cause error) error {
	log.Printf("[file] %v", cause)
	if req.SenderEmail != "" {
		s.notifier.SendEmail(ctx, req.SenderEmail,
			mailer.FailureSubject(req.SubjectLine),
			mailer.BuildFailure(mailer.FailureNotice{
				Route:        "file",
				SenderName:   req.SenderName,
				JobNumber:    req.JobNumber,
				SubjectLine:  req.SubjectLine,
				ErrorMessage: cause.Error(),
			}), nil)
	}
	return cause
}
