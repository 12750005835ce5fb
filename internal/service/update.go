// Package service holds the worker pipelines. Each pipeline is GO IN → DO
// THING → SEND COMMS → GET OUT: do the work first, then tell everyone, and
// never let a comms failure undo the work.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/mailer"
	"github.com/dotworkers/api/internal/model"
)

// UpdateService runs the job-update pipeline.
type UpdateService struct {
	store     RecordStore
	extractor Extractor
	notifier  Notifier
	filer     AttachmentFiler
}

// NewUpdateService creates the update pipeline.
func NewUpdateService(store RecordStore, extractor Extractor, notifier Notifier, filer AttachmentFiler) *UpdateService {
	return &UpdateService{
		store:     store,
		extractor: extractor,
		notifier:  notifier,
		filer:     filer,
	}
}

// Process runs one update: fetch the email, find the job, extract the
// update, write it, then notify. Returns the results so far alongside any
// error so the handler can include them in failure payloads.
func (s *UpdateService) Process(ctx context.Context, req model.UpdateRequest) (*model.UpdateResponse, *model.UpdateResults, error) {
	results := &model.UpdateResults{}

	log.Printf("[update] === PROCESSING ===")
	log.Printf("[update] Job: %s", req.JobNumber)
	log.Printf("[update] Sender: %s", req.SenderEmail)
	log.Printf("[update] Has attachments: %v", req.HasAttachments)

	// 1. File attachments (non-fatal) - before the fatal lookups, so a
	// bad job reference never strands files in the transfer folder
	if req.HasAttachments && len(req.AttachmentNames) > 0 {
		log.Printf("[update] Filing %d attachments...", len(req.AttachmentNames))
		// body fetched early just for the .eml; a miss files without it
		emlBody, err := s.store.GetMessageBody(ctx, req.InternetMessageID)
		if err != nil {
			log.Printf("[update] Body for .eml unavailable: %v", err)
			emlBody = ""
		}
		results.File = s.filer.FileAttachments(ctx, model.FilingJob{
			JobNumber:        req.JobNumber,
			ClientCode:       clientCodeFromJobNumber(req.JobNumber),
			FilesURL:         req.FilesURL,
			AttachmentNames:  req.AttachmentNames,
			Route:            "update",
			EmailContent:     emlBody,
			SenderName:       req.SenderName,
			SenderEmail:      req.SenderEmail,
			Recipients:       req.AllRecipients,
			Subject:          req.SubjectLine,
			ReceivedDateTime: req.ReceivedDateTime,
		})
		if results.File.Success {
			log.Printf("[update] Filed: %d files to %s", results.File.Count, results.File.Destination)
		} else {
			// filing never sinks the update
			log.Printf("[update] Filing failed: %s", results.File.Error)
		}
	} else {
		log.Printf("[update] No attachments to file")
	}

	// 2. Get email body
	log.Printf("[update] Looking up email body...")
	emailBody, err := s.store.GetMessageBody(ctx, req.InternetMessageID)
	if err != nil {
		return nil, results, s.fail(ctx, req, results, runErr(fmt.Sprintf("Traffic lookup failed: %v", err)))
	}
	if emailBody == "" {
		return nil, results, s.fail(ctx, req, results,
			businessErr("Could not retrieve email body from Traffic table"))
	}
	log.Printf("[update] Email body: %d chars", len(emailBody))

	// 3. Look up job
	log.Printf("[update] Looking up job...")
	job, err := s.store.GetJob(ctx, req.JobNumber)
	if err != nil {
		return nil, results, s.fail(ctx, req, results,
			businessErr(fmt.Sprintf("Job '%s' not found in Airtable", req.JobNumber)))
	}
	log.Printf("[update] Found: %s", job.ProjectName)

	teamID := req.TeamID
	if teamID == "" {
		teamID = job.TeamID
	}
	channelID := req.TeamsChannelID
	if channelID == "" {
		channelID = job.ChannelID
	}

	if results.File != nil && results.File.Success &&
		results.File.FolderURL != "" && results.File.FolderURL != job.FilesURL {
		if err := s.store.PatchJob(ctx, job.RecordID, client.JobPatch{FilesURL: results.File.FolderURL}); err != nil {
			log.Printf("[update] Files Url patch failed: %v", err)
		}
	}

	// 4. Extract
	log.Printf("[update] Extracting update...")
	extracted, err := s.extract(ctx, req, job, emailBody)
	if err != nil {
		return nil, results, s.fail(ctx, req, results, err)
	}

	updateDue := extracted.UpdateDue
	if updateDue == "" {
		updateDue = DefaultUpdateDue(time.Now())
	}
	log.Printf("[update] Extracted: %s", extracted.UpdateSummary)

	// 5. Write update record
	log.Printf("[update] Writing update...")
	updateRecordID, err := s.store.CreateUpdate(ctx, job.RecordID, extracted.UpdateSummary, updateDue)
	if err != nil {
		results.Airtable = &model.StepResult{Success: false, Error: err.Error()}
		return nil, results, s.fail(ctx, req, results,
			businessErr(fmt.Sprintf("Failed to write update: %v", err)))
	}
	results.Airtable = &model.StepResult{Success: true, RecordID: updateRecordID}
	log.Printf("[update] Written: %s", updateRecordID)

	// Patch the job when stage, status or the ball moved. Only changed,
	// non-placeholder values are written; last write wins.
	patch := client.JobPatch{}
	if !extracted.Stage.IsPlaceholder() && extracted.Stage != job.Stage {
		patch.Stage = extracted.Stage
	}
	if !extracted.Status.IsPlaceholder() && extracted.Status != job.Status {
		patch.Status = extracted.Status
	}
	if extracted.WithClient != nil && *extracted.WithClient != job.WithClient {
		patch.WithClient = extracted.WithClient
	}
	if patch.Stage != "" || patch.Status != "" || patch.WithClient != nil {
		log.Printf("[update] Patching job...")
		if err := s.store.PatchJob(ctx, job.RecordID, patch); err != nil {
			log.Printf("[update] Job patch failed: %v", err)
		}
	}

	// 6. Post to Teams (non-fatal)
	teamsSubject := extracted.TeamsMessage.Subject
	if teamsSubject == "" {
		teamsSubject = "UPDATE: " + req.JobNumber
	}
	teamsBody := extracted.TeamsMessage.Body
	if teamsBody == "" {
		teamsBody = extracted.UpdateSummary
	}

	log.Printf("[update] Posting to Teams...")
	results.Teams = s.notifier.PostChannelMessage(ctx, teamID, channelID,
		teamsSubject, mailer.UpdateBody(teamsBody, emailBody), req.JobNumber)
	log.Printf("[update] Teams: %v", results.Teams.Success)

	// 7. Confirmation email (non-fatal)
	folderLink := job.FilesURL
	if results.File != nil && results.File.Success && results.File.FolderURL != "" {
		folderLink = results.File.FolderURL
	}

	log.Printf("[update] Sending confirmation...")
	results.Email = s.notifier.SendEmail(ctx, req.SenderEmail,
		mailer.ConfirmationSubject(req.SubjectLine),
		mailer.BuildConfirmation(mailer.Confirmation{
			Route:      "update",
			SenderName: req.SenderName,
			JobNumber:  req.JobNumber,
			JobName:    job.ProjectName,
			FolderURL:  folderLink,
			ChannelURL: job.ChannelURL,
			Steps:      updateSteps(results),
			AllSorted:  results.AllSorted(),
		}),
		&model.OriginalEmail{
			SenderName:       req.SenderName,
			SenderEmail:      req.SenderEmail,
			Subject:          req.SubjectLine,
			ReceivedDateTime: req.ReceivedDateTime,
			Content:          emailBody,
		})
	log.Printf("[update] Email: %v", results.Email.Success)

	log.Printf("[update] === COMPLETE ===")

	resp := &model.UpdateResponse{
		Success:     true,
		JobNumber:   req.JobNumber,
		ProjectName: job.ProjectName,
		Update:      extracted.UpdateSummary,
		UpdateDue:   updateDue,
		Stage:       extracted.Stage,
		Status:      extracted.Status,
		WithClient:  extracted.WithClient,
		Results:     results,
		TeamsPosted: results.Teams.Success,
		EmailSent:   results.Email.Success,
	}
	if results.File != nil {
		resp.FilesFiled = results.File.Count
	}
	return resp, results, nil
}

// extract calls the model with the job's current state and parses the
// structured result. A parse failure is a broken run, not a business
// failure: it means the pipeline, not the request, is at fault.
func (s *UpdateService) extract(ctx context.Context, req model.UpdateRequest, job *model.JobRecord, emailBody string) (*model.ExtractedUpdate, error) {
	today := time.Now()
	runContext := fmt.Sprintf(`
Today's date: %s

Current job data:
- Job Number: %s
- Project Name: %s
- Stage: %s
- Status: %s
- With Client: %v
- Current Update: %s
`, today.Format("Monday, 02 January 2006"),
		req.JobNumber, job.ProjectName, job.Stage, job.Status, job.WithClient, job.CurrentUpdate)

	raw, err := s.extractor.Extract(ctx, updatePrompt,
		fmt.Sprintf("%s\n\nEmail content:\n\n%s", runContext, emailBody), 1500)
	if err != nil {
		return nil, runErr(fmt.Sprintf("Extraction failed: %v", err))
	}

	var extracted model.ExtractedUpdate
	if err := json.Unmarshal([]byte(stripMarkdownJSON(raw)), &extracted); err != nil {
		log.Printf("[update] JSON error: %v", err)
		return nil, runErr(fmt.Sprintf("Invalid JSON: %v", err))
	}
	return &extracted, nil
}

// fail sends the failure email and passes the error through.
func (s *UpdateService) fail(ctx context.Context, req model.UpdateRequest, results *model.UpdateResults, cause error) error {
	log.Printf("[update] %v", cause)
	if req.SenderEmail != "" {
		s.notifier.SendEmail(ctx, req.SenderEmail,
			mailer.FailureSubject(req.SubjectLine),
			mailer.BuildFailure(mailer.FailureNotice{
				Route:        "update",
				SenderName:   req.SenderName,
				JobNumber:    req.JobNumber,
				SubjectLine:  req.SubjectLine,
				ErrorMessage: cause.Error(),
			}), nil)
	}
	return cause
}

func updateSteps(results *model.UpdateResults) []mailer.StepLine {
	var steps []mailer.StepLine
	if results.File != nil {
		steps = append(steps, mailer.StepLine{Label: "Files filed", OK: results.File.Success})
	}
	if results.Airtable != nil {
		steps = append(steps, mailer.StepLine{Label: "Status updated", OK: results.Airtable.Success})
	}
	if results.Teams != nil {
		steps = append(steps, mailer.StepLine{Label: "Posted to Teams", OK: results.Teams.Success, Skipped: results.Teams.Skipped})
	}
	return steps
}
