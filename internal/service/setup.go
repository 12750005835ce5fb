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

// SetupService runs the job-setup pipeline: brief in, live job out.
type SetupService struct {
	store     RecordStore
	extractor Extractor
	notifier  Notifier
	filer     AttachmentFiler
	links     LinkBuilder
}

// NewSetupService creates the setup pipeline.
func NewSetupService(store RecordStore, extractor Extractor, notifier Notifier, filer AttachmentFiler, links LinkBuilder) *SetupService {
	return &SetupService{
		store:     store,
		extractor: extractor,
		notifier:  notifier,
		filer:     filer,
		links:     links,
	}
}

// Process sets up a new job. Two entry points share the flow: an email
// (brief extracted from the message) or a Hub form (brief supplied
// directly). When both arrive, the explicit brief wins and the email is
// never fetched.
//
// Once the job number is reserved there is no rollback: a later step
// failing leaves the earlier records in place and reports honestly.
func (s *SetupService) Process(ctx context.Context, req model.SetupRequest) (*model.SetupResponse, *model.SetupResults, error) {
	results := &model.SetupResults{}

	mode := "Email"
	if req.Brief != nil {
		mode = "Hub form"
	}
	log.Printf("[setup] === PROCESSING ===")
	log.Printf("[setup] Client: %s (%s)", req.ClientCode, req.ClientName)
	log.Printf("[setup] Sender: %s", req.SenderEmail)
	log.Printf("[setup] Mode: %s", mode)

	// 1. Get the brief (two paths)
	var brief model.Brief
	var emailBody string
	if req.Brief != nil {
		log.Printf("[setup] Using provided brief")
		brief = *req.Brief
	} else {
		log.Printf("[setup] Looking up email body...")
		body, err := s.store.GetMessageBody(ctx, req.InternetMessageID)
		if err != nil {
			return nil, results, s.fail(ctx, req, "", results, runErr(fmt.Sprintf("Traffic lookup failed: %v", err)))
		}
		if body == "" {
			return nil, results, s.fail(ctx, req, "", results,
				businessErr("Could not retrieve email body from Traffic table"))
		}
		emailBody = body
		log.Printf("[setup] Email body: %d chars", len(emailBody))

		extracted, err := s.extractBrief(ctx, req, emailBody)
		if err != nil {
			return nil, results, s.fail(ctx, req, "", results, err)
		}
		brief = *extracted
	}
	results.Brief = &brief

	jobName := brief.JobName
	if jobName == "" {
		jobName = "New Job"
	}
	updateDue := brief.UpdateDue
	if updateDue == "" {
		updateDue = DefaultUpdateDue(time.Now())
	}
	log.Printf("[setup] Brief: %s (confidence: %s)", jobName, brief.Confidence)

	// 2. Reserve job number
	log.Printf("[setup] Reserving job number...")
	jobNumber, _, teamID, err := s.store.ReserveJobNumber(ctx, req.ClientCode)
	if err != nil {
		return nil, results, s.fail(ctx, req, "", results,
			businessErr(fmt.Sprintf("Could not reserve job number: %v", err)))
	}
	log.Printf("[setup] Reserved: %s", jobNumber)

	// 3. Create project record
	log.Printf("[setup] Creating project...")
	description := ""
	if brief.TheJob != "" {
		description = brief.TheJob
	}
	if brief.What != "" {
		if description != "" {
			description += " | "
		}
		description += brief.What
	}
	liveDate := brief.When
	if liveDate == "" {
		liveDate = "Tbc"
	}

	projectRecordID, err := s.store.CreateJob(ctx, model.NewJob{
		JobNumber:   jobNumber,
		JobName:     jobName,
		Description: description,
		Owner:       brief.Owner,
		Stage:       model.StageTriage,
		Status:      model.StatusIncoming,
		UpdateDue:   updateDue,
		LiveDate:    liveDate,
	})
	if err != nil {
		results.Project = &model.StepResult{Success: false, Error: err.Error()}
		return nil, results, s.fail(ctx, req, jobNumber, results,
			businessErr(fmt.Sprintf("Failed to create project: %v", err)))
	}
	results.Project = &model.StepResult{Success: true, RecordID: projectRecordID}
	log.Printf("[setup] Project created: %s", projectRecordID)

	// 4. Create tracker entry (non-fatal)
	log.Printf("[setup] Creating tracker record...")
	trackerRecordID, err := s.store.CreateTracker(ctx, model.NewTracker{
		JobRecordID: projectRecordID,
		Spend:       parseSpend(brief.Costs),
		SpendType:   model.SpendProjectBudget,
		Notes:       brief.TheJob,
		Ballpark:    brief.Costs != "",
	})
	if err != nil {
		log.Printf("[setup] Tracker error (non-fatal): %v", err)
		results.Tracker = &model.StepResult{Success: false, Error: err.Error()}
	} else {
		results.Tracker = &model.StepResult{Success: true, RecordID: trackerRecordID}
		log.Printf("[setup] Tracker created: %s", trackerRecordID)
	}

	// 5. Create the Dropbox job folder (non-fatal)
	folderURL := ""
	if url, err := s.filer.CreateJobFolder(ctx, req.ClientCode, jobNumber, jobName); err != nil {
		log.Printf("[setup] Folder error (non-fatal): %v", err)
	} else {
		folderURL = url
		if err := s.store.PatchJob(ctx, projectRecordID, client.JobPatch{FilesURL: folderURL}); err != nil {
			log.Printf("[setup] Files Url patch failed: %v", err)
		}
	}

	// 6. Provision Teams channel (non-fatal)
	log.Printf("[setup] Creating Teams channel...")
	if teamID == "" {
		log.Printf("[setup] No Team ID for client %s", req.ClientCode)
		results.Channel = &model.ChannelResult{Success: false, Skipped: true, Error: "No Team ID configured"}
	} else {
		results.Channel = s.notifier.ProvisionChannel(ctx, teamID, fmt.Sprintf("%s - %s", jobNumber, jobName))
		if results.Channel.Success {
			log.Printf("[setup] Channel created: %s", results.Channel.ChannelID)
			if err := s.store.PatchJob(ctx, projectRecordID, client.JobPatch{
				ChannelID:  results.Channel.ChannelID,
				ChannelURL: results.Channel.ChannelURL,
			}); err != nil {
				log.Printf("[setup] Channel patch failed: %v", err)
			}
		} else {
			log.Printf("[setup] Channel error: %s", results.Channel.Error)
		}
	}

	// 7. Post the brief to the channel (non-fatal)
	log.Printf("[setup] Posting brief to Teams...")
	if teamID == "" || !results.Channel.Success {
		log.Printf("[setup] Skipping Teams post - no channel")
		results.TeamsPost = &model.StepResult{Success: false, Skipped: true}
	} else {
		filesURL := folderURL
		if cl, err := s.store.GetClient(ctx, req.ClientCode); err == nil && cl.SharePointURL != "" {
			filesURL = fmt.Sprintf("%s/Shared Documents/%s - %s", cl.SharePointURL, jobNumber, jobName)
		}

		results.TeamsPost = s.notifier.PostChannelMessage(ctx, teamID, results.Channel.ChannelID,
			fmt.Sprintf("New job: %s - %s", jobNumber, jobName),
			mailer.FormatBrief(jobNumber, jobName, brief, updateDue, s.links.UpdateLink(jobNumber), filesURL),
			jobNumber)
		log.Printf("[setup] Teams post: %v", results.TeamsPost.Success)
	}

	// 8. Confirmation email (non-fatal)
	log.Printf("[setup] Sending confirmation...")
	var original *model.OriginalEmail
	if emailBody != "" {
		original = &model.OriginalEmail{
			SenderName:  req.SenderName,
			SenderEmail: req.SenderEmail,
			Subject:     req.SubjectLine,
			Content:     emailBody,
		}
	}
	results.Email = s.notifier.SendEmail(ctx, req.SenderEmail,
		mailer.ConfirmationSubject(req.SubjectLine),
		mailer.BuildSetupConfirmation(mailer.SetupConfirmation{
			SenderName: req.SenderName,
			JobNumber:  jobNumber,
			JobName:    jobName,
			FolderURL:  folderURL,
			ChannelURL: results.Channel.ChannelURL,
			Steps:      setupSteps(results),
			AllSorted:  results.AllSorted(),
		}), original)
	log.Printf("[setup] Email: %v", results.Email.Success)

	log.Printf("[setup] === COMPLETE ===")

	return &model.SetupResponse{
		Success:    true,
		JobNumber:  jobNumber,
		JobName:    jobName,
		ClientCode: req.ClientCode,
		Brief:      &brief,
		Results:    results,
	}, results, nil
}

func (s *SetupService) extractBrief(ctx context.Context, req model.SetupRequest, emailBody string) (*model.Brief, error) {
	log.Printf("[setup] Extracting brief...")

	runContext := fmt.Sprintf(`
Today's date: %s
Client: %s (%s)
Sender: %s <%s>
Subject: %s
`, time.Now().Format("Monday, 02 January 2006"),
		req.ClientCode, req.ClientName, req.SenderName, req.SenderEmail, req.SubjectLine)

	raw, err := s.extractor.Extract(ctx, setupPrompt,
		fmt.Sprintf("%s\n\nEmail content:\n\n%s", runContext, emailBody), 2000)
	if err != nil {
		return nil, runErr(fmt.Sprintf("Extraction failed: %v", err))
	}

	var brief model.Brief
	if err := json.Unmarshal([]byte(stripMarkdownJSON(raw)), &brief); err != nil {
		log.Printf("[setup] JSON error: %v", err)
		return nil, runErr(fmt.Sprintf("Invalid JSON: %v", err))
	}
	return &brief, nil
}

func (s *SetupService) fail(ctx context.Context, req model.SetupRequest, jobNumber string, results *model.SetupResults, cause error) error {
	log.Printf("[setup] %v", cause)
	if req.SenderEmail != "" {
		s.notifier.SendEmail(ctx, req.SenderEmail,
			mailer.FailureSubject(req.SubjectLine),
			mailer.BuildFailure(mailer.FailureNotice{
				Route:        "setup",
				SenderName:   req.SenderName,
				JobNumber:    jobNumber,
				SubjectLine:  req.SubjectLine,
				ErrorMessage: cause.Error(),
			}), nil)
	}
	return cause
}

func setupSteps(results *model.SetupResults) []mailer.StepLine {
	var steps []mailer.StepLine
	if results.Project != nil {
		steps = append(steps, mailer.StepLine{Label: "Job created", OK: results.Project.Success})
	}
	if results.Tracker != nil {
		steps = append(steps, mailer.StepLine{Label: "Tracker set up", OK: results.Tracker.Success})
	}
	if results.Channel != nil {
		steps = append(steps, mailer.StepLine{Label: "Teams channel created", OK: results.Channel.Success, Skipped: results.Channel.Skipped})
	}
	if results.TeamsPost != nil {
		steps = append(steps, mailer.StepLine{Label: "Brief posted", OK: results.TeamsPost.Success, Skipped: results.TeamsPost.Skipped})
	}
	return steps
}
