package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/mailer"
	"github.com/dotworkers/api/internal/model"
	"github.com/google/uuid"
)

// DigestService builds and sends the daily TO DO digest and on-demand
// client WIP emails.
type DigestService struct {
	store     RecordStore
	notifier  Notifier
	links     LinkBuilder
	recipient string
	firstName string
}

// NewDigestService creates the digest sender.
func NewDigestService(store RecordStore, notifier Notifier, links LinkBuilder, cfg *config.DigestConfig) *DigestService {
	return &DigestService{
		store:     store,
		notifier:  notifier,
		links:     links,
		recipient: cfg.Recipient,
		firstName: cfg.FirstName,
	}
}

// SendTodoDigest builds and sends the daily TO DO email. An empty day sends
// nothing and reports why.
func (s *DigestService) SendTodoDigest(ctx context.Context) (*model.TodoResponse, error) {
	runID := uuid.NewString()[:8]
	log.Printf("[todo] === BUILDING TO DO EMAIL === (run %s)", runID)

	if s.recipient == "" {
		return nil, runErr("TODO_RECIPIENT not configured")
	}

	now := time.Now()

	log.Printf("[todo] Fetching jobs...")
	jobs, err := s.store.ListDueJobs(ctx, now)
	if err != nil {
		return nil, runErr(fmt.Sprintf("Could not fetch due jobs: %v", err))
	}

	log.Printf("[todo] Fetching meetings...")
	meetings, err := s.store.ListMeetings(ctx, now)
	if err != nil {
		return nil, runErr(fmt.Sprintf("Could not fetch meetings: %v", err))
	}

	totalItems := jobs.Total() + len(meetings.Today) + len(meetings.Tomorrow)
	if totalItems == 0 {
		log.Printf("[todo] Nothing to send - no jobs or meetings")
		return &model.TodoResponse{
			Success: true,
			Sent:    false,
			Reason:  "No jobs or meetings to report",
		}, nil
	}

	log.Printf("[todo] Generating job links...")
	jobLinks := map[string]string{}
	for _, bucket := range [][]model.DigestJob{jobs.Today, jobs.Tomorrow, jobs.Week} {
		for _, job := range bucket {
			if job.JobNumber != "" {
				jobLinks[job.JobNumber] = s.links.JobLink(job.JobNumber, s.recipient, "ALL", s.firstName, "Full")
			}
		}
	}
	log.Printf("[todo] Generated %d job links", len(jobLinks))

	_, nextDayLabel := NextWorkday(now)

	log.Printf("[todo] Building email HTML...")
	html := mailer.BuildTodoEmail(jobs, meetings, jobLinks, nextDayLabel, s.firstName, WeekLabel(now))

	log.Printf("[todo] Sending to %s...", s.recipient)
	result := s.notifier.SendEmail(ctx, s.recipient, mailer.TodoSubject(now), html, nil)
	if !result.Success {
		return nil, runErr(fmt.Sprintf("Digest send failed: %s", result.Error))
	}

	return &model.TodoResponse{
		Success: true,
		Sent:    true,
		To:      s.recipient,
		Jobs: map[string]int{
			"today":    len(jobs.Today),
			"tomorrow": len(jobs.Tomorrow),
			"week":     len(jobs.Week),
		},
		Meetings: map[string]int{
			"today":    len(meetings.Today),
			"tomorrow": len(meetings.Tomorrow),
		},
	}, nil
}

// SendWipEmails builds and sends a WIP email to each recipient, with job
// links minted per recipient so access stays personal.
func (s *DigestService) SendWipEmails(ctx context.Context, req model.WipEmailRequest) (*model.WipResponse, error) {
	log.Printf("[wip-email] === BUILDING WIP EMAIL ===")
	log.Printf("[wip-email] Fetching jobs for %s...", req.ClientCode)

	jobs, err := s.store.ListClientJobs(ctx, req.ClientCode)
	if err != nil {
		return nil, runErr(fmt.Sprintf("Could not fetch jobs: %v", err))
	}
	if jobs.Total() == 0 {
		log.Printf("[wip-email] No active jobs to send")
		return nil, businessErr(fmt.Sprintf("No active jobs found for %s", req.ClientCode))
	}
	log.Printf("[wip-email] Found %d jobs", jobs.Total())

	allJobs := make([]model.DigestJob, 0, jobs.Total())
	allJobs = append(allJobs, jobs.WithUs...)
	allJobs = append(allJobs, jobs.WithYou...)
	allJobs = append(allJobs, jobs.OnHold...)
	allJobs = append(allJobs, jobs.Upcoming...)

	var sendResults []model.WipSendResult
	for _, recipient := range req.Recipients {
		firstName := recipient.FirstName
		if firstName == "" {
			firstName = "there"
		}
		accessLevel := recipient.AccessLevel
		if accessLevel == "" {
			accessLevel = "Client WIP"
		}

		log.Printf("[wip-email] Building for %s (%s)...", recipient.Email, accessLevel)

		jobLinks := map[string]string{}
		for _, job := range allJobs {
			if job.JobNumber != "" {
				jobLinks[job.JobNumber] = s.links.JobLink(job.JobNumber, recipient.Email, req.ClientCode, firstName, accessLevel)
			}
		}

		html := mailer.BuildWipEmail(jobs, jobLinks, firstName, req.CustomNote)

		result := s.notifier.SendEmail(ctx, recipient.Email, mailer.WipSubject, html, nil)
		sendResults = append(sendResults, model.WipSendResult{
			Email:   recipient.Email,
			Success: result.Success,
			Error:   result.Error,
		})
	}

	sent := 0
	for _, r := range sendResults {
		if r.Success {
			sent++
		}
	}
	failed := len(sendResults) - sent
	log.Printf("[wip-email] Done: %d/%d sent", sent, len(sendResults))

	return &model.WipResponse{
		Success:   failed == 0,
		Sent:      sent,
		Failed:    failed,
		TotalJobs: jobs.Total(),
		Results:   sendResults,
	}, nil
}
