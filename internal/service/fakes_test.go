package service

import (
	"context"
	"errors"
	"time"

	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/model"
)

// fakeStore is an in-memory RecordStore that records what the pipelines
// write to it.
type fakeStore struct {
	messageBody    string
	messageBodyErr error
	job            *model.JobRecord
	jobErr         error
	clientRecord   *model.ClientRecord
	clientErr      error

	jobNumber    string
	teamID       string
	reserveErr   error
	createJobErr error
	trackerErr   error
	updateErr    error
	patchErr     error

	dueJobs    model.DigestJobs
	dueJobsErr error
	meetings   model.DigestMeetings
	clientJobs model.WipJobs

	createdUpdates []string
	createdJobs    []model.NewJob
	trackers       []model.NewTracker
	patches        []client.JobPatch
}

func (f *fakeStore) GetMessageBody(ctx context.Context, internetMessageID string) (string, error) {
	return f.messageBody, f.messageBodyErr
}

func (f *fakeStore) GetJob(ctx context.Context, jobNumber string) (*model.JobRecord, error) {
	if f.jobErr != nil {
		return nil, f.jobErr
	}
	if f.job == nil {
		return nil, errors.New("record not found")
	}
	return f.job, nil
}

func (f *fakeStore) CreateUpdate(ctx context.Context, jobRecordID, updateText, updateDue string) (string, error) {
	if f.updateErr != nil {
		return "", f.updateErr
	}
	f.createdUpdates = append(f.createdUpdates, updateText)
	return "recUpd001", nil
}

func (f *fakeStore) PatchJob(ctx context.Context, jobRecordID string, patch client.JobPatch) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patches = append(f.patches, patch)
	return nil
}

func (f *fakeStore) GetClient(ctx context.Context, clientCode string) (*model.ClientRecord, error) {
	if f.clientErr != nil {
		return nil, f.clientErr
	}
	if f.clientRecord == nil {
		return nil, errors.New("client not found")
	}
	return f.clientRecord, nil
}

func (f *fakeStore) ReserveJobNumber(ctx context.Context, clientCode string) (string, string, string, error) {
	if f.reserveErr != nil {
		return "", "", "", f.reserveErr
	}
	return f.jobNumber, "recClient001", f.teamID, nil
}

func (f *fakeStore) CreateJob(ctx context.Context, job model.NewJob) (string, error) {
	if f.createJobErr != nil {
		return "", f.createJobErr
	}
	f.createdJobs = append(f.createdJobs, job)
	return "recProj001", nil
}

func (f *fakeStore) CreateTracker(ctx context.Context, tracker model.NewTracker) (string, error) {
	if f.trackerErr != nil {
		return "", f.trackerErr
	}
	f.trackers = append(f.trackers, tracker)
	return "recTrk001", nil
}

func (f *fakeStore) ListDueJobs(ctx context.Context, today time.Time) (model.DigestJobs, error) {
	return f.dueJobs, f.dueJobsErr
}

func (f *fakeStore) ListMeetings(ctx context.Context, today time.Time) (model.DigestMeetings, error) {
	return f.meetings, nil
}

func (f *fakeStore) ListClientJobs(ctx context.Context, clientCode string) (model.WipJobs, error) {
	return f.clientJobs, nil
}

// fakeExtractor returns a canned model response.
type fakeExtractor struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeExtractor) Extract(ctx context.Context, system, user string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.response, f.err
}

func (f *fakeExtractor) IsConfigured() bool { return true }

// fakeNotifier records outgoing comms and never fails unless told to.
type fakeNotifier struct {
	teamsFails   bool
	emailFails   bool
	channelFails bool

	teamsPosts []string
	emails     []sentEmail
	channels   []string
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (f *fakeNotifier) PostChannelMessage(ctx context.Context, teamID, channelID, subject, body, jobNumber string) *model.StepResult {
	if teamID == "" || channelID == "" {
		return &model.StepResult{Success: false, Skipped: true}
	}
	if f.teamsFails {
		return &model.StepResult{Success: false, Error: "webhook returned 500"}
	}
	f.teamsPosts = append(f.teamsPosts, body)
	return &model.StepResult{Success: true}
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, htmlBody string, original *model.OriginalEmail) *model.StepResult {
	if to == "" {
		return &model.StepResult{Success: false, Skipped: true}
	}
	if f.emailFails {
		return &model.StepResult{Success: false, Error: "webhook returned 500"}
	}
	f.emails = append(f.emails, sentEmail{to: to, subject: subject, body: htmlBody})
	return &model.StepResult{Success: true}
}

func (f *fakeNotifier) ProvisionChannel(ctx context.Context, teamID, channelName string) *model.ChannelResult {
	if f.channelFails {
		return &model.ChannelResult{Success: false, Error: "webhook returned 500"}
	}
	f.channels = append(f.channels, channelName)
	return &model.ChannelResult{Success: true, ChannelID: "chan001", ChannelURL: "https://teams.example.com/chan001"}
}

// fakeFiler returns a canned filing outcome.
type fakeFiler struct {
	result    *model.FilingResult
	folderURL string
	folderErr error
	filed     []model.FilingJob
}

func (f *fakeFiler) FileAttachments(ctx context.Context, job model.FilingJob) *model.FilingResult {
	f.filed = append(f.filed, job)
	if f.result != nil {
		return f.result
	}
	return &model.FilingResult{Success: true, Filed: true, Count: len(job.AttachmentNames), FilesMoved: job.AttachmentNames}
}

func (f *fakeFiler) CreateJobFolder(ctx context.Context, clientCode, jobNumber, jobName string) (string, error) {
	if f.folderErr != nil {
		return "", f.folderErr
	}
	return f.folderURL, nil
}

// fakeLinks builds predictable deep links.
type fakeLinks struct{}

func (fakeLinks) JobLink(jobNumber, email, clientCode, firstName, accessLevel string) string {
	return "https://hub.test/job/" + jobNumber
}

func (fakeLinks) UpdateLink(jobNumber string) string {
	return "https://hub.test/?view=wip&job=" + jobNumber
}
