package service

import (
	"context"
	"time"

	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/model"
)

// RecordStore is the slice of the record store the pipelines use.
type RecordStore interface {
	GetMessageBody(ctx context.Context, internetMessageID string) (string, error)
	GetJob(ctx context.Context, jobNumber string) (*model.JobRecord, error)
	CreateUpdate(ctx context.Context, jobRecordID, updateText, updateDue string) (string, error)
	PatchJob(ctx context.Context, jobRecordID string, patch client.JobPatch) error
	GetClient(ctx context.Context, clientCode string) (*model.ClientRecord, error)
	ReserveJobNumber(ctx context.Context, clientCode string) (jobNumber, clientRecordID, teamID string, err error)
	CreateJob(ctx context.Context, job model.NewJob) (string, error)
	CreateTracker(ctx context.Context, tracker model.NewTracker) (string, error)
	ListDueJobs(ctx context.Context, today time.Time) (model.DigestJobs, error)
	ListMeetings(ctx context.Context, today time.Time) (model.DigestMeetings, error)
	ListClientJobs(ctx context.Context, clientCode string) (model.WipJobs, error)
}

// Extractor runs a structured extraction against the model.
type Extractor interface {
	Extract(ctx context.Context, system, user string, maxTokens int) (string, error)
	IsConfigured() bool
}

// Notifier delivers channel posts and emails. Its methods report, never
// error; the pipelines fold results into their step bookkeeping.
type Notifier interface {
	PostChannelMessage(ctx context.Context, teamID, channelID, subject, body, jobNumber string) *model.StepResult
	SendEmail(ctx context.Context, to, subject, htmlBody string, original *model.OriginalEmail) *model.StepResult
	ProvisionChannel(ctx context.Context, teamID, channelName string) *model.ChannelResult
}

// AttachmentFiler moves attachments into job folders.
type AttachmentFiler interface {
	FileAttachments(ctx context.Context, job model.FilingJob) *model.FilingResult
	CreateJobFolder(ctx context.Context, clientCode, jobNumber, jobName string) (string, error)
}

// LinkBuilder mints authenticated Hub deep links.
type LinkBuilder interface {
	JobLink(jobNumber, email, clientCode, firstName, accessLevel string) string
	UpdateLink(jobNumber string) string
}
