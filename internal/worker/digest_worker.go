package worker

import (
	"context"
	"log"

	"github.com/dotworkers/api/internal/service"
	"github.com/hibiken/asynq"
)

// TaskTypeTodoDigest is the scheduled daily TO DO digest task.
const TaskTypeTodoDigest = "digest:todo"

// NewTodoDigestTask creates a digest task. The payload is empty; the digest
// always covers "today" at execution time.
func NewTodoDigestTask() *asynq.Task {
	return asynq.NewTask(TaskTypeTodoDigest, nil)
}

// DigestWorker runs the scheduled digest send.
type DigestWorker struct {
	digestService *service.DigestService
}

// NewDigestWorker creates a new digest worker
func NewDigestWorker(digestService *service.DigestService) *DigestWorker {
	return &DigestWorker{digestService: digestService}
}

// ProcessTask handles the scheduled digest task. Errors are returned so
// asynq retries; an empty day is a success, not a retry.
func (w *DigestWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log.Printf("Starting scheduled TO DO digest")

	result, err := w.digestService.SendTodoDigest(ctx)
	if err != nil {
		log.Printf("Digest failed: %v", err)
		return err
	}

	if !result.Sent {
		log.Printf("Digest skipped: %s", result.Reason)
		return nil
	}

	log.Printf("Digest sent to %s", result.To)
	return nil
}
