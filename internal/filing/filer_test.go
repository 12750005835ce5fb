package filing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/model"
)

// fakeDropbox is an in-memory Store.
type fakeDropbox struct {
	transferFiles []client.DropboxEntry
	listErr       error
	moveErr       error
	uploadErr     error

	moves   [][2]string
	uploads map[string]string
	folders []string
}

func (f *fakeDropbox) ListFolder(ctx context.Context, path string) ([]client.DropboxEntry, error) {
	return f.transferFiles, f.listErr
}

func (f *fakeDropbox) Move(ctx context.Context, fromPath, toPath string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, [2]string{fromPath, toPath})
	return nil
}

func (f *fakeDropbox) Upload(ctx context.Context, path, content string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	f.uploads[path] = content
	return nil
}

func (f *fakeDropbox) CreateFolder(ctx context.Context, path string) error {
	f.folders = append(f.folders, path)
	return nil
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) ArchiveMessage(ctx context.Context, key, content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://archive.test/" + key, nil
}

func (f *fakeArchive) IsConfigured() bool { return true }

func filingJob() model.FilingJob {
	return model.FilingJob{
		JobNumber:       "TOW 091",
		JobName:         "Retention Campaign",
		ClientCode:      "TOW",
		AttachmentNames: []string{"deck.pdf"},
		Route:           "update",
		SenderName:      "Jess Woods",
		SenderEmail:     "jess@tower.co.nz",
		Subject:         "Creative approved",
	}
}

func TestFileAttachments_MovesAndStripsTimestamp(t *testing.T) {
	store := &fakeDropbox{
		transferFiles: []client.DropboxEntry{
			{Tag: "file", Name: "20260825-091500_deck.pdf"},
			{Tag: "folder", Name: "deck.pdf"}, // folders never match
		},
	}
	filer := NewFiler(store, nil)

	result := filer.FileAttachments(context.Background(), filingJob())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Workings", result.Destination)
	require.Len(t, store.moves, 1)
	assert.Equal(t, "/File transfer/20260825-091500_deck.pdf", store.moves[0][0])
	assert.Equal(t, "/Clients/Tower/Active/TOW 091 - Retention Campaign/Workings/deck.pdf", store.moves[0][1])
	assert.Contains(t, result.FolderURL, "dropbox.com/home")
}

func TestFileAttachments_SetupRouteFilesToBriefs(t *testing.T) {
	store := &fakeDropbox{transferFiles: []client.DropboxEntry{{Tag: "file", Name: "brief.pdf"}}}
	filer := NewFiler(store, nil)

	job := filingJob()
	job.Route = "setup"
	job.AttachmentNames = []string{"brief.pdf"}

	result := filer.FileAttachments(context.Background(), job)
	assert.Equal(t, "Briefs", result.Destination)
}

func TestFileAttachments_StoredFolderURLWinsOverBuiltPath(t *testing.T) {
	store := &fakeDropbox{transferFiles: []client.DropboxEntry{{Tag: "file", Name: "deck.pdf"}}}
	filer := NewFiler(store, nil)

	// no job name resolved yet; the stored URL carries the run
	job := filingJob()
	job.JobName = ""
	job.FilesURL = "https://www.dropbox.com/home/Clients/Tower/Active/TOW 091 - Retention Campaign"

	result := filer.FileAttachments(context.Background(), job)

	assert.True(t, result.Success)
	require.Len(t, store.moves, 1)
	assert.Equal(t, "/Clients/Tower/Active/TOW 091 - Retention Campaign/Workings/deck.pdf", store.moves[0][1])
}

func TestFileAttachments_MissingFileIsAWarning(t *testing.T) {
	store := &fakeDropbox{
		transferFiles: []client.DropboxEntry{{Tag: "file", Name: "deck.pdf"}},
	}
	filer := NewFiler(store, nil)

	job := filingJob()
	job.AttachmentNames = []string{"deck.pdf", "ghost.pdf"}

	result := filer.FileAttachments(context.Background(), job)

	// partial success: one moved, one warned
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ghost.pdf")
}

func TestFileAttachments_NothingMovedIsAFailure(t *testing.T) {
	store := &fakeDropbox{transferFiles: nil}
	filer := NewFiler(store, nil)

	result := filer.FileAttachments(context.Background(), filingJob())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "deck.pdf")
}

func TestFileAttachments_ListFailureIsAFailure(t *testing.T) {
	store := &fakeDropbox{listErr: errors.New("dropbox 503")}
	filer := NewFiler(store, nil)

	result := filer.FileAttachments(context.Background(), filingJob())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "File transfer")
}

func TestFileAttachments_UnknownClientCode(t *testing.T) {
	filer := NewFiler(&fakeDropbox{}, nil)

	job := filingJob()
	job.ClientCode = "XYZ"
	job.JobNumber = "XYZ 001"

	result := filer.FileAttachments(context.Background(), job)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "XYZ")
}

func TestFileAttachments_NothingToFile(t *testing.T) {
	filer := NewFiler(&fakeDropbox{}, nil)

	job := filingJob()
	job.AttachmentNames = nil
	job.EmailContent = ""

	result := filer.FileAttachments(context.Background(), job)
	assert.True(t, result.Success)
	assert.False(t, result.Filed)
	assert.Equal(t, "No attachments to file", result.Message)
}

func TestFileAttachments_SavesEmlAndMirrorsToArchive(t *testing.T) {
	store := &fakeDropbox{transferFiles: []client.DropboxEntry{{Tag: "file", Name: "deck.pdf"}}}
	archive := &fakeArchive{}
	filer := NewFiler(store, archive)

	job := filingJob()
	job.EmailContent = "<p>Creative is approved.</p>"
	job.Recipients = []string{"dot@hunch.co.nz"}

	result := filer.FileAttachments(context.Background(), job)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Count)
	require.Len(t, store.uploads, 1)
	for path, content := range store.uploads {
		assert.Contains(t, path, "Email from Jess - ")
		assert.Contains(t, content, "From: Jess Woods <jess@tower.co.nz>")
		assert.Contains(t, content, "Subject: Creative approved")
	}
	require.Len(t, archive.keys, 1)
	assert.Contains(t, archive.keys[0], "TOW091/")
	assert.Contains(t, archive.keys[0], ".eml")
}

func TestFileAttachments_ArchiveKeysNeverCollide(t *testing.T) {
	store := &fakeDropbox{}
	archive := &fakeArchive{}
	filer := NewFiler(store, archive)

	// two emails from the same sender on the same day
	job := filingJob()
	job.AttachmentNames = nil
	job.EmailContent = "<p>First.</p>"
	filer.FileAttachments(context.Background(), job)
	job.EmailContent = "<p>Second.</p>"
	filer.FileAttachments(context.Background(), job)

	require.Len(t, archive.keys, 2)
	assert.NotEqual(t, archive.keys[0], archive.keys[1])
}

func TestFileAttachments_ArchiveMissIsAWarning(t *testing.T) {
	store := &fakeDropbox{}
	archive := &fakeArchive{err: errors.New("bucket unavailable")}
	filer := NewFiler(store, archive)

	job := filingJob()
	job.AttachmentNames = nil
	job.EmailContent = "<p>Body.</p>"

	result := filer.FileAttachments(context.Background(), job)

	assert.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Archive failed")
}

func TestCreateJobFolder(t *testing.T) {
	store := &fakeDropbox{}
	filer := NewFiler(store, nil)

	url, err := filer.CreateJobFolder(context.Background(), "TOW", "TOW 092", "Winter Push")
	require.NoError(t, err)
	assert.Equal(t, "https://www.dropbox.com/home/Clients/Tower/Active/TOW 092 - Winter Push", url)

	require.Len(t, store.folders, 4)
	assert.Equal(t, "/Clients/Tower/Active/TOW 092 - Winter Push", store.folders[0])
	assert.Equal(t, "/Clients/Tower/Active/TOW 092 - Winter Push/Briefs", store.folders[1])
	assert.Equal(t, "/Clients/Tower/Active/TOW 092 - Winter Push/Finals", store.folders[2])
	assert.Equal(t, "/Clients/Tower/Active/TOW 092 - Winter Push/Workings", store.folders[3])
}

func TestEmlFilename(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "Email from Jess - 20 Aug 2026.eml",
		EmlFilename("Jess Woods", "2026-08-20T14:30:00Z", now))
	// unparseable date falls back to today
	assert.Equal(t, "Email from Jess - 25 Aug 2026.eml",
		EmlFilename("Jess Woods", "yesterday-ish", now))
	assert.Equal(t, "Email from Unknown - 25 Aug 2026.eml",
		EmlFilename("", "", now))
}
