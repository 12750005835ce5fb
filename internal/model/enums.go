package model

// Stage is the pipeline stage of a job. The record store treats it as free
// text, so unrecognized values round-trip untouched; placeholder values are
// never written back.
type Stage string

const (
	StageTriage   Stage = "Triage"
	StageLive     Stage = "Live"
	StageWrap     Stage = "Wrap"
	StageArchived Stage = "Archived"
	StageUnknown  Stage = "Unknown"
)

var ValidStages = []Stage{StageTriage, StageLive, StageWrap, StageArchived}

// IsPlaceholder reports whether the value must not be written to the store.
func (s Stage) IsPlaceholder() bool {
	return s == "" || s == StageUnknown
}

// Status is the working status of a job. Same free-text tolerance as Stage.
type Status string

const (
	StatusIncoming   Status = "Incoming"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusCompleted  Status = "Completed"
	StatusUnknown    Status = "Unknown"
)

var ValidStatuses = []Status{StatusIncoming, StatusInProgress, StatusOnHold, StatusCompleted}

func (s Status) IsPlaceholder() bool {
	return s == "" || s == StatusUnknown
}

// SpendType classifies a tracker entry.
type SpendType string

const (
	SpendProjectBudget SpendType = "Project budget"
	SpendExtraBudget   SpendType = "Extra budget"
	SpendOnUs          SpendType = "On us"
)
