package entities

import "time"

// Stage is a point in the verification workflow
type Stage string

// Workflow stages, in the order a successful run reaches them
const (
	StageStart                Stage = "start"
	StageCopied               Stage = "copied"
	StageSnapshotBuilt        Stage = "snapshot_built"
	StageContextSnapshotBuilt Stage = "context_snapshot_built"
	StageArtifactsPlaced      Stage = "artifacts_placed"
	StageVerified             Stage = "verified"
	StageFailed               Stage = "failed"
	StageInterrupted          Stage = "interrupted"
)

// IsTerminal reports whether no further transition can happen from s
func (s Stage) IsTerminal() bool {
	return s == StageVerified || s == StageFailed || s == StageInterrupted
}

// StepResult records one completed or failed step
type StepResult struct {
	Stage    Stage         `json:"stage"`
	Command  string        `json:"command,omitempty"`
	Args     []string      `json:"args,omitempty"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// VerificationReport is the outcome of a whole verification run
type VerificationReport struct {
	Bundle        *Bundle       `json:"bundle"`
	Branding      *Branding     `json:"branding"`
	Platform      string        `json:"platform"`
	Stage         Stage         `json:"stage"`
	LastGoodStage Stage         `json:"last_good_stage"`
	ExitCode      int           `json:"exit_code"`
	Steps         []StepResult  `json:"steps"`
	Blobs         []Blob        `json:"blobs,omitempty"`
	Archive       string        `json:"archive,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	Error         error         `json:"-"`
}

// Success returns true when the run reached the verified stage
func (r *VerificationReport) Success() bool {
	return r.Stage == StageVerified
}

// Interrupted returns true when an operator signal stopped the run
func (r *VerificationReport) Interrupted() bool {
	return r.Stage == StageInterrupted
}
