package service

import (
	"fmt"
	"time"

	"legaldocs-backend/models"
)

// ErrInvalidTransition is returned when a document cannot move through the
// requested step from its current position.
type ErrInvalidTransition struct {
	Step   models.PipelineStep
	Status models.DocumentStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("document with status %q cannot complete step %q", e.Status, e.Step)
}

// Advance records completion of step on doc: status moves to the step's exit
// status and current_step moves to the next step in order. All pipeline
// status changes flow through here.
func Advance(doc *models.Document, step models.PipelineStep) error {
	exit, ok := step.ExitStatus()
	if !ok {
		return fmt.Errorf("unknown pipeline step %q", step)
	}

	if entry, required := step.EntryStatus(); required && doc.Status != entry {
		return &ErrInvalidTransition{Step: step, Status: doc.Status}
	}

	doc.Status = exit
	if next, ok := models.NextStep(step); ok {
		doc.CurrentStep = next
	} else {
		doc.CurrentStep = step
	}

	if step == models.StepPublish {
		now := time.Now().UTC()
		doc.PublishedAt = &now
	}

	return nil
}

// StepCompleted reports whether status is at or past the step's exit status
// in pipeline order. Rejected documents report false for every step.
func StepCompleted(status models.DocumentStatus, step models.PipelineStep) bool {
	statusIdx, stepIdx := -1, -1
	for i, s := range models.StepOrder {
		if exit, _ := s.ExitStatus(); exit == status {
			statusIdx = i
		}
		if s == step {
			stepIdx = i
		}
	}
	return statusIdx >= 0 && stepIdx >= 0 && statusIdx >= stepIdx
}

// Reject marks a document rejected at its current position. The document
// stays at current_step so the rejection is attributable to a stage.
func Reject(doc *models.Document) {
	doc.Status = models.StatusRejected
}
