// Package production drives the lesson pipeline: it selects pending lessons from the content plan,
// produces and publishes each one, and records the result after every attempt.
package production

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/plan"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/google/uuid"
)

// Orchestrator runs one batch of lesson production against the content plan
type Orchestrator struct {
	cfg      config.RunConfig
	store    PlanStore
	producer LessonProducer
	waiter   Waiter
	newRunID func() string
}

// Summary describes what a run did
type Summary struct {
	RunID     string
	Selected  int
	Completed int
	Failed    int
	Remaining int
	Outcomes  []Outcome
}

// NewOrchestrator creates an orchestrator. A nil waiter waits in real time.
func NewOrchestrator(cfg config.RunConfig, store PlanStore, producer LessonProducer, waiter Waiter) *Orchestrator {
	if waiter == nil {
		waiter = SleepWaiter{}
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		producer: producer,
		waiter:   waiter,
		newRunID: uuid.NewString,
	}
}

// Run produces up to QuotaPerRun pending lessons in plan order. The plan is saved after every
// attempt. A *FatalSetupError is returned when the workspace or plan is unusable; ErrLessonsFailed
// when the run finished with at least one failed lesson. Cleanup runs in every case.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: o.newRunID()}
	utils.LogInfo("🚀 Starting run %s", summary.RunID)
	defer o.cleanup()

	if err := utils.EnsureDir(o.cfg.WorkspaceDir); err != nil {
		return summary, &FatalSetupError{Stage: "workspace", Err: err}
	}
	utils.LogVerbose("📁 Workspace: %s", o.cfg.WorkspaceDir)

	p, err := o.store.LoadOrCreate(ctx)
	if err != nil {
		return summary, &FatalSetupError{Stage: "plan", Err: err}
	}

	pending := p.PendingIndexes()
	if len(pending) == 0 {
		utils.LogSuccess("🎉 All %d lessons produced, nothing to do", len(p.Lessons))
		return summary, nil
	}

	selected := pending
	if o.cfg.QuotaPerRun > 0 && len(selected) > o.cfg.QuotaPerRun {
		selected = selected[:o.cfg.QuotaPerRun]
	}
	summary.Selected = len(selected)
	summary.Remaining = len(pending)
	utils.LogInfo("%d pending lessons, producing %d this run", len(pending), len(selected))

	for n, idx := range selected {
		if n > 0 {
			utils.LogInfo("⏳ Waiting %s before the next lesson", o.cfg.InterLessonCooldown)
			if err := o.waiter.Wait(ctx, o.cfg.InterLessonCooldown); err != nil {
				return summary, fmt.Errorf("run interrupted: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run interrupted: %w", err)
		}

		lesson := p.Lessons[idx]
		outcome := o.attempt(ctx, lesson)
		if outcome.OK() {
			if err := p.MarkComplete(idx, outcome.PublishedID); err != nil {
				outcome = Failure(err)
			}
		}
		summary.Outcomes = append(summary.Outcomes, outcome)

		if outcome.OK() {
			summary.Completed++
			summary.Remaining--
			utils.LogSuccess("✅ Completed lesson %q (%s)", lesson.Title, outcome.PublishedID)
		} else {
			summary.Failed++
			utils.LogWarning("⚠️ Lesson %q failed, it stays pending: %v", lesson.Title, outcome.Err)
		}

		if err := o.store.Save(p); err != nil {
			return summary, &FatalSetupError{Stage: "save", Err: err}
		}
		utils.LogVerbose("📦 Content plan updated")
	}

	utils.LogInfo("Run %s finished: %d completed, %d failed, %d lessons still pending",
		summary.RunID, summary.Completed, summary.Failed, summary.Remaining)
	if summary.Failed > 0 {
		return summary, ErrLessonsFailed
	}
	return summary, nil
}

// attempt runs one lesson and never lets a failure escape the lesson boundary
func (o *Orchestrator) attempt(ctx context.Context, lesson plan.Lesson) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogDebug("panic while producing %q:\n%s", lesson.Title, debug.Stack())
			outcome = Failure(fmt.Errorf("panic: %v", r))
		}
	}()

	id, err := o.producer.Produce(ctx, lesson)
	if err != nil {
		return Failure(err)
	}
	if id == "" {
		return Failure(ErrNotPublished)
	}
	return Success(id)
}

// cleanup removes transient files from the workspace; failures are only logged
func (o *Orchestrator) cleanup() {
	if len(o.cfg.CleanupPatterns) == 0 {
		return
	}
	removed, err := utils.RemoveMatching(o.cfg.WorkspaceDir, o.cfg.CleanupPatterns)
	for _, path := range removed {
		utils.LogVerbose("🧹 Deleted: %s", filepath.Base(path))
	}
	if err != nil {
		utils.LogWarning("Could not clean up workspace: %v", err)
	}
}

// IsFatal reports whether err aborted the run before lessons could be processed or persisted
func IsFatal(err error) bool {
	var fatal *FatalSetupError
	return errors.As(err, &fatal)
}
