package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daybook-app/daybook/internal/domain"
)

// NarrateInput contains the parameters for producing both narrations.
type NarrateInput struct {
	Date domain.Date // Reference day (zero = today)
}

// NarrateOutput contains the reminder and the trailing-week summary.
type NarrateOutput struct {
	Reminder domain.Narration
	Summary  domain.Narration
	Date     domain.Date
}

// Narrate produces the assistant panel text. Generator failures never
// surface: they are logged and replaced by the deterministic fallback.
type Narrate struct {
	generator domain.TextGenerator // nil disables network narration
	store     *TaskStore
	clock     domain.Clock
	logger    domain.Logger
	recorder  domain.Recorder
}

// NewNarrate creates a new Narrate use case. generator may be nil.
func NewNarrate(store *TaskStore, generator domain.TextGenerator, clock domain.Clock, logger domain.Logger, recorder domain.Recorder) *Narrate {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if recorder == nil {
		recorder = domain.NopRecorder{}
	}
	return &Narrate{
		generator: generator,
		store:     store,
		clock:     clock,
		logger:    logger,
		recorder:  recorder,
	}
}

// Execute produces the reminder and summary for the reference day from the
// current store contents. Both requests run concurrently.
func (uc *Narrate) Execute(ctx context.Context, in NarrateInput) (*NarrateOutput, error) {
	day := in.Date
	if day.IsZero() {
		day = domain.DateOf(uc.clock.Now())
	}
	tasks := uc.store.Snapshot()

	out := &NarrateOutput{Date: day}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Reminder = uc.Reminder(ctx, tasks, day)
	}()
	go func() {
		defer wg.Done()
		out.Summary = uc.Summary(ctx, tasks, day)
	}()
	wg.Wait()

	return out, nil
}

// Reminder narrates the tasks of day. An empty day gets a fixed message
// without calling the generator.
func (uc *Narrate) Reminder(ctx context.Context, tasks []domain.Task, day domain.Date) domain.Narration {
	b := domain.BreakdownDay(tasks, day)
	if b.Total() == 0 {
		uc.recorder.Narration(domain.NarrationReminder, domain.SourceEmpty, 0)
		return domain.Narration{Text: domain.EmptyDayMessage, Source: domain.SourceEmpty}
	}
	return uc.generate(ctx, domain.NarrationReminder, b.Prompt(), b.Fallback)
}

// Summary narrates completion over the seven days ending on day.
func (uc *Narrate) Summary(ctx context.Context, tasks []domain.Task, day domain.Date) domain.Narration {
	w := domain.TrailingWeek(tasks, day)
	return uc.generate(ctx, domain.NarrationSummary, w.Prompt(), w.Fallback)
}

func (uc *Narrate) generate(ctx context.Context, kind domain.NarrationKind, prompt string, fallback func() string) domain.Narration {
	start := time.Now()
	n := domain.Narration{Source: domain.SourceFallback}

	switch {
	case uc.generator == nil:
		n.Text = fallback()
	default:
		text, err := uc.generator.Generate(ctx, prompt)
		if err != nil {
			uc.logFailure(kind, err)
			n.Text = fallback()
		} else {
			n.Text = text
			n.Source = domain.SourceAI
		}
	}

	uc.recorder.Narration(kind, n.Source, time.Since(start))
	return n
}

func (uc *Narrate) logFailure(kind domain.NarrationKind, err error) {
	msg := fmt.Sprintf("%s: using fallback: %v", kind, err)
	switch {
	case errors.Is(err, domain.ErrNoAPIKey), errors.Is(err, context.Canceled):
		uc.logger.Debug("narration", msg)
	default:
		uc.logger.Warn("narration", msg)
	}
}
