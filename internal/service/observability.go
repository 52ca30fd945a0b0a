package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"
)

// UseCaseEvent is one finished service operation: a load, an edit, a
// reorder callback or a save.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Success reports whether the operation returned without error.
func (e UseCaseEvent) Success() bool { return e.Err == nil }

// UseCaseObserver receives an event after every service operation.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// ObserverFunc adapts a function to UseCaseObserver.
type ObserverFunc func(ctx context.Context, event UseCaseEvent)

func (f ObserverFunc) ObserveUseCase(ctx context.Context, event UseCaseEvent) { f(ctx, event) }

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type multiObserver []UseCaseObserver

func (m multiObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

// combineObservers drops nil entries and fans out to the rest.
func combineObservers(observers ...UseCaseObserver) UseCaseObserver {
	var live multiObserver
	for _, o := range observers {
		if o != nil {
			live = append(live, o)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

// reorderUseCases fire on every drag hover, so they are logged at debug.
var reorderUseCases = map[string]bool{
	"reorder-phases": true,
	"reorder-items":  true,
	"move-item":      true,
}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes events to w as slog text records. Failures
// are logged at error level and drag callbacks at debug.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &logUseCaseObserver{logger: slog.New(handler).With("component", "roadmap")}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []any{"use_case", event.Name, "duration_ms", event.Duration.Milliseconds()}

	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, k, event.Fields[k])
	}

	switch {
	case event.Err != nil:
		o.logger.ErrorContext(ctx, "use case failed", append(attrs, "error", event.Err.Error())...)
	case reorderUseCases[event.Name]:
		o.logger.DebugContext(ctx, "use case", attrs...)
	default:
		o.logger.InfoContext(ctx, "use case", attrs...)
	}
}

// observe reports a finished operation. Defer it with a pointer to the
// named error result so the outcome is read after the body returns.
func observe(ctx context.Context, o UseCaseObserver, name string, startedAt time.Time, err *error, fields map[string]any) {
	var e error
	if err != nil {
		e = *err
	}
	o.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       e,
		Fields:    fields,
	})
}

func (s *roadmapService) observe(ctx context.Context, name string, startedAt time.Time, err *error, fields map[string]any) {
	observe(ctx, s.observer, name, startedAt, err, fields)
}
