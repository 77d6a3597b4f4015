package logging

import (
	"context"
	"log/slog"

	"avexport/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStudy is the standardized structured logging key for study identifiers.
	FieldStudy = "study"
	// FieldInterview is the standardized structured logging key for interview names.
	FieldInterview = "interview"
	// FieldTag is the standardized structured logging key for artifact tags.
	FieldTag = "tag"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if study, ok := services.StudyFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStudy, study))
	}
	if interview, ok := services.InterviewFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldInterview, interview))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
