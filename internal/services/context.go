package services

import "context"

type contextKey string

const (
	studyKey     contextKey = "study"
	interviewKey contextKey = "interview"
)

// WithStudy annotates context with the study identifier being scheduled.
func WithStudy(ctx context.Context, study string) context.Context {
	if study == "" {
		return ctx
	}
	return context.WithValue(ctx, studyKey, study)
}

// StudyFromContext returns the study identifier if present.
func StudyFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(studyKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithInterview annotates context with the interview name being exported.
func WithInterview(ctx context.Context, interview string) context.Context {
	if interview == "" {
		return ctx
	}
	return context.WithValue(ctx, interviewKey, interview)
}

// InterviewFromContext returns the interview name if present.
func InterviewFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(interviewKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
