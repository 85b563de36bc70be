package utils

import (
	"context"
	"errors"

	"dataprep/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrJobIDNotFound      = errors.New("jobID not found in context")
	ErrJobIDNotString     = errors.New("jobID in context is not a string")
	ErrDatasetNotFound    = errors.New("dataset not found in context")
	ErrDatasetNotString   = errors.New("dataset in context is not a string")
	ErrSubjectNotFound    = errors.New("subject not found in context")
	ErrSubjectNotString   = errors.New("subject in context is not a string")
)

// GetRequestIDFromContext retrieves the HTTP request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// GetJobIDFromContext retrieves the preprocessing job ID from the context.
func GetJobIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.JobIDKey)
	if val == nil {
		return "", ErrJobIDNotFound
	}
	jobID, ok := val.(string)
	if !ok {
		return "", ErrJobIDNotString
	}
	return jobID, nil
}

// GetDatasetFromContext retrieves the dataset (collection) name from the context.
func GetDatasetFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.DatasetKey)
	if val == nil {
		return "", ErrDatasetNotFound
	}
	dataset, ok := val.(string)
	if !ok {
		return "", ErrDatasetNotString
	}
	return dataset, nil
}

// GetSubjectFromContext retrieves the authenticated API subject from the context.
func GetSubjectFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.SubjectKey)
	if val == nil {
		return "", ErrSubjectNotFound
	}
	subject, ok := val.(string)
	if !ok {
		return "", ErrSubjectNotString
	}
	return subject, nil
}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithJobID returns a context carrying the given job ID.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, contextkeys.JobIDKey, jobID)
}

// WithDataset returns a context carrying the given dataset name.
func WithDataset(ctx context.Context, dataset string) context.Context {
	return context.WithValue(ctx, contextkeys.DatasetKey, dataset)
}

// WithSubject returns a context carrying the authenticated subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextkeys.SubjectKey, subject)
}
