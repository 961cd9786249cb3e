package entities

import (
	"errors"
	"fmt"
	"strings"
)

// DiagnosticKind classifies why a platform failed.
type DiagnosticKind string

const (
	KindMissingFile            DiagnosticKind = "MissingFile"
	KindProjectNotFound        DiagnosticKind = "ProjectNotFound"
	KindMalformedProject       DiagnosticKind = "MalformedProject"
	KindMalformedPlist         DiagnosticKind = "MalformedPlist"
	KindInvalidSemanticVersion DiagnosticKind = "InvalidSemanticVersion"
	KindWriteFailed            DiagnosticKind = "WriteFailed"
	KindUnknown                DiagnosticKind = "Unknown"
)

// Diagnostic is a single failure recorded by a platform pipeline.
type Diagnostic struct {
	Platform Platform
	Path     string
	Err      error
}

// NewDiagnostic builds a diagnostic for the given platform and file.
func NewDiagnostic(platform Platform, path string, err error) Diagnostic {
	return Diagnostic{Platform: platform, Path: path, Err: err}
}

// Kind maps the wrapped error onto the diagnostic taxonomy.
func (d Diagnostic) Kind() DiagnosticKind {
	switch {
	case errors.Is(d.Err, ErrMissingFile):
		return KindMissingFile
	case errors.Is(d.Err, ErrProjectNotFound):
		return KindProjectNotFound
	case errors.Is(d.Err, ErrMalformedProject):
		return KindMalformedProject
	case errors.Is(d.Err, ErrMalformedPlist):
		return KindMalformedPlist
	case errors.Is(d.Err, ErrInvalidSemanticVersion):
		return KindInvalidSemanticVersion
	case errors.Is(d.Err, ErrWriteFailed):
		return KindWriteFailed
	default:
		return KindUnknown
	}
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("[%s] %v", d.Kind(), d.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", d.Kind(), d.Path, d.Err)
}

// PlatformResult is the outcome of one platform pipeline.
type PlatformResult struct {
	Platform     Platform
	ChangedFiles []string
	Diagnostics  []Diagnostic
}

// OK reports whether the platform finished without diagnostics.
func (r PlatformResult) OK() bool {
	return len(r.Diagnostics) == 0
}

// Fail appends a diagnostic for err and returns the result for chaining.
func (r PlatformResult) Fail(path string, err error) PlatformResult {
	r.Diagnostics = append(r.Diagnostics, NewDiagnostic(r.Platform, path, err))
	return r
}

// RunResult aggregates every platform that was selected for a run.
type RunResult struct {
	Results []PlatformResult
}

// Failed reports whether any platform produced diagnostics.
func (r RunResult) Failed() bool {
	for _, result := range r.Results {
		if !result.OK() {
			return true
		}
	}
	return false
}

// Succeeded returns the platforms that finished cleanly.
func (r RunResult) Succeeded() []Platform {
	var platforms []Platform
	for _, result := range r.Results {
		if result.OK() {
			platforms = append(platforms, result.Platform)
		}
	}
	return platforms
}

// ChangedFiles returns every file written by the successful platforms.
func (r RunResult) ChangedFiles() []string {
	var files []string
	for _, result := range r.Results {
		if result.OK() {
			files = append(files, result.ChangedFiles...)
		}
	}
	return files
}

// Diagnostics returns every diagnostic, grouped by platform in run order.
func (r RunResult) Diagnostics() []Diagnostic {
	var diagnostics []Diagnostic
	for _, result := range r.Results {
		diagnostics = append(diagnostics, result.Diagnostics...)
	}
	return diagnostics
}

// Join returns nil when every platform succeeded, or a *SyncError summarizing
// all failing platforms.
func (r RunResult) Join() error {
	if !r.Failed() {
		return nil
	}
	return &SyncError{Result: r}
}

// SyncError is the aggregate failure of a run.
type SyncError struct {
	Result RunResult
}

func (e *SyncError) Error() string {
	var builder strings.Builder
	builder.WriteString("version synchronization failed")
	for _, result := range e.Result.Results {
		if result.OK() {
			continue
		}
		fmt.Fprintf(&builder, "\n%s:", result.Platform)
		for _, diagnostic := range result.Diagnostics {
			fmt.Fprintf(&builder, "\n  - %s", diagnostic)
		}
	}
	return builder.String()
}

// Unwrap exposes the individual diagnostic errors to errors.Is and errors.As.
func (e *SyncError) Unwrap() []error {
	diagnostics := e.Result.Diagnostics()
	errs := make([]error, 0, len(diagnostics))
	for _, diagnostic := range diagnostics {
		errs = append(errs, diagnostic.Err)
	}
	return errs
}
