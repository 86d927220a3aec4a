package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewNgaError(t *testing.T) {
	cause := errors.New("permission denied")
	fixes := []FixAction{{Type: RunCommand, Command: "nga analyze"}}

	err := NewNgaError(WorkspaceUnreadable, "cannot read workspace", cause, fixes)

	if err.Code != WorkspaceUnreadable {
		t.Errorf("Code = %v, want %v", err.Code, WorkspaceUnreadable)
	}
	if err.Message != "cannot read workspace" {
		t.Errorf("Message = %q, want %q", err.Message, "cannot read workspace")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestNgaError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      ParseFailed,
			message:   "cannot parse app.ts",
			cause:     errors.New("unexpected token"),
			wantParts: []string{"PARSE_FAILED", "cannot parse app.ts", "unexpected token"},
		},
		{
			name:      "without cause",
			code:      ProjectConfigInvalid,
			message:   "project.json is empty",
			wantParts: []string{"PROJECT_CONFIG_INVALID", "project.json is empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewNgaError(tt.code, tt.message, tt.cause, nil).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func TestNgaError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewNgaError(FileReadFailed, "read failed", cause, nil)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	var target *NgaError
	wrapped := fmt.Errorf("loading: %w", err)
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find NgaError")
	}
	if target.Code != FileReadFailed {
		t.Errorf("Code = %v, want %v", target.Code, FileReadFailed)
	}
}

func TestWithDetails(t *testing.T) {
	err := NewNgaError(ProjectConfigInvalid, "bad config", nil, nil).
		WithDetails(map[string]string{"project": "shell"})

	details, ok := err.Details.(map[string]string)
	if !ok || details["project"] != "shell" {
		t.Errorf("Details = %v, want project=shell", err.Details)
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	if fixes := GetSuggestedFixes(WorkspaceUnreadable); len(fixes) == 0 {
		t.Error("expected fixes for WorkspaceUnreadable")
	}
	if fixes := GetSuggestedFixes(InternalError); fixes != nil {
		t.Errorf("expected no fixes for InternalError, got %v", fixes)
	}
}

func TestCodeOf(t *testing.T) {
	base := NewNgaError(StoreFailed, "open failed", nil, nil)

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"direct", base, StoreFailed},
		{"wrapped", fmt.Errorf("outer: %w", base), StoreFailed},
		{"plain", errors.New("boom"), InternalError},
		{"nil", nil, InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
