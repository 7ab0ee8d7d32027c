package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing column keeps detail",
			err:         MissingColumnError("Customer"),
			wantCode:    "VAL004",
			wantMessage: `A required column is missing from the file: column not found: "Customer"`,
		},
		{
			name:        "wrapped conversion error maps by kind",
			err:         fmt.Errorf("process: %w", newError(EmptyUpload, nil, "the uploaded file is empty")),
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty: the uploaded file is empty",
		},
		{
			name:        "unsupported format maps correctly",
			err:         newError(UnsupportedFormat, nil, `unsupported file type ".pdf"`),
			wantCode:    "FILE002",
			wantMessage: `File type is not supported: unsupported file type ".pdf"`,
		},
		{
			name:        "file too large maps correctly",
			err:         errors.New("file too large: 40 MB exceeds 32 MB"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "busy limiter maps correctly",
			err:         ErrTooManyConversions,
			wantCode:    "CNV001",
			wantMessage: "Too many conversions in progress",
		},
		{
			name:        "used download maps correctly",
			err:         ErrArtifactNotFound,
			wantCode:    "CNV002",
			wantMessage: "This download has already been used or has expired",
		},
		{
			name:        "unknown profile maps correctly",
			err:         fmt.Errorf("%w %q", ErrUnknownProfile, "nope"),
			wantCode:    "CNV003",
			wantMessage: "The selected conversion profile does not exist",
		},
		{
			name:        "timeout maps correctly",
			err:         context.DeadlineExceeded,
			wantCode:    "CNV005",
			wantMessage: "Request timed out",
		},
		{
			name:        "invalid filter mode maps correctly",
			err:         errors.New(`invalid filter mode "like" (want in, equals, present or none)`),
			wantCode:    "VAL007",
			wantMessage: "The filter option is not valid",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("ARTIFACT NOT FOUND"),
			wantCode:    "CNV002",
			wantMessage: "This download has already been used or has expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrArtifactNotFound)

	expected := "This download has already been used or has expired (Code: CNV002). Convert the file again to get a new download"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "conversion error is user facing",
			err:  MissingColumnError("FQDN"),
			want: true,
		},
		{
			name: "known pattern is user facing",
			err:  errors.New("no file provided"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should return nil")
	}

	tech := MissingColumnError("IP Address")
	ue := NewUserError(tech)
	if ue.User.Code != "VAL004" {
		t.Errorf("code = %q, want VAL004", ue.User.Code)
	}
	if !errors.Is(ue, tech) {
		t.Error("UserError should unwrap to the technical error")
	}
	if ue.Error() != ue.User.Message {
		t.Errorf("Error() = %q, want user message", ue.Error())
	}
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", MissingColumnError("Location"))

	if KindOf(err) != MissingColumn {
		t.Errorf("KindOf() = %q, want %q", KindOf(err), MissingColumn)
	}
	if !IsKind(err, MissingColumn) || IsKind(err, ParseError) {
		t.Error("IsKind() mismatch")
	}
	if !errors.Is(err, &Error{Kind: MissingColumn}) {
		t.Error("errors.Is should match on kind")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf(plain) should be empty")
	}
}
