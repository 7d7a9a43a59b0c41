package utils

import (
	"testing"

	"coursebook/models"
)

func fieldReasons(fields []FieldError) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestValidateCreateProgramRequest(t *testing.T) {
	valid := models.CreateProgramRequest{
		Title:         "Go Basics",
		Description:   "An introduction to the Go programming language.",
		Category:      "programming",
		Level:         "beginner",
		DurationWeeks: 4,
		Date:          "2026-09-15",
		Price:         49.99,
		Seats:         20,
	}

	if fields := ValidateStruct(valid); fields != nil {
		t.Fatalf("valid request reported violations: %v", fields)
	}

	t.Run("negative seats", func(t *testing.T) {
		req := valid
		req.Seats = -1
		fields := ValidateStruct(req)
		if fields == nil {
			t.Fatal("expected a violation for negative seats")
		}
		reasons := fieldReasons(fields)
		if reason, ok := reasons["seats"]; !ok {
			t.Errorf("violations %v do not name the seats field", fields)
		} else if reason != "must be at least 0" {
			t.Errorf("seats reason = %q, want %q", reason, "must be at least 0")
		}
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		req := valid
		req.Title = ""
		req.Level = "expert"
		req.Seats = -1
		fields := ValidateStruct(req)
		reasons := fieldReasons(fields)
		for _, want := range []string{"title", "level", "seats"} {
			if _, ok := reasons[want]; !ok {
				t.Errorf("violations %v do not name the %s field", fields, want)
			}
		}
	})

	t.Run("bad date format", func(t *testing.T) {
		req := valid
		req.Date = "15/09/2026"
		reasons := fieldReasons(ValidateStruct(req))
		if _, ok := reasons["date"]; !ok {
			t.Error("expected a violation for the date field")
		}
	})
}

func TestValidateUpdateProgramRequest(t *testing.T) {
	// Nil fields mean "leave as is" and must not trip any rule.
	if fields := ValidateStruct(models.UpdateProgramRequest{}); fields != nil {
		t.Fatalf("empty update reported violations: %v", fields)
	}

	bad := "x"
	fields := ValidateStruct(models.UpdateProgramRequest{Title: &bad})
	if fields == nil {
		t.Fatal("expected a violation for a too-short title")
	}
}

func TestValidateChangePasswordRequest(t *testing.T) {
	fields := ValidateStruct(models.ChangePasswordRequest{
		CurrentPassword: "old-secret",
		NewPassword:     "short",
	})
	reasons := fieldReasons(fields)
	if reason := reasons["newpassword"]; reason != "must be at least 8 characters" {
		t.Errorf("newpassword reason = %q, want %q", reason, "must be at least 8 characters")
	}
}
