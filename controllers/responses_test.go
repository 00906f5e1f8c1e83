package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tindora/tindora-api/services"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &services.Error{Kind: services.KindValidation, Message: "bad input"}, http.StatusBadRequest},
		{"eligibility", &services.Error{Kind: services.KindEligibility, Message: "outside zone"}, http.StatusForbidden},
		{"not found", &services.Error{Kind: services.KindNotFound, Message: "no such order"}, http.StatusNotFound},
		{"conflict", &services.Error{Kind: services.KindConflict, Message: "already cancelled"}, http.StatusConflict},
		{"upstream", &services.Error{Kind: services.KindUpstream, Message: "gateway down"}, http.StatusInternalServerError},
		{"internal", &services.Error{Kind: services.KindInternal, Message: "db broke"}, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusForError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("statusForError() = %d, want %d", status, tt.wantStatus)
			}
		})
	}
}

func TestStatusForErrorKeepsServiceMessage(t *testing.T) {
	_, message := statusForError(&services.Error{Kind: services.KindValidation, Message: "items are required"})
	if message != "items are required" {
		t.Errorf("message = %q, want the service message", message)
	}
}

func TestStatusForErrorHidesInternalDetail(t *testing.T) {
	_, message := statusForError(errors.New("dial tcp 127.0.0.1:3306: connection refused"))
	if message != msgInternalServerError {
		t.Errorf("message = %q, want %q", message, msgInternalServerError)
	}
}
