package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/mlefebvre/parcinfo-backend/pkg/errors"
	"github.com/mlefebvre/parcinfo-backend/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestWriteErrorMapsCodesToStatuses(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"), 400, "VALIDATION_ERROR", "quantity must be positive"},
		{pkgerrors.New(pkgerrors.CodeNotFound, "loan not found"), 404, "NOT_FOUND", "loan not found"},
		{pkgerrors.New(pkgerrors.CodeConflict, "asset item is not available"), 409, "CONFLICT", "asset item is not available"},
		{pkgerrors.New(pkgerrors.CodeInternal, "boom details leak"), 500, "INTERNAL_ERROR", "internal server error"},
		{errors.New("raw error"), 500, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, tc.err)

		if rec.Code != tc.wantStatus {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.wantStatus)
		}
		var envelope types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if envelope.Error.Code != tc.wantCode || envelope.Error.Message != tc.wantMsg {
			t.Fatalf("%v: envelope = %+v", tc.err, envelope.Error)
		}
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"quantity": "must be at least 1"})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok || details["quantity"] != "must be at least 1" {
		t.Fatalf("details not propagated: %+v", envelope.Error)
	}
}
