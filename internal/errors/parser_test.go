package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/dealer-admin-backend/internal/app/repository"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Validation",
			err:        &service.ValidationError{Fields: map[string]string{"email": "Invalid email"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   ValidationInvalidInput,
		},
		{
			name:       "Wrapped not found",
			err:        fmt.Errorf("update: %w", repository.ErrDealerNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   DealerNotFound,
		},
		{
			name:       "Storage",
			err:        &repository.StorageError{Op: "replace", Key: "dealers_data", Err: errors.New("oom")},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   StorageUnavailable,
		},
		{
			name:       "Deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   StorageUnavailable,
		},
		{
			name:       "Unknown",
			err:        errors.New("boom"),
			context:    "delete dealer",
			wantStatus: http.StatusInternalServerError,
			wantCode:   InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_Messages(t *testing.T) {
	assert.Equal(t, "Dealer Not Found", ParseError(repository.ErrDealerNotFound, "").Message)
	assert.Equal(t, "Could not delete dealer. Please try again.", ParseError(errors.New("x"), "delete dealer").Message)

	storageErr := &repository.StorageError{Op: "load", Key: "dealers_data", Err: errors.New("reset")}
	assert.Equal(t, service.MsgLoadFailed, ParseError(storageErr, "list dealers").Message)
	assert.Equal(t, service.MsgLoadFailed, ParseError(storageErr, "dashboard refresh").Message)
	assert.Equal(t, service.MsgStorageFailed, ParseError(storageErr, "create dealer").Message)
}
