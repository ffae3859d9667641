package constant

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrUnsupportedFile, http.StatusUnsupportedMediaType},
		{ErrModelResponse, http.StatusBadGateway},
		{ErrRateLimited, http.StatusTooManyRequests},
		{fmt.Errorf("đọc tệp: %w", ErrExtractFailed), http.StatusUnprocessableEntity},
		{errors.New("khác"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, GetErrorCode(tt.err), "%v", tt.err)
	}
}
