package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"not found", fmt.Errorf("tasks: get: %w", shared.ErrNotFound), http.StatusNotFound, MsgTaskNotFound},
		{"email taken", shared.ErrEmailTaken, http.StatusBadRequest, MsgUserExists},
		{"invalid credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, MsgInvalidCredentials},
		{"unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, MsgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ProblemDetail
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Status)
			assert.Equal(t, tc.detail, body.Detail)
		})
	}
}

func TestRespondErrorDoesNotLeakInternalText(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("secret dsn postgres://admin:hunter2@db"))

	assert.NotContains(t, rr.Body.String(), "hunter2")
}
