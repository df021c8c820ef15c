package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caltracker-api/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateAndDecode(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"user_id":1,"food_id":2,"quantity":150,"date":"2024-01-05"}`, false},
		{"malformed json", `{"user_id":`, true},
		{"missing food", `{"user_id":1,"quantity":150,"date":"2024-01-05"}`, true},
		{"zero quantity", `{"user_id":1,"food_id":2,"quantity":0,"date":"2024-01-05"}`, true},
		{"bad date", `{"user_id":1,"food_id":2,"quantity":150,"date":"05/01/2024"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/consumptions", strings.NewReader(tc.body))
			var payload model.CreateConsumptionRequest

			appErr := ValidateAndDecode(req, &payload)

			if tc.wantErr {
				if assert.NotNil(t, appErr) {
					assert.Equal(t, http.StatusBadRequest, appErr.Code)
				}
			} else {
				assert.Nil(t, appErr)
			}
		})
	}
}

func TestAppError_Send(t *testing.T) {
	rr := httptest.NewRecorder()

	NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil).Send(rr)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"code":401,"message":"Invalid or expired token"}`, rr.Body.String())
}

func TestValidateAndDecode_OversizedBody(t *testing.T) {
	body := `{"date":"` + strings.Repeat("x", 2*MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/consumptions", strings.NewReader(body))
	var payload model.CreateConsumptionRequest

	appErr := ValidateAndDecode(req, &payload)

	if assert.NotNil(t, appErr) {
		assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.Code)
	}
}
