package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/harambee/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Name:     "Wanjiku Kamau",
		Email:    "wanjiku@example.com",
		Phone:    "+254711111111",
		Password: "s3cret",
	}
}

func validProposalRequest() CreateProposalRequest {
	return CreateProposalRequest{
		Title:         "Borehole for Kiambu farm",
		Amount:        150000,
		WalletAddress: "0xRecipient1",
		Description:   "Drilling and pump",
	}
}

// fieldErrors flattens validator output into field -> failed tag.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs), "expected validator errors, got %v", err)

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func TestValidationHelper_RegisterRequest(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("complete request", func(t *testing.T) {
		req := validRegisterRequest()
		assert.NoError(t, vh.ValidateStruct(&req))
	})

	tests := []struct {
		field string
		blank func(*RegisterRequest)
	}{
		{"Name", func(r *RegisterRequest) { r.Name = "" }},
		{"Email", func(r *RegisterRequest) { r.Email = "" }},
		{"Phone", func(r *RegisterRequest) { r.Phone = "" }},
		{"Password", func(r *RegisterRequest) { r.Password = "" }},
	}

	for _, tt := range tests {
		t.Run("blank "+tt.field, func(t *testing.T) {
			req := validRegisterRequest()
			tt.blank(&req)

			err := vh.check(&req)
			assert.ErrorIs(t, err, store.ErrValidation)
			assert.Equal(t, map[string]string{tt.field: "required"}, fieldErrors(t, err))
		})
	}

	t.Run("empty request reports every field", func(t *testing.T) {
		err := vh.check(&RegisterRequest{})
		assert.Equal(t, map[string]string{
			"Name":     "required",
			"Email":    "required",
			"Phone":    "required",
			"Password": "required",
		}, fieldErrors(t, err))
	})
}

func TestValidationHelper_CreateProposalRequest(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("complete request", func(t *testing.T) {
		req := validProposalRequest()
		assert.NoError(t, vh.check(&req))
	})

	t.Run("description is optional", func(t *testing.T) {
		req := validProposalRequest()
		req.Description = ""
		assert.NoError(t, vh.check(&req))
	})

	tests := []struct {
		name    string
		mutate  func(*CreateProposalRequest)
		wantErr map[string]string
	}{
		{"missing amount", func(r *CreateProposalRequest) { r.Amount = 0 }, map[string]string{"Amount": "required"}},
		{"negative amount", func(r *CreateProposalRequest) { r.Amount = -500 }, map[string]string{"Amount": "gt"}},
		{"title too long", func(r *CreateProposalRequest) { r.Title = strings.Repeat("a", 201) }, map[string]string{"Title": "max"}},
		{"missing wallet", func(r *CreateProposalRequest) { r.WalletAddress = "" }, map[string]string{"WalletAddress": "required"}},
		{"description too long", func(r *CreateProposalRequest) { r.Description = strings.Repeat("d", 5001) }, map[string]string{"Description": "max"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProposalRequest()
			tt.mutate(&req)

			err := vh.check(&req)
			assert.ErrorIs(t, err, store.ErrValidation)
			assert.Equal(t, tt.wantErr, fieldErrors(t, err))
		})
	}

	t.Run("title at limit", func(t *testing.T) {
		req := validProposalRequest()
		req.Title = strings.Repeat("a", 200)
		assert.NoError(t, vh.check(&req))
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("plain message has no details", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "Invalid OTP", http.StatusUnauthorized, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Invalid OTP", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("non-validator error adds no details", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, errors.New("unexpected EOF"))

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response.Details)
	})
}

func TestSendServiceError_ValidationDetails(t *testing.T) {
	vh := NewValidationHelper()

	tests := []struct {
		name     string
		req      any
		wantKeys []string
	}{
		{"register without phone and password", &RegisterRequest{Name: "Wanjiku Kamau", Email: "wanjiku@example.com"}, []string{"Phone", "Password"}},
		{"proposal with bad amount and no wallet", &CreateProposalRequest{Title: "Seeds", Amount: -1}, []string{"Amount", "WalletAddress"}},
		{"proposal with long title", &CreateProposalRequest{Title: strings.Repeat("t", 250), Amount: 10, WalletAddress: "0x1"}, []string{"Title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SendServiceError(w, vh.check(tt.req))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "Validation failed", response.Error)
			assert.Len(t, response.Details, len(tt.wantKeys))
			for _, key := range tt.wantKeys {
				assert.Contains(t, response.Details[key], "Field Validation Failed")
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: phone required", store.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: Invalid OTP", store.ErrAuth), http.StatusUnauthorized},
		{fmt.Errorf("%w: proposal p_1", store.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: already voted", store.ErrConflict), http.StatusConflict},
		{errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusCode(tc.err), tc.err.Error())
	}
}

func TestSendServiceError(t *testing.T) {
	t.Run("validation details survive wrapping", func(t *testing.T) {
		vh := NewValidationHelper()
		err := vh.check(&RegisterRequest{Name: "Wanjiku Kamau", Phone: "+254711111111", Password: "s3cret"})
		assert.ErrorIs(t, err, store.ErrValidation)

		w := httptest.NewRecorder()
		SendServiceError(w, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "Email")
	})

	t.Run("internal errors hide the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendServiceError(w, errors.New("dial tcp 10.0.0.1:6379: refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "An Internal Error Occurred", response.Error)
	})

	t.Run("not found keeps message", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendServiceError(w, fmt.Errorf("%w: proposal p_1", store.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not found: proposal p_1", response.Error)
	})
}
