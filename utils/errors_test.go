package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &ValidationError{Errors: []string{"Email is required"}}, http.StatusBadRequest},
		{"duplicate", Duplicate("Email"), http.StatusBadRequest},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"locked", ErrAccountLocked, http.StatusTooManyRequests},
		{"not found", NotFound("Doctor"), http.StatusNotFound},
		{"upstream", Upstream("object storage", errors.New("boom")), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, HTTPStatus(tc.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("Patient")))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func runFail(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Fail(c, err)
	return w
}

func TestFailValidationEnvelope(t *testing.T) {
	w := runFail(&ValidationError{Errors: []string{"Email is required", "Name is required"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"fail","errors":["Email is required","Name is required"]}`, w.Body.String())
}

func TestFailNotFoundEnvelope(t *testing.T) {
	w := runFail(NotFound("Consultation"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Consultation not found"}`, w.Body.String())
}

func TestFailHidesInternalErrors(t *testing.T) {
	w := runFail(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Something went wrong"}`, w.Body.String())
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, http.StatusCreated, gin.H{"token": "abc"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"success","token":"abc"}`, w.Body.String())
}
