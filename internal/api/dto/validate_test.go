package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/feedback-portal/pkg/util/errorutil"
)

func TestValidateFeedbackRequest(t *testing.T) {
	assert.NoError(t, Validate(&FeedbackRequest{DepartmentID: 1, Rating: "Good"}, "invalid"))

	err := Validate(&FeedbackRequest{Rating: "Amazing"}, "departmentId and rating are required")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
	assert.Equal(t, "required", domainErr.Details["departmentId"])
	assert.Equal(t, "oneof=Excellent Good Neutral Satisfying Unsatisfying", domainErr.Details["rating"])
}

func TestValidateLoginRequests(t *testing.T) {
	err := Validate(&AdminLoginRequest{Email: "admin@aui.ma"}, "email and password are required")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, map[string]any{"password": "required"}, domainErr.Details)

	err = Validate(&IdentityProviderLoginRequest{}, "idToken is required")
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "required", domainErr.Details["idToken"])
}
