package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResetOTP(t *testing.T) {
	html, err := RenderHTML("reset_otp", map[string]any{
		"Name":        "Demo",
		"Code":        "123456",
		"ExpiresIn":   "10m0s",
		"CompanyName": "Luggage Tracker",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "Demo")
	assert.Contains(t, html, "10m0s")
}

func TestRenderWelcome(t *testing.T) {
	html, err := RenderHTML("welcome", map[string]any{
		"Name":        "Demo",
		"CompanyName": "Luggage Tracker",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Demo")
	assert.Contains(t, html, "Luggage Tracker")
}

func TestRenderPasswordChanged(t *testing.T) {
	html, err := RenderHTML("password_changed", map[string]any{
		"Name":        "Demo",
		"Email":       "demo@example.com",
		"CompanyName": "Luggage Tracker",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "demo@example.com")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := RenderHTML("nope", nil)
	assert.Error(t, err)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "Account Created Successfully", SubjectFor("welcome"))
	assert.Equal(t, "Your password reset code", SubjectFor("reset_otp"))
	assert.Equal(t, "Your password was changed", SubjectFor("password_changed"))
	assert.Equal(t, "Notification", SubjectFor("something_else"))
}
