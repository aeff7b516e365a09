package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Name                 string `json:"name" binding:"required,max=50"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,pwd"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

func validate(t *testing.T, payload any) error {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v.Struct(payload)
}

func TestValidPayloadPasses(t *testing.T) {
	err := validate(t, signupPayload{
		Name:                 "Example User",
		Email:                "example@example.org",
		Password:             "password",
		PasswordConfirmation: "password",
	})
	assert.NoError(t, err)
}

func TestPwdAliasEnforcesMinimum(t *testing.T) {
	err := validate(t, signupPayload{
		Name:                 "Example User",
		Email:                "example@example.org",
		Password:             "short",
		PasswordConfirmation: "short",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be at least 6 characters long", details["password"])
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	err := validate(t, signupPayload{
		Name:                 "Example User",
		Email:                "not-an-email",
		Password:             "password",
		PasswordConfirmation: "different",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must match Password", details["password_confirmation"])
	assert.NotContains(t, details, "Email")
}

func TestToDetailsRequired(t *testing.T) {
	err := validate(t, signupPayload{})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "is required", details["password"])
}

func TestToDetailsNilAndUnknown(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
