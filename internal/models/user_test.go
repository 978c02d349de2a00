package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           " Ada@Example.com ",
		Password:        "engine-01",
		ConfirmPassword: "engine-01",
		Plan:            "pro",
		AcceptTerms:     true,
	}
	valid.Normalize()
	assert.Equal(t, "ada@example.com", valid.Email)
	assert.NoError(t, valid.Validate())

	bad := RegisterRequest{FirstName: "Ada", Email: "nope", Password: "short", ConfirmPassword: "other", Plan: "gold"}
	fields := FieldErrors(bad.Validate())
	assert.Equal(t, "Please enter your full name", fields["name"])
	assert.Equal(t, "Please enter a valid email address", fields["email"])
	assert.Equal(t, "Password must be at least 8 characters", fields["password"])
	assert.Equal(t, "Passwords do not match", fields["confirmPassword"])
	assert.Equal(t, "Please select a pricing plan", fields["plan"])
	assert.Equal(t, "You must accept the terms and conditions", fields["acceptTerms"])
}

func TestNewProfileSplitsDisplayName(t *testing.T) {
	p := NewProfile(Identity{UID: "u1", Email: "a@b.co", Provider: ProviderGoogle, DisplayName: "Grace Brewster Hopper"})
	assert.Equal(t, "Grace", p.FirstName)
	assert.Equal(t, "Brewster Hopper", p.LastName)
	assert.Equal(t, "Grace Brewster Hopper", p.FullName())

	single := NewProfile(Identity{UID: "u2", DisplayName: "Cher"})
	assert.Equal(t, "Cher", single.FirstName)
	assert.Empty(t, single.LastName)
}

func TestCredentialLocked(t *testing.T) {
	until := testNow.Add(time.Minute)
	c := Credential{LockedUntil: &until}
	assert.True(t, c.Locked(testNow))
	assert.False(t, c.Locked(until))
	assert.False(t, Credential{}.Locked(testNow))
}

func TestErrorMatching(t *testing.T) {
	wrapped := WrapError(CodeNotFound, "record not found", errors.New("sql: no rows"))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))

	var v Validation
	assert.NoError(t, v.Err())
	v.Add("title", "first")
	v.Add("title", "second")
	assert.Equal(t, "first", FieldErrors(v.Err())["title"])
}
