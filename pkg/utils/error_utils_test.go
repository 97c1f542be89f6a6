package utils

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type bindingSample struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func TestBindingErrorDetailsValidator(t *testing.T) {
	err := validator.New().Struct(bindingSample{Email: "nope"})

	details := BindingErrorDetails(err)

	assert.Equal(t, map[string]string{
		"name":     "is required",
		"quantity": "must be greater than 0",
		"email":    "must be a valid email",
	}, details)
}

func TestBindingErrorDetailsJSON(t *testing.T) {
	var dst bindingSample
	err := json.NewDecoder(strings.NewReader(`{"quantity":"two"}`)).Decode(&dst)
	assert.Equal(t, map[string]string{"quantity": "must be int"}, BindingErrorDetails(err))

	err = json.Unmarshal([]byte(`{"name":}`), &dst)
	assert.Equal(t, map[string]string{"body": "malformed JSON"}, BindingErrorDetails(err))

	assert.Equal(t, "EOF", BindingErrorDetails(errors.New("EOF")))
}

func TestStrToPositiveID(t *testing.T) {
	id, err := StrToPositiveID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := StrToPositiveID(raw)
		assert.Error(t, err, raw)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("Merch.Team@Example.com"))
	assert.False(t, IsValidEmail("merch@"))
}
