package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string  `json:"email" validate:"required,email"`
	Plan   string  `json:"newPlan" validate:"oneof=FREE STANDARD PREMIUM"`
	Reason string  `json:"rejectedReason" validate:"omitempty,notblank"`
	Hash   *string `json:"transactionHash" validate:"omitempty,max=10"`
}

func TestStruct(t *testing.T) {
	ok := sample{Email: "a@b.co", Plan: "STANDARD"}
	assert.NoError(t, Struct(&ok))

	long := "01234567890"
	bad := sample{Email: "nope", Plan: "GOLD", Reason: "   ", Hash: &long}
	err := Struct(&bad)
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "Please provide a valid email address", fields["email"])
	assert.Equal(t, "newPlan must be one of: FREE, STANDARD, PREMIUM", fields["newPlan"])
	assert.Equal(t, "rejectedReason is required", fields["rejectedReason"])
	assert.Contains(t, fields, "transactionHash")
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("8b0e9a52-2b7e-4a7d-9d53-8b1b0e8f0c11", "uuid"))
	assert.Error(t, Var("123", "uuid"))
}
