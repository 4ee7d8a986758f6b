package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekInput struct {
	CurrentTime *float64 `json:"currentTime" validate:"required,gte=0"`
	RoomName    string   `json:"roomName" validate:"max=5"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	errs, ok := v.Validate(seekInput{})
	require.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "currentTime", errs[0].Field)
	assert.Equal(t, "REQUIRED", errs[0].Code)
	assert.Equal(t, "currentTime is required", errs[0].Message)

	negative := -1.0
	errs, ok = v.Validate(seekInput{CurrentTime: &negative, RoomName: "too long"})
	require.False(t, ok)
	assert.Len(t, errs, 2)

	zero := 0.0
	errs, ok = v.Validate(seekInput{CurrentTime: &zero})
	assert.True(t, ok)
	assert.Empty(t, errs)
}
