package omitnilpointers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOmitNilPointers(t *testing.T) {
	hostID := "u2"
	var movieID *string
	isActive := false

	got := OmitNilPointers(map[string]any{
		"host_id":   &hostID,
		"movie_id":  movieID,
		"is_active": &isActive,
		"name":      "plain",
		"nothing":   nil,
	})

	assert.Equal(t, map[string]any{
		"host_id":   "u2",
		"is_active": false,
		"name":      "plain",
	}, got)
}
