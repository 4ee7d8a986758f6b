package randstr

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	g := New(UppercaseAlphanumeric)
	re := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	seen := make(map[string]struct{})
	for range 200 {
		s := g.GenerateRandomString(8)
		assert.Regexp(t, re, s)
		seen[s] = struct{}{}
	}

	assert.Greater(t, len(seen), 190, "generated strings should rarely repeat")
}
