package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", HashString(""))
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := Fingerprint([]string{"people", "america", "vote"})
	b := Fingerprint([]string{"vote", "people", "america"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Fingerprint([]string{"people", "america"}))
}

func TestFingerprintDoesNotReorderInput(t *testing.T) {
	in := []string{"b", "a"}
	Fingerprint(in)
	assert.Equal(t, []string{"b", "a"}, in)
}
