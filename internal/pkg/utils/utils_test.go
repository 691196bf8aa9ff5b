package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Inc":       "acme-inc",
		"  Hello World ": "hello-world",
		"foo__bar":       "foo-bar",
		"Already-Good":   "already-good",
		"Mixed 123 Case": "mixed-123-case",
		"!!!":            "",
		"--dashes--":     "dashes",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestGenerateInviteToken(t *testing.T) {
	a := GenerateInviteToken()
	b := GenerateInviteToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***e@example.com", MaskEmail("alice@example.com"))
	assert.Equal(t, "ab@example.com", MaskEmail("ab@example.com"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}
