package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNameFromEmail(t *testing.T) {
	assert.Equal(t, "alice", ExtractNameFromEmail("alice@example.com"))
	assert.Equal(t, "bob.smith", ExtractNameFromEmail("bob.smith@mail.example.com"))
	assert.Equal(t, "", ExtractNameFromEmail(""))
}

func TestAvatarURLEscapesSeed(t *testing.T) {
	assert.Equal(t, "https://api.dicebear.com/9.x/adventurer/svg?seed=Alice+Johnson", AvatarURL("Alice Johnson"))
}
