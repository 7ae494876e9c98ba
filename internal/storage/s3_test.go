package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	s := &s3Storage{baseURL: "https://cdn.example.com/media"}

	key, ok := s.keyFromURL("https://cdn.example.com/media/2024/05/01/abc.mp4")
	assert.True(t, ok)
	assert.Equal(t, "2024/05/01/abc.mp4", key)

	_, ok = s.keyFromURL("https://other.example.com/abc.mp4")
	assert.False(t, ok)

	_, ok = s.keyFromURL("")
	assert.False(t, ok)

	_, ok = s.keyFromURL("https://cdn.example.com/media/")
	assert.False(t, ok)
}
