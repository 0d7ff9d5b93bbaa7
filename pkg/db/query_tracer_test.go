package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM habits"))
	assert.Equal(t, "insert", operation("\n\t insert into habits (id) values ($1)"))
	assert.Equal(t, "unknown", operation("   "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
