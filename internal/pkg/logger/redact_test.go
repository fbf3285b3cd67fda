package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactSecret(t *testing.T) {
	assert.Equal(t, "sk-a***", RedactSecret("sk-abcdef123456"))
	assert.Equal(t, "***", RedactSecret("ab"))
	assert.Equal(t, "***", RedactSecret(""))
}

func TestRedactValueByFieldName(t *testing.T) {
	assert.Equal(t, "sk-a***", redactValue("openai_api_key", "sk-abcdef"))
	assert.Equal(t, "Bear***", redactValue("Authorization", "Bearer xyz"))
	assert.Equal(t, "market", redactValue("bubble_id", "market"))
}
