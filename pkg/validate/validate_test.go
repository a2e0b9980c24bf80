package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSecretKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"DATABASE_URL", true},
		{"_PRIVATE", true},
		{"A1", true},
		{"X", true},
		{"database_url", false},
		{"1ST_KEY", false},
		{"API-KEY", false},
		{"API KEY", false},
		{"", false},
		{"KEY\n", false},
		{strings.Repeat("A", 256), true},
		{strings.Repeat("A", 257), false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSecretKey(tt.key))
		})
	}
}

func TestSecretKey_Error(t *testing.T) {
	assert.NoError(t, SecretKey("API_KEY"))
	assert.ErrorIs(t, SecretKey("api_key"), ErrInvalidKey)
}

func TestSecretValue(t *testing.T) {
	assert.NoError(t, SecretValue(make([]byte, MaxValueLength)))
	assert.ErrorIs(t, SecretValue(make([]byte, MaxValueLength+1)), ErrValueTooLong)
}

func TestIsName(t *testing.T) {
	assert.True(t, IsName("my-app"))
	assert.True(t, IsName("Backend API v2.1"))
	assert.True(t, IsName("qa_env"))
	assert.False(t, IsName(""))
	assert.False(t, IsName("a/b"))
	assert.False(t, IsName(strings.Repeat("x", 65)))
	assert.ErrorIs(t, Name("bad/name"), ErrInvalidName)
}

func TestStruct(t *testing.T) {
	type request struct {
		Name string `validate:"required,resourcename"`
		Key  string `validate:"omitempty,secretkey"`
	}

	assert.NoError(t, Struct(request{Name: "api"}))
	assert.NoError(t, Struct(request{Name: "api", Key: "TOKEN"}))

	err := Struct(request{Name: "", Key: "lower"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "name failed required")
		assert.Contains(t, err.Error(), "key failed secretkey")
	}
}
