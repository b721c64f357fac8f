package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, ValidateFileSize(1024, 2048))
	assert.NoError(t, ValidateFileSize(2048, 2048))
	assert.Error(t, ValidateFileSize(2049, 2048))
}

func TestValidateContentType(t *testing.T) {
	allowed := []string{"application/json"}
	assert.NoError(t, ValidateContentType("application/json", allowed))
	assert.ErrorContains(t, ValidateContentType("text/plain", allowed), "text/plain")
}

func TestNewS3Storage_StaticCredentials(t *testing.T) {
	s := NewS3Storage("ap-northeast-2", "dealer-snapshots", "AKID", "SECRET")
	assert.Equal(t, "dealer-snapshots", s.bucket)
	assert.Equal(t, "ap-northeast-2", s.client.Options().Region)
}
