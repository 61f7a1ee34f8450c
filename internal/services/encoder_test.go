package services

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	content := []byte("%PDF-1.4 fake resume")
	assert.NoError(t, os.WriteFile(path, content, 0644))

	encoder := NewDocumentEncoder()
	encoded, mediaType, err := encoder.EncodeFile(path)

	assert.NoError(t, err)
	assert.Equal(t, "application/pdf", mediaType)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestEncodeFileMissing(t *testing.T) {
	encoder := NewDocumentEncoder()
	_, _, err := encoder.EncodeFile(filepath.Join(t.TempDir(), "missing.pdf"))

	var readErr *ReadError
	assert.ErrorAs(t, err, &readErr)
	assert.Contains(t, readErr.Path, "missing.pdf")
}

func TestMediaTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"resume.pdf", "application/pdf"},
		{"RESUME.PDF", "application/pdf"},
		{"resume.doc", "application/msword"},
		{"resume.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"resume.txt", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, MediaTypeForFilename(tt.filename))
		})
	}
}
