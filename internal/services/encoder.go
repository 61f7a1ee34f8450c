package services

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
)

type DocumentEncoder interface {
	EncodeFile(path string) (string, string, error)
	EncodeBytes(data []byte) string
}

type documentEncoder struct{}

func NewDocumentEncoder() DocumentEncoder {
	return &documentEncoder{}
}

// EncodeFile implements DocumentEncoder. Returns the base64 payload and the
// media type derived from the file extension. Read failures surface as
// ReadError and are not retried.
func (d *documentEncoder) EncodeFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", &ReadError{Path: path, Err: err}
	}
	return d.EncodeBytes(data), MediaTypeForFilename(path), nil
}

// EncodeBytes implements DocumentEncoder.
func (d *documentEncoder) EncodeBytes(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// MediaTypeForFilename maps resume file extensions to MIME types. Unknown
// extensions get the generic binary type.
func MediaTypeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
