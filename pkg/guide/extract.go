package guide

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// ExtractText pulls plain text out of an uploaded guide file. Only text
// uploads are supported; binary formats are rejected so the caller can
// answer with a client error instead of feeding garbage to the parser.
func ExtractText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty guide file")
	}
	if bytes.HasPrefix(content, []byte("%PDF")) {
		return "", fmt.Errorf("pdf guide files are not supported, upload plain text")
	}
	if bytes.HasPrefix(content, []byte("PK\x03\x04")) {
		return "", fmt.Errorf("docx guide files are not supported, upload plain text")
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("guide file is not valid utf-8 text")
	}
	return string(content), nil
}
