// Package extraction turns uploaded document bytes into plain text.
package extraction

import (
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/legal-assistant/backend/pkg/apperror"
	"github.com/legal-assistant/backend/pkg/logger"
	"github.com/legal-assistant/backend/pkg/utils"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTXT  = "text/plain"
	MimeHTML = "text/html"
)

var formats = map[string]Format{
	"pdf":    FormatPDF,
	MimePDF:  FormatPDF,
	"docx":   FormatDOCX,
	MimeDOCX: FormatDOCX,
	"txt":    FormatTXT,
	MimeTXT:  FormatTXT,
	"html":   FormatHTML,
	"htm":    FormatHTML,
	MimeHTML: FormatHTML,
}

type Result struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}

// FormatOf resolves a file extension or MIME type, ignoring case and MIME parameters.
func FormatOf(mediaType string) (Format, bool) {
	t := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.TrimPrefix(t, ".")
	f, ok := formats[t]
	return f, ok
}

func Supported(mediaType string) bool {
	_, ok := FormatOf(mediaType)
	return ok
}

func Extract(data []byte, mediaType string) (*Result, error) {
	const op = "extraction.Extract"

	format, ok := FormatOf(mediaType)
	if !ok {
		return nil, apperror.E(apperror.KindUnsupportedFormat, op, "Unsupported file type: "+mediaType, nil)
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatTXT:
		text, err = extractTXT(data)
	case FormatHTML:
		text, err = extractHTML(data)
	}
	if err != nil {
		logger.Warn("Text extraction failed",
			zap.String("format", string(format)),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return nil, apperror.E(apperror.KindExtraction, op,
			"Error extracting text from "+strings.ToUpper(string(format)), err)
	}

	text = strings.TrimSpace(text)

	return &Result{
		Text:      text,
		WordCount: utils.WordCount(text),
		CharCount: utils.CharCount(text),
	}, nil
}

var errInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}
	return string(data), nil
}
