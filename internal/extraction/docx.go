package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

var errNoDocumentPart = errors.New("package has no word/document.xml part")

// extractDOCX returns the text of the body's top-level paragraphs, one per line.
// Paragraphs nested in tables or text boxes are skipped.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("file is not a zip file: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			part = f
			break
		}
	}
	if part == nil {
		return "", errNoDocumentPart
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document part: %w", err)
	}
	defer rc.Close()

	return paragraphsText(rc)
}

func paragraphsText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out       strings.Builder
		para      strings.Builder
		stack     []string
		inPara    bool
		paraDepth int
		inText    bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := ""
			if t.Name.Space == wordNamespace {
				name = t.Name.Local
			}
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, name)

			switch {
			case name == "p" && parent == "body" && !inPara:
				inPara = true
				paraDepth = len(stack)
				para.Reset()
			case inPara && name == "t":
				inText = true
			case inPara && name == "tab":
				para.WriteByte('\t')
			case inPara && (name == "br" || name == "cr"):
				para.WriteByte('\n')
			}
		case xml.EndElement:
			if inPara && len(stack) == paraDepth {
				inPara = false
				out.WriteString(para.String())
				out.WriteByte('\n')
			}
			if len(stack) > 0 {
				if stack[len(stack)-1] == "t" {
					inText = false
				}
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if inPara && inText {
				para.Write(t)
			}
		}
	}

	return out.String(), nil
}
