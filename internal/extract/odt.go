package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// extractODT reads content.xml from the ZIP archive and collects the
// text of <text:p> and <text:h> elements in document order.
func extractODT(content []byte) (Result, error) {
	if len(content) == 0 {
		return Result{Method: MethodODTXML}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Result{Method: MethodODTXML}, fmt.Errorf("open zip: %w", err)
	}

	var contentFile *zip.File
	for _, f := range zr.File {
		if f.Name == "content.xml" {
			contentFile = f
			break
		}
	}
	if contentFile == nil {
		return Result{Method: MethodODTXML}, fmt.Errorf("content.xml not found in archive")
	}

	rc, err := contentFile.Open()
	if err != nil {
		return Result{Method: MethodODTXML}, fmt.Errorf("open content.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var current strings.Builder
	var collecting bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" || t.Name.Local == "h" {
				collecting = true
				current.Reset()
			}
		case xml.CharData:
			if collecting {
				current.Write(t)
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "h") && collecting {
				collecting = false
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}

	return Result{
		Text:   strings.Join(paragraphs, "\n"),
		Method: MethodODTXML,
	}, nil
}
