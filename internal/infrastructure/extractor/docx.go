package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

const (
	docxBodyPart = "word/document.xml"
	// maxDocxBodySize は展開後のdocument.xmlの上限
	maxDocxBodySize = 64 << 20
)

var errMissingDocxBody = errors.New("word/document.xml not found")

// extractDocx はdocxの本文段落を改行区切りで連結したテキストを返します
func extractDocx(raw []byte, filename string) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", apperror.NewDecodingError(filename, err)
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", apperror.NewDecodingError(filename, errMissingDocxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", apperror.NewDecodingError(filename, err)
	}
	defer rc.Close()

	paragraphs, err := parseDocumentParagraphs(io.LimitReader(rc, maxDocxBodySize))
	if err != nil {
		return "", apperror.NewDecodingError(filename, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// parseDocumentParagraphs はWordprocessingMLから段落ごとのテキストを取り出します
// w:t の文字列を連結し、w:tab はタブ、w:br は改行として扱う
func parseDocumentParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing document xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
				}
				inPara = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
