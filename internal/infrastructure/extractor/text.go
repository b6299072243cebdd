package extractor

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	errInvalidUTF8  = errors.New("invalid UTF-8 after byte order mark")
	errOddUTF16Size = errors.New("odd number of bytes in UTF-16 payload")
)

// decodeText はBOMを判定してテキストをUTF-8文字列に変換します
// BOMがなくUTF-8として不正な場合はWindows-1252として解釈します
func decodeText(raw []byte, filename string) (string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		body := raw[len(bomUTF8):]
		if !utf8.Valid(body) {
			return "", apperror.NewDecodingError(filename, errInvalidUTF8)
		}
		return string(body), nil

	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeUTF16(raw, filename, unicode.LittleEndian)

	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeUTF16(raw, filename, unicode.BigEndian)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", apperror.NewDecodingError(filename, err)
	}
	return string(decoded), nil
}

// decodeUTF16 はBOM付きUTF-16をデコードします
func decodeUTF16(raw []byte, filename string, endianness unicode.Endianness) (string, error) {
	if len(raw)%2 != 0 {
		return "", apperror.NewDecodingError(filename, errOddUTF16Size)
	}

	decoded, err := unicode.UTF16(endianness, unicode.ExpectBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", apperror.NewDecodingError(filename, err)
	}
	return string(decoded), nil
}
