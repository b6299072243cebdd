// Package extractor はアップロードされたバイト列からプレーンテキストを取り出します
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// binaryExtensions はテキスト化できない既知のバイナリ形式
var binaryExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".ico": {},
	".zip": {}, ".gz": {}, ".tar": {}, ".7z": {}, ".rar": {},
	".exe": {}, ".dll": {}, ".so": {}, ".bin": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".wav": {},
}

// documentExtractor はTextExtractorの実装
type documentExtractor struct{}

// NewTextExtractor は新しいTextExtractorを作成します
func NewTextExtractor() service.TextExtractor {
	return &documentExtractor{}
}

// Extract は拡張子と内容から形式を判定してテキストを返します
func (e *documentExtractor) Extract(ctx context.Context, raw []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := binaryExtensions[ext]; ok {
		return "", apperror.NewUnsupportedFormatError(filename)
	}

	var (
		text string
		err  error
	)
	if ext == ".docx" {
		text, err = extractDocx(raw, filename)
	} else {
		text, err = decodeText(raw, filename)
	}
	if err != nil {
		return "", err
	}

	// BOM付きUTF-8/UTF-16でもデコード後にNULが残ればバイナリとみなす
	if hasNUL(text) {
		return "", apperror.NewUnsupportedFormatError(filename)
	}
	return text, nil
}

// hasNUL はデコード済みのテキストにNULが含まれるかを判定します
func hasNUL(text string) bool {
	return strings.IndexByte(text, 0) >= 0
}
