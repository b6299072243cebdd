package service

import "context"

// TextExtractor はアップロードされたバイト列からプレーンテキストを取り出します
// 未対応形式は UnsupportedFormatError、壊れた入力は DecodingError を返します
type TextExtractor interface {
	Extract(ctx context.Context, raw []byte, filename string) (string, error)
}
