package entity

// FileSummary は一覧表示用にファイルと最新バージョンのメタデータを束ねます
type FileSummary struct {
	File   *File
	Latest *FileVersion
}
