package response

import (
	"time"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/entity"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
	doccmd "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/command"
	docqry "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/query"
)

// FileResponse はファイルのメタデータレスポンスです
type FileResponse struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	LatestVersion int       `json:"latestVersion"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// VersionResponse はバージョンのメタデータレスポンスです（本文なし）
type VersionResponse struct {
	VersionNumber   int       `json:"versionNumber"`
	Size            int64     `json:"size"`
	Checksum        string    `json:"checksum"`
	StorageLocation string    `json:"storageLocation"`
	ChangeSummary   *string   `json:"changeSummary"`
	CreatedAt       time.Time `json:"createdAt"`
	IsLatest        bool      `json:"isLatest"`
}

// DocumentResponse は本文付きのドキュメントレスポンスです
type DocumentResponse struct {
	FileID        string    `json:"fileId"`
	Filename      string    `json:"filename"`
	VersionNumber int       `json:"versionNumber"`
	LatestVersion int       `json:"latestVersion"`
	Content       string    `json:"content"`
	Size          int64     `json:"size"`
	Checksum      string    `json:"checksum"`
	ChangeSummary *string   `json:"changeSummary"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FileListItemResponse は一覧の1行です
type FileListItemResponse struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	LatestVersion int       `json:"latestVersion"`
	Size          int64     `json:"size"`
	ChangeSummary *string   `json:"changeSummary"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UploadDocumentResponse はアップロード結果レスポンスです
type UploadDocumentResponse struct {
	FileID        string  `json:"fileId"`
	Filename      string  `json:"filename"`
	VersionNumber int     `json:"versionNumber"`
	Created       bool    `json:"created"`
	ChangeSummary *string `json:"changeSummary"`
}

// ModifyDocumentResponse は更新結果レスポンスです
type ModifyDocumentResponse struct {
	FileID        string  `json:"fileId"`
	VersionNumber int     `json:"versionNumber"`
	ChangeSummary *string `json:"changeSummary"`
}

// VersionHistoryResponse はバージョン履歴レスポンスです
type VersionHistoryResponse struct {
	File     FileResponse      `json:"file"`
	Versions []VersionResponse `json:"versions"`
}

// CompareVersionsResponse は差分レスポンスです
type CompareVersionsResponse struct {
	FileID  string                 `json:"fileId"`
	From    int                    `json:"from"`
	To      int                    `json:"to"`
	Stats   valueobject.DiffStats  `json:"stats"`
	Summary string                 `json:"summary"`
	Lines   []valueobject.DiffLine `json:"lines"`
	Unified string                 `json:"unified"`
}

// ToFileResponse はFileをレスポンスに変換します
func ToFileResponse(f *entity.File) FileResponse {
	return FileResponse{
		ID:            f.ID.String(),
		Filename:      f.Name.Value(),
		LatestVersion: f.LatestVersion,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ToVersionResponse はFileVersionをレスポンスに変換します
func ToVersionResponse(v *entity.FileVersion, latestVersion int) VersionResponse {
	return VersionResponse{
		VersionNumber:   v.VersionNumber,
		Size:            v.Size,
		Checksum:        v.Checksum,
		StorageLocation: v.StorageLocation,
		ChangeSummary:   v.ChangeSummary,
		CreatedAt:       v.CreatedAt,
		IsLatest:        v.IsLatest(latestVersion),
	}
}

// ToDocumentResponse は取得結果をレスポンスに変換します
func ToDocumentResponse(output *docqry.GetDocumentOutput) DocumentResponse {
	file, v := output.File, output.Version
	return DocumentResponse{
		FileID:        file.ID.String(),
		Filename:      file.Name.Value(),
		VersionNumber: v.VersionNumber,
		LatestVersion: file.LatestVersion,
		Content:       v.Content,
		Size:          v.Size,
		Checksum:      v.Checksum,
		ChangeSummary: v.ChangeSummary,
		CreatedAt:     v.CreatedAt,
	}
}

// ToFileListResponse は一覧結果をレスポンスに変換します
func ToFileListResponse(output *docqry.ListDocumentsOutput) []FileListItemResponse {
	items := make([]FileListItemResponse, 0, len(output.Documents))
	for _, s := range output.Documents {
		items = append(items, FileListItemResponse{
			ID:            s.File.ID.String(),
			Filename:      s.File.Name.Value(),
			LatestVersion: s.File.LatestVersion,
			Size:          s.Latest.Size,
			ChangeSummary: s.Latest.ChangeSummary,
			UpdatedAt:     s.File.UpdatedAt,
		})
	}
	return items
}

// ToUploadDocumentResponse はアップロード結果をレスポンスに変換します
func ToUploadDocumentResponse(output *doccmd.UploadDocumentOutput) UploadDocumentResponse {
	return UploadDocumentResponse{
		FileID:        output.FileID.String(),
		Filename:      output.Filename,
		VersionNumber: output.Version.VersionNumber,
		Created:       output.Created,
		ChangeSummary: output.Version.ChangeSummary,
	}
}

// ToModifyDocumentResponse は更新結果をレスポンスに変換します
func ToModifyDocumentResponse(output *doccmd.ModifyDocumentOutput) ModifyDocumentResponse {
	return ModifyDocumentResponse{
		FileID:        output.FileID.String(),
		VersionNumber: output.Version.VersionNumber,
		ChangeSummary: output.Version.ChangeSummary,
	}
}

// ToVersionHistoryResponse はバージョン履歴をレスポンスに変換します
func ToVersionHistoryResponse(output *docqry.ListDocumentVersionsOutput) VersionHistoryResponse {
	versions := make([]VersionResponse, 0, len(output.Versions))
	for _, v := range output.Versions {
		versions = append(versions, ToVersionResponse(v, output.File.LatestVersion))
	}
	return VersionHistoryResponse{
		File:     ToFileResponse(output.File),
		Versions: versions,
	}
}

// ToCompareVersionsResponse は差分結果をレスポンスに変換します
func ToCompareVersionsResponse(output *docqry.CompareVersionsOutput) CompareVersionsResponse {
	lines := output.Lines
	if lines == nil {
		lines = []valueobject.DiffLine{}
	}
	return CompareVersionsResponse{
		FileID:  output.FileID.String(),
		From:    output.From,
		To:      output.To,
		Stats:   output.Stats,
		Summary: output.Summary,
		Lines:   lines,
		Unified: output.Unified,
	}
}
