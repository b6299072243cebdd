package handler

import (
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Vladislavlhp7/data-lineage/internal/interface/dto/request"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/dto/response"
	"github.com/Vladislavlhp7/data-lineage/internal/interface/presenter"
	doccmd "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/command"
	docqry "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/query"
	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
)

// UploadFormField はアップロードのマルチパートフィールド名です
const UploadFormField = "file"

// DocumentHandler はドキュメント操作関連のHTTPハンドラーです
type DocumentHandler struct {
	uploadCommand     *doccmd.UploadDocumentCommand
	modifyCommand     *doccmd.ModifyDocumentCommand
	deleteCommand     *doccmd.DeleteDocumentCommand
	getQuery          *docqry.GetDocumentQuery
	listQuery         *docqry.ListDocumentsQuery
	listVersionsQuery *docqry.ListDocumentVersionsQuery
	compareQuery      *docqry.CompareVersionsQuery
}

// NewDocumentHandler は新しいDocumentHandlerを作成します
func NewDocumentHandler(
	uploadCommand *doccmd.UploadDocumentCommand,
	modifyCommand *doccmd.ModifyDocumentCommand,
	deleteCommand *doccmd.DeleteDocumentCommand,
	getQuery *docqry.GetDocumentQuery,
	listQuery *docqry.ListDocumentsQuery,
	listVersionsQuery *docqry.ListDocumentVersionsQuery,
	compareQuery *docqry.CompareVersionsQuery,
) *DocumentHandler {
	return &DocumentHandler{
		uploadCommand:     uploadCommand,
		modifyCommand:     modifyCommand,
		deleteCommand:     deleteCommand,
		getQuery:          getQuery,
		listQuery:         listQuery,
		listVersionsQuery: listVersionsQuery,
		compareQuery:      compareQuery,
	}
}

// Upload はドキュメントをアップロードします
// 同名ファイルがあれば新しいバージョンとして追加する
// POST /api/v1/files
func (h *DocumentHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(UploadFormField)
	if err != nil {
		return apperror.NewValidationError("file is required", []apperror.FieldError{
			{Field: UploadFormField, Message: "multipart field is required"},
		})
	}

	src, err := fh.Open()
	if err != nil {
		return apperror.NewInvalidRequestError("failed to read uploaded file")
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return apperror.NewInvalidRequestError("failed to read uploaded file")
	}

	output, err := h.uploadCommand.Execute(c.Request().Context(), doccmd.UploadDocumentInput{
		Filename: fh.Filename,
		Content:  raw,
	})
	if err != nil {
		return err
	}

	if output.Created {
		return presenter.Created(c, response.ToUploadDocumentResponse(output))
	}
	return presenter.OK(c, response.ToUploadDocumentResponse(output))
}

// List は全ドキュメントを最新バージョンの情報付きで返します
// GET /api/v1/files
func (h *DocumentHandler) List(c echo.Context) error {
	output, err := h.listQuery.Execute(c.Request().Context())
	if err != nil {
		return err
	}

	items := response.ToFileListResponse(output)
	return presenter.List(c, items, len(items))
}

// Get はドキュメントの最新または指定バージョンを返します
// GET /api/v1/files/:id?version=N
func (h *DocumentHandler) Get(c echo.Context) error {
	fileID, err := parseFileID(c)
	if err != nil {
		return err
	}

	var versionNumber *int
	if raw := c.QueryParam("version"); raw != "" {
		v, err := parseVersionNumber(raw)
		if err != nil {
			return err
		}
		versionNumber = &v
	}

	return h.get(c, fileID, versionNumber)
}

// GetVersion は指定バージョンの本文を返します
// GET /api/v1/files/:id/versions/:version
func (h *DocumentHandler) GetVersion(c echo.Context) error {
	fileID, err := parseFileID(c)
	if err != nil {
		return err
	}
	v, err := parseVersionNumber(c.Param("version"))
	if err != nil {
		return err
	}

	return h.get(c, fileID, &v)
}

func (h *DocumentHandler) get(c echo.Context, fileID uuid.UUID, versionNumber *int) error {
	output, err := h.getQuery.Execute(c.Request().Context(), docqry.GetDocumentInput{
		FileID:        fileID,
		VersionNumber: versionNumber,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToDocumentResponse(output))
}

// Modify は本文を差し替えて新しいバージョンを作成します
// PUT /api/v1/files/:id
func (h *DocumentHandler) Modify(c echo.Context) error {
	fileID, err := parseFileID(c)
	if err != nil {
		return err
	}

	var req request.ModifyDocumentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.modifyCommand.Execute(c.Request().Context(), doccmd.ModifyDocumentInput{
		FileID:  fileID,
		Content: *req.Content,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToModifyDocumentResponse(output))
}

// Delete はドキュメントと全バージョンを削除します
// DELETE /api/v1/files/:id
func (h *DocumentHandler) Delete(c echo.Context) error {
	fileID, err := parseFileID(c)
	if err != nil {
		return err
	}

	if err := h.deleteCommand.Execute(c.Request().Context(), doccmd.DeleteDocumentInput{FileID: fileID}); err != nil {
		return err
	}

	return presenter.Deleted(c, "file deleted")
}

// ListVersions はバージョン履歴を番号昇順で返します
// GET /api/v1/files/:id/versions
func (h *DocumentHandler) ListVersions(c echo.Context) error {
	fileID, err := parseFileID(c)
	if err != nil {
		return err
	}

	output, err := h.listVersionsQuery.Execute(c.Request().Context(), docqry.ListDocumentVersionsInput{
		FileID: fileID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToVersionHistoryResponse(output))
}

// Compare は2つのバージョン間の差分を返します
// GET /api/v1/files/:id/diff?from=N&to=M
func (h *DocumentHandler) Compare(c echo.Context) error {
	fileID, err := parseFileID(c)
	if err != nil {
		return err
	}

	var req request.CompareVersionsRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("from and to must be positive integers", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.compareQuery.Execute(c.Request().Context(), docqry.CompareVersionsInput{
		FileID: fileID,
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToCompareVersionsResponse(output))
}

func parseFileID(c echo.Context) (uuid.UUID, error) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NewValidationError("invalid file ID", []apperror.FieldError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}
	return fileID, nil
}

func parseVersionNumber(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apperror.NewValidationError("version must be a positive integer", []apperror.FieldError{
			{Field: "version", Message: "must be >= 1"},
		})
	}
	return v, nil
}
