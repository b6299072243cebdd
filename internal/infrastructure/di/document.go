package di

import (
	doccmd "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/command"
	docqry "github.com/Vladislavlhp7/data-lineage/internal/usecase/document/query"
)

// DocumentUseCases はドキュメント関連のUseCaseを保持します
type DocumentUseCases struct {
	// Commands
	Upload *doccmd.UploadDocumentCommand
	Modify *doccmd.ModifyDocumentCommand
	Delete *doccmd.DeleteDocumentCommand

	// Queries
	Get          *docqry.GetDocumentQuery
	List         *docqry.ListDocumentsQuery
	ListVersions *docqry.ListDocumentVersionsQuery
	Compare      *docqry.CompareVersionsQuery
}

// NewDocumentUseCases は新しいDocumentUseCasesを作成します
func NewDocumentUseCases(c *Container) *DocumentUseCases {
	return &DocumentUseCases{
		Upload: doccmd.NewUploadDocumentCommand(c.Ledger, c.Extractor, c.LatestCache),
		Modify: doccmd.NewModifyDocumentCommand(c.Ledger, c.LatestCache),
		Delete: doccmd.NewDeleteDocumentCommand(c.Ledger, c.LatestCache),

		Get:          docqry.NewGetDocumentQuery(c.Ledger, c.LatestCache),
		List:         docqry.NewListDocumentsQuery(c.Ledger),
		ListVersions: docqry.NewListDocumentVersionsQuery(c.Ledger),
		Compare:      docqry.NewCompareVersionsQuery(c.Ledger, c.Differ),
	}
}
