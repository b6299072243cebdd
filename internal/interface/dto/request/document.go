package request

// ModifyDocumentRequest はドキュメント更新リクエストです
// 空の本文を許可するためポインタで受け取る
type ModifyDocumentRequest struct {
	Content *string `json:"content" validate:"required,nonul"`
}

// CompareVersionsRequest はバージョン比較のクエリパラメータです
type CompareVersionsRequest struct {
	From int `query:"from" validate:"required,min=1"`
	To   int `query:"to" validate:"required,min=1"`
}
