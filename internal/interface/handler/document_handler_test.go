package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/tests/testutil"
)

type stubSummaryBackend struct {
	summary string
	err     error
}

func (s stubSummaryBackend) Summarize(context.Context, string) (string, error) {
	return s.summary, s.err
}

func uploadText(t *testing.T, srv *testutil.TestServer, filename, content string) *testutil.HTTPResponse {
	t.Helper()
	return testutil.DoUpload(t, srv.Echo, "/api/v1/files", filename, []byte(content))
}

func TestDocumentHandler_Upload(t *testing.T) {
	t.Run("creates a new file as version 1", func(t *testing.T) {
		srv := testutil.NewTestServer(t)

		resp := uploadText(t, srv, "notes.txt", "line1\nline2")

		resp.AssertStatus(http.StatusCreated).
			AssertJSONPathExists("data.fileId").
			AssertJSONPath("data.filename", "notes.txt").
			AssertJSONPath("data.versionNumber", float64(1)).
			AssertJSONPath("data.created", true).
			AssertJSONPath("data.changeSummary", nil)
	})

	t.Run("same filename adds a new version", func(t *testing.T) {
		srv := testutil.NewTestServer(t)
		first := uploadText(t, srv, "notes.txt", "line1\nline2").AssertStatus(http.StatusCreated)

		resp := uploadText(t, srv, "notes.txt", "line1\nline2\nline3")

		resp.AssertStatus(http.StatusOK).
			AssertJSONPath("data.fileId", first.GetString("data.fileId")).
			AssertJSONPath("data.versionNumber", float64(2)).
			AssertJSONPath("data.created", false).
			AssertJSONPath("data.changeSummary", "Added 1 line")
	})

	t.Run("missing file field", func(t *testing.T) {
		srv := testutil.NewTestServer(t)

		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodPost,
			Path:   "/api/v1/files",
		})

		resp.AssertStatus(http.StatusBadRequest).AssertJSONError("VALIDATION_ERROR")
	})

	t.Run("binary format is rejected", func(t *testing.T) {
		srv := testutil.NewTestServer(t)

		resp := uploadText(t, srv, "scan.pdf", "%PDF-1.7")

		resp.AssertStatus(http.StatusUnsupportedMediaType).AssertJSONError("UNSUPPORTED_FORMAT")
	})

	t.Run("utf-16 text decoding to NUL is rejected", func(t *testing.T) {
		srv := testutil.NewTestServer(t)
		raw := []byte{0xFF, 0xFE, 'a', 0x00, 0x00, 0x00, 'b', 0x00}

		resp := testutil.DoUpload(t, srv.Echo, "/api/v1/files", "notes.txt", raw)

		resp.AssertStatus(http.StatusUnsupportedMediaType).AssertJSONError("UNSUPPORTED_FORMAT")
	})

	t.Run("storage failure leaves no file behind", func(t *testing.T) {
		srv := testutil.NewTestServer(t, testutil.WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))

		uploadText(t, srv, "notes.txt", "hello").
			AssertStatus(http.StatusInternalServerError).
			AssertJSONError("STORAGE_WRITE_FAILED")

		list := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodGet, Path: "/api/v1/files"})
		list.AssertStatus(http.StatusOK).AssertJSONPath("meta.total", float64(0))
	})
}

func TestDocumentHandler_Get(t *testing.T) {
	srv := testutil.NewTestServer(t)
	fileID := uploadText(t, srv, "notes.txt", "v1").GetString("data.fileId")
	uploadText(t, srv, "notes.txt", "v2").AssertStatus(http.StatusOK)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
		wantBody   string
	}{
		{name: "latest", path: "/api/v1/files/" + fileID, wantStatus: http.StatusOK, wantBody: "v2"},
		{name: "explicit version", path: "/api/v1/files/" + fileID + "?version=1", wantStatus: http.StatusOK, wantBody: "v1"},
		{name: "version path", path: "/api/v1/files/" + fileID + "/versions/1", wantStatus: http.StatusOK, wantBody: "v1"},
		{name: "zero version", path: "/api/v1/files/" + fileID + "?version=0", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "non numeric version", path: "/api/v1/files/" + fileID + "/versions/abc", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "unknown version", path: "/api/v1/files/" + fileID + "?version=99", wantStatus: http.StatusNotFound, wantCode: "VERSION_NOT_FOUND"},
		{name: "invalid id", path: "/api/v1/files/not-a-uuid", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "unknown file", path: "/api/v1/files/00000000-0000-0000-0000-000000000001", wantStatus: http.StatusNotFound, wantCode: "FILE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodGet, Path: tt.path})

			resp.AssertStatus(tt.wantStatus)
			if tt.wantCode != "" {
				resp.AssertJSONError(tt.wantCode)
				return
			}
			resp.AssertJSONPath("data.content", tt.wantBody).
				AssertJSONPath("data.latestVersion", float64(2))
		})
	}
}

func TestDocumentHandler_Modify(t *testing.T) {
	t.Run("appends a version", func(t *testing.T) {
		srv := testutil.NewTestServer(t)
		fileID := uploadText(t, srv, "notes.txt", "a\nb").GetString("data.fileId")

		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodPut,
			Path:   "/api/v1/files/" + fileID,
			Body:   map[string]interface{}{"content": "a"},
		})

		resp.AssertStatus(http.StatusOK).
			AssertJSONPath("data.fileId", fileID).
			AssertJSONPath("data.versionNumber", float64(2)).
			AssertJSONPath("data.changeSummary", "Removed 1 line")
	})

	t.Run("empty content is allowed", func(t *testing.T) {
		srv := testutil.NewTestServer(t)
		fileID := uploadText(t, srv, "notes.txt", "a").GetString("data.fileId")

		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodPut,
			Path:   "/api/v1/files/" + fileID,
			Body:   map[string]interface{}{"content": ""},
		})

		resp.AssertStatus(http.StatusOK).AssertJSONPath("data.versionNumber", float64(2))
	})

	t.Run("content is required", func(t *testing.T) {
		srv := testutil.NewTestServer(t)
		fileID := uploadText(t, srv, "notes.txt", "a").GetString("data.fileId")

		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodPut,
			Path:   "/api/v1/files/" + fileID,
			Body:   map[string]interface{}{},
		})

		resp.AssertStatus(http.StatusBadRequest).
			AssertJSONError("VALIDATION_ERROR").
			AssertJSONPath("error.details.0.field", "content")
	})

	t.Run("content with NUL is rejected", func(t *testing.T) {
		srv := testutil.NewTestServer(t)
		fileID := uploadText(t, srv, "notes.txt", "a").GetString("data.fileId")

		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodPut,
			Path:   "/api/v1/files/" + fileID,
			Body:   map[string]interface{}{"content": "a\u0000b"},
		})

		resp.AssertStatus(http.StatusBadRequest).
			AssertJSONError("VALIDATION_ERROR").
			AssertJSONPath("error.details.0.field", "content")

		latest := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodGet,
			Path:   "/api/v1/files/" + fileID,
		})
		latest.AssertStatus(http.StatusOK).AssertJSONPath("data.versionNumber", float64(1))
	})

	t.Run("unknown file", func(t *testing.T) {
		srv := testutil.NewTestServer(t)

		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodPut,
			Path:   "/api/v1/files/00000000-0000-0000-0000-000000000001",
			Body:   map[string]interface{}{"content": "x"},
		})

		resp.AssertStatus(http.StatusNotFound).AssertJSONError("FILE_NOT_FOUND")
	})
}

func TestDocumentHandler_Delete(t *testing.T) {
	srv := testutil.NewTestServer(t)
	fileID := uploadText(t, srv, "notes.txt", "a").GetString("data.fileId")
	uploadText(t, srv, "notes.txt", "b").AssertStatus(http.StatusOK)

	testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodDelete, Path: "/api/v1/files/" + fileID}).
		AssertStatus(http.StatusOK).
		AssertJSONPath("meta.message", "file deleted")

	testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodGet, Path: "/api/v1/files/" + fileID}).
		AssertStatus(http.StatusNotFound).
		AssertJSONError("FILE_NOT_FOUND")

	exists, err := afero.DirExists(srv.Fs, "/versions/"+fileID)
	require.NoError(t, err)
	assert.False(t, exists, "content namespace should be removed")

	testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodDelete, Path: "/api/v1/files/" + fileID}).
		AssertStatus(http.StatusNotFound).
		AssertJSONError("FILE_NOT_FOUND")

	// 同名で再アップロードすると新しいファイルになる
	again := uploadText(t, srv, "notes.txt", "c")
	again.AssertStatus(http.StatusCreated).AssertJSONPath("data.versionNumber", float64(1))
	assert.NotEqual(t, fileID, again.GetString("data.fileId"))
}

func TestDocumentHandler_List(t *testing.T) {
	srv := testutil.NewTestServer(t)

	empty := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodGet, Path: "/api/v1/files"})
	empty.AssertStatus(http.StatusOK).AssertJSONPath("meta.total", float64(0))
	assert.Empty(t, empty.GetList("data"))

	uploadText(t, srv, "b.txt", "one")
	uploadText(t, srv, "a.txt", "one")
	uploadText(t, srv, "a.txt", "one\ntwo")

	resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{Method: http.MethodGet, Path: "/api/v1/files"})

	resp.AssertStatus(http.StatusOK).
		AssertJSONPath("meta.total", float64(2)).
		AssertJSONPath("data.0.filename", "a.txt").
		AssertJSONPath("data.0.latestVersion", float64(2)).
		AssertJSONPath("data.1.filename", "b.txt").
		AssertJSONPath("data.1.latestVersion", float64(1))
}

func TestDocumentHandler_ListVersions(t *testing.T) {
	srv := testutil.NewTestServer(t)
	fileID := uploadText(t, srv, "notes.txt", "a").GetString("data.fileId")
	uploadText(t, srv, "notes.txt", "a\nb")
	uploadText(t, srv, "notes.txt", "a\nb")

	resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
		Method: http.MethodGet,
		Path:   "/api/v1/files/" + fileID + "/versions",
	})

	resp.AssertStatus(http.StatusOK).
		AssertJSONPath("data.file.latestVersion", float64(3)).
		AssertJSONPath("data.versions.0.versionNumber", float64(1)).
		AssertJSONPath("data.versions.0.changeSummary", nil).
		AssertJSONPath("data.versions.0.isLatest", false).
		AssertJSONPath("data.versions.0.storageLocation", fileID+"/v1.txt").
		AssertJSONPath("data.versions.1.changeSummary", "Added 1 line").
		AssertJSONPath("data.versions.2.changeSummary", "No changes detected.").
		AssertJSONPath("data.versions.2.isLatest", true)
	assert.Len(t, resp.GetList("data.versions"), 3)
}

func TestDocumentHandler_Compare(t *testing.T) {
	srv := testutil.NewTestServer(t)
	fileID := uploadText(t, srv, "notes.txt", "a\nb").GetString("data.fileId")
	uploadText(t, srv, "notes.txt", "a\nc\nd")

	t.Run("diff between versions", func(t *testing.T) {
		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/api/v1/files/%s/diff?from=1&to=2", fileID),
		})

		resp.AssertStatus(http.StatusOK).
			AssertJSONPath("data.from", float64(1)).
			AssertJSONPath("data.to", float64(2)).
			AssertJSONPath("data.stats.added", float64(2)).
			AssertJSONPath("data.stats.removed", float64(1)).
			AssertJSONPath("data.summary", "Added 2 lines and removed 1 line").
			AssertJSONPath("data.lines.0.kind", "context").
			AssertJSONPath("data.lines.0.text", "a")
		assert.Contains(t, resp.GetString("data.unified"), "-b")
	})

	t.Run("same version has no changes", func(t *testing.T) {
		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/api/v1/files/%s/diff?from=2&to=2", fileID),
		})

		resp.AssertStatus(http.StatusOK).AssertJSONPath("data.summary", "No changes detected.")
	})

	t.Run("missing to", func(t *testing.T) {
		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/api/v1/files/%s/diff?from=1", fileID),
		})

		resp.AssertStatus(http.StatusBadRequest).AssertJSONError("VALIDATION_ERROR")
	})

	t.Run("unknown version", func(t *testing.T) {
		resp := testutil.DoRequest(t, srv.Echo, testutil.HTTPRequest{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/api/v1/files/%s/diff?from=1&to=9", fileID),
		})

		resp.AssertStatus(http.StatusNotFound).AssertJSONError("VERSION_NOT_FOUND")
	})
}

func TestDocumentHandler_ExternalSummarizer(t *testing.T) {
	t.Run("uses backend summary", func(t *testing.T) {
		srv := testutil.NewTestServer(t, testutil.WithSummaryBackend(stubSummaryBackend{summary: "  Added a closing line.  "}))
		uploadText(t, srv, "notes.txt", "a")

		uploadText(t, srv, "notes.txt", "a\nb").
			AssertStatus(http.StatusOK).
			AssertJSONPath("data.changeSummary", "Added a closing line.")
	})

	t.Run("falls back to local summary on failure", func(t *testing.T) {
		srv := testutil.NewTestServer(t, testutil.WithSummaryBackend(stubSummaryBackend{err: errors.New("quota exceeded")}))
		uploadText(t, srv, "notes.txt", "a")

		uploadText(t, srv, "notes.txt", "a\nb").
			AssertStatus(http.StatusOK).
			AssertJSONPath("data.changeSummary", "Added 1 line")
	})
}
