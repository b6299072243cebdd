package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPRequest represents a test HTTP request
type HTTPRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// HTTPResponse wraps the HTTP response for testing
type HTTPResponse struct {
	*httptest.ResponseRecorder
	t *testing.T
}

// DoRequest performs a JSON request against the test server
func DoRequest(t *testing.T, e *echo.Echo, req HTTPRequest) *HTTPResponse {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		jsonBody, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(jsonBody)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, body)
	httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return serve(t, e, httpReq)
}

// DoUpload posts content as a multipart "file" field
func DoUpload(t *testing.T, e *echo.Echo, path, filename string, content []byte) *HTTPResponse {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	httpReq := httptest.NewRequest(http.MethodPost, path, &buf)
	httpReq.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	return serve(t, e, httpReq)
}

func serve(t *testing.T, e *echo.Echo, req *http.Request) *HTTPResponse {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return &HTTPResponse{ResponseRecorder: rec, t: t}
}

// AssertStatus asserts the response status code
func (r *HTTPResponse) AssertStatus(expected int) *HTTPResponse {
	assert.Equal(r.t, expected, r.Code, "unexpected status code, body: %s", r.Body.String())
	return r
}

// AssertJSONPath asserts a specific path in the JSON response
func (r *HTTPResponse) AssertJSONPath(path string, expected interface{}) *HTTPResponse {
	value := getJSONPath(r.GetJSON(), path)
	assert.Equal(r.t, expected, value, "JSON path %s mismatch", path)
	return r
}

// AssertJSONPathExists asserts a path exists in the JSON response
func (r *HTTPResponse) AssertJSONPathExists(path string) *HTTPResponse {
	value := getJSONPath(r.GetJSON(), path)
	assert.NotNil(r.t, value, "JSON path %s does not exist", path)
	return r
}

// AssertJSONError asserts the response contains an error with expected code
func (r *HTTPResponse) AssertJSONError(code string) *HTTPResponse {
	errorObj, ok := r.GetJSON()["error"].(map[string]interface{})
	require.True(r.t, ok, "response does not contain error object: %s", r.Body.String())
	assert.Equal(r.t, code, errorObj["code"], "error code mismatch")
	return r
}

// GetJSON parses the response body as JSON
func (r *HTTPResponse) GetJSON() map[string]interface{} {
	var result map[string]interface{}
	require.NoError(r.t, json.Unmarshal(r.Body.Bytes(), &result))
	return result
}

// GetString returns the string at path, failing the test if absent
func (r *HTTPResponse) GetString(path string) string {
	s, ok := getJSONPath(r.GetJSON(), path).(string)
	require.True(r.t, ok, "JSON path %s is not a string: %s", path, r.Body.String())
	return s
}

// GetList returns the array at path
func (r *HTTPResponse) GetList(path string) []interface{} {
	list, ok := getJSONPath(r.GetJSON(), path).([]interface{})
	require.True(r.t, ok, "JSON path %s is not an array: %s", path, r.Body.String())
	return list
}

// getJSONPath gets a value from nested JSON using dot notation
// Numeric segments index into arrays (e.g., "data.versions.0.versionNumber")
func getJSONPath(data map[string]interface{}, path string) interface{} {
	current := interface{}(data)

	for _, key := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]interface{}:
			current = v[key]
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			current = v[i]
		default:
			return nil
		}
	}

	return current
}
