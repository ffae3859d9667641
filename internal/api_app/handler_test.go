package appapi

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"

	"github.com/yockii/docdraft/internal/generator"
	"github.com/yockii/docdraft/internal/ingest"
	"github.com/yockii/docdraft/internal/model"
	"github.com/yockii/docdraft/internal/service"
	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/database"
	"github.com/yockii/docdraft/pkg/docgen"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, database.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db"))))
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, model.AutoMigrate(database.GetDB()))

	docCfg := docgen.DefaultConfig()
	docCfg.Now = func() time.Time { return time.Date(2024, 9, 5, 0, 0, 0, 0, time.Local) }

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api := app.Group("/api/v1")
	handlers := []Handler{
		NewDraftHandler(service.NewDraftService(ingest.NewExtractor(1024), generator.NewGenerator(generator.MockLLM{}, "gemini-2.5-flash", "gemini-3-pro-preview"))),
		NewExportHandler(service.NewExportService(docCfg)),
	}
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return do(t, app, req)
}

func uploadRequest(t *testing.T, files map[string][]byte, field string, metadata string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	if metadata != "" {
		require.NoError(t, w.WriteField("metadata", metadata))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/metadata", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

const exportBody = `{
  "draft": "# KẾ HOẠCH\nNội dung.",
  "metadata": {
    "documentType": "Kế hoạch",
    "governingBody": "UBND huyện Tân Phú",
    "unitName": "Trường THCS An Bình",
    "managerName": "Nguyễn Văn A"
  }
}`

func TestExtractMetadataEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := uploadRequest(t, map[string][]byte{"yeu-cau.md": []byte("Trường THCS An Bình")}, "requirements", `{"unitName":"Trường THCS An Bình"}`)
	resp, body := do(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	assert.Equal(t, "Kế hoạch", gjson.GetBytes(body, "data.metadata.documentType").String())
	assert.Equal(t, "Trường THCS An Bình", gjson.GetBytes(body, "data.metadata.unitName").String())
	assert.NotEmpty(t, gjson.GetBytes(body, "data.metadata.schoolYear").String())
	assert.Equal(t, "requirement", gjson.GetBytes(body, "data.references.0.group").String())
	assert.Equal(t, "text", gjson.GetBytes(body, "data.references.0.kind").String())
}

func TestExtractMetadataEndpointErrors(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, uploadRequest(t, nil, "requirements", ""))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, uploadRequest(t, map[string][]byte{"a.bin": {0x00, 0x01}}, "legal", ""))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	resp, _ = do(t, app, uploadRequest(t, map[string][]byte{"a.txt": bytes.Repeat([]byte("a"), 2048)}, "legal", ""))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, _ = do(t, app, uploadRequest(t, map[string][]byte{"a.txt": []byte("a")}, "legal", "{not json"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOutlineAndDraftEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/api/v1/outline", `{"metadata":{"documentType":"Kế hoạch"},"references":[{"name":"a.md","group":"legal","content":"Luật"}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	items := gjson.GetBytes(body, "data").Array()
	require.Len(t, items, 3)
	assert.True(t, items[0].Get("selected").Bool())

	resp, body = postJSON(t, app, "/api/v1/draft", `{"metadata":{"documentType":"Kế hoạch"},"outline":[{"id":"1","title":"I. MỤC ĐÍCH","level":1,"selected":true}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.True(t, strings.HasPrefix(gjson.GetBytes(body, "data.draft").String(), "# KẾ HOẠCH"))

	resp, _ = postJSON(t, app, "/api/v1/draft", `{"outline":[{"id":"1","title":"I","level":1,"selected":false}]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestModelSelection(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `["gemini-2.5-flash","gemini-3-pro-preview"]`, gjson.GetBytes(body, "data.models").Raw)

	resp, body = postJSON(t, app, "/api/v1/outline", `{"model":"gemini-3-pro-preview","metadata":{"documentType":"Kế hoạch"}}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, gjson.GetBytes(body, "data").Array(), 3)

	resp, _ = postJSON(t, app, "/api/v1/outline", `{"model":"gpt-unknown","metadata":{"documentType":"Kế hoạch"}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, app, "/api/v1/draft", `{"model":"gpt-unknown","outline":[{"id":"1","title":"I. MỤC ĐÍCH","level":1,"selected":true}]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPreviewEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp, body := postJSON(t, app, "/api/v1/preview", `{"draft":"# KẾ HOẠCH\n**Nội dung**"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	html := gjson.GetBytes(body, "data.html").String()
	assert.Contains(t, html, "<h1>KẾ HOẠCH</h1>")
	assert.Contains(t, html, "<strong>Nội dung</strong>")
}

func TestExportEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/api/v1/export", exportBody)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, docxContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "ke_hoach.docx")
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
	assert.Equal(t, "PK", string(body[:2]))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports?documentType="+url.QueryEscape("Kế hoạch"), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), gjson.GetBytes(body, "data.total").Int())
	assert.Equal(t, "ke_hoach.docx", gjson.GetBytes(body, "data.items.0.fileName").String())
	id := gjson.GetBytes(body, "data.items.0.id").String()

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/"+id, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Trường THCS An Bình", gjson.GetBytes(body, "data.unitName").String())

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/999", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/exports/abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportEndpointErrors(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/api/v1/export", `{"draft":"# X"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int64(fiber.StatusBadRequest), gjson.GetBytes(body, "code").Int())

	resp, _ = postJSON(t, app, "/api/v1/export", `{"draft":"","metadata":{}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, app, "/api/v1/export", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
