package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/docdraft/pkg/config"
)

const testMeta = `documentType: Kế hoạch
governingBody: UBND huyện Tân Phú
unitName: Trường THCS An Bình
managerName: Nguyễn Văn A
`

const testDraft = "# KẾ HOẠCH\n## NĂM HỌC 2024 - 2025\nNội dung **chính**.\n| STT | Việc |\n|---|---|\n| 1 | Khai giảng |\n"

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	full := append([]string{appName, "--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...)
	err := app.Run(context.Background(), full)
	return out.String(), err
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	meta := writeFixture(t, dir, "meta.yaml", testMeta)
	draft := writeFixture(t, dir, "draft.md", testDraft)
	dst := filepath.Join(dir, "out", "ke_hoach.docx")

	out, err := run(t, "convert", "--meta", meta, draft, dst)
	require.NoError(t, err)
	assert.Contains(t, out, dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))

	_, err = run(t, "convert", "--meta", meta, draft, dst)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "convert", "--meta", meta, "--overwrite", draft, dst)
	assert.NoError(t, err)
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	draft := writeFixture(t, dir, "draft.md", testDraft)

	_, err := run(t, "convert", draft)
	assert.Error(t, err)

	_, err = run(t, "convert", "--meta", filepath.Join(dir, "none.yaml"), draft)
	assert.ErrorContains(t, err, "unable to read metadata")

	broken := writeFixture(t, dir, "broken.yaml", "documentType: [")
	_, err = run(t, "convert", "--meta", broken, draft)
	assert.ErrorContains(t, err, "unable to parse metadata")

	meta := writeFixture(t, dir, "meta.yaml", testMeta)
	_, err = run(t, "convert", "--meta", meta)
	assert.ErrorContains(t, err, "no draft")
}

func TestLoadMetadataDefaultsSchoolYear(t *testing.T) {
	dir := t.TempDir()
	meta, err := loadMetadata(writeFixture(t, dir, "meta.yaml", testMeta))
	require.NoError(t, err)
	assert.Equal(t, "Kế hoạch", meta.DocumentType)
	assert.Equal(t, "Nguyễn Văn A", meta.ManagerName)
	assert.NotEmpty(t, meta.SchoolYear)
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	draft := writeFixture(t, dir, "draft.md", testDraft)

	out, err := run(t, "preview", draft)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>KẾ HOẠCH</h1>")
	assert.Contains(t, out, "<table>")

	dst := filepath.Join(dir, "html", "draft.html")
	_, err = run(t, "preview", draft, dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>chính</strong>")
}

func TestDumpConfigMasksSecrets(t *testing.T) {
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "missing.yaml")))
	config.Set("llm.api_key", "very-secret-key")
	t.Cleanup(func() { config.Set("llm.api_key", "") })

	out, err := run(t, "dumpconfig")
	require.NoError(t, err)
	assert.NotContains(t, out, "very-secret-key")
	assert.Contains(t, out, "***")
	assert.Contains(t, out, "heading_threshold: 100")
}

func TestMaskSetting(t *testing.T) {
	settings := map[string]interface{}{
		"llm":      map[string]interface{}{"api_key": "k", "model": "m"},
		"security": map[string]interface{}{"api_keys": []string{}},
	}
	maskSetting(settings, []string{"llm", "api_key"})
	maskSetting(settings, []string{"security", "api_keys"})
	maskSetting(settings, []string{"missing", "key"})

	assert.Equal(t, "***", settings["llm"].(map[string]interface{})["api_key"])
	assert.Equal(t, "m", settings["llm"].(map[string]interface{})["model"])
	assert.Equal(t, []string{}, settings["security"].(map[string]interface{})["api_keys"])
}
