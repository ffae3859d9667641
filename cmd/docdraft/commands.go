package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/yockii/docdraft/internal/service"
	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/docgen"
	"github.com/yockii/docdraft/pkg/logger"
	"github.com/yockii/docdraft/pkg/util"
)

// 输出配置时需要隐藏的键
var secretKeys = []string{"llm.api_key", "database.password", "security.api_keys"}

var nowFunc = time.Now

func runConvert(_ context.Context, cmd *cli.Command) error {
	src := cmd.Args().Get(0)
	if src == "" {
		return errors.New("no draft has been specified")
	}
	if cmd.Args().Len() > 2 {
		logger.Warn("命令行参数过多", logger.F("ignoring", cmd.Args().Slice()[2:]))
	}

	meta, err := loadMetadata(cmd.String("meta"))
	if err != nil {
		return err
	}
	draft, err := readDraft(src)
	if err != nil {
		return err
	}

	cfg := service.DocConfig()
	if n := cmd.Int("threshold"); n > 0 {
		cfg.HeadingThreshold = int(n)
	}
	gen := docgen.NewDocGenerator(cfg)
	doc, err := gen.Build(draft, meta)
	if err != nil {
		return fmt.Errorf("unable to build document: %w", err)
	}

	dst := cmd.Args().Get(1)
	if dst == "" {
		dst = docgen.FileName(meta.DocumentType)
	}
	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("destination '%s' already exists, use --overwrite", dst)
	}

	var buf bytes.Buffer
	if err := gen.WriteDocument(&buf, doc); err != nil {
		return fmt.Errorf("unable to render document: %w", err)
	}
	if err := util.SaveFile(dst, buf.Bytes()); err != nil {
		return fmt.Errorf("unable to save '%s': %w", dst, err)
	}

	logger.Info("文档已生成", logger.F("file", dst), logger.F("blocks", len(doc.Body)))
	fmt.Fprintln(cmd.Root().Writer, dst)
	return nil
}

func runPreview(_ context.Context, cmd *cli.Command) error {
	src := cmd.Args().Get(0)
	if src == "" {
		return errors.New("no draft has been specified")
	}
	draft, err := readDraft(src)
	if err != nil {
		return err
	}
	html, err := docgen.NewHtmlConverter().Convert(draft)
	if err != nil {
		return fmt.Errorf("unable to render preview: %w", err)
	}
	return writeOutput(cmd, cmd.Args().Get(1), func(w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

func runDumpConfig(_ context.Context, cmd *cli.Command) error {
	settings := config.AllSettings()
	for _, key := range secretKeys {
		maskSetting(settings, strings.Split(key, "."))
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}
	return writeOutput(cmd, cmd.Args().Get(0), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// maskSetting 将非空的敏感配置替换为掩码
func maskSetting(settings map[string]interface{}, path []string) {
	if len(path) == 0 {
		return
	}
	v, ok := settings[path[0]]
	if !ok {
		return
	}
	if len(path) > 1 {
		if sub, ok := v.(map[string]interface{}); ok {
			maskSetting(sub, path[1:])
		}
		return
	}
	switch val := v.(type) {
	case string:
		if val != "" {
			settings[path[0]] = "***"
		}
	case []string:
		if len(val) > 0 {
			settings[path[0]] = "***"
		}
	case []interface{}:
		if len(val) > 0 {
			settings[path[0]] = "***"
		}
	}
}

// loadMetadata 读取YAML格式的文档信息，学年为空时按当前日期补全
func loadMetadata(name string) (*docgen.Metadata, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read metadata '%s': %w", name, err)
	}
	meta := new(docgen.Metadata)
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("unable to parse metadata '%s': %w", name, err)
	}
	if meta.SchoolYear == "" {
		meta.SchoolYear = docgen.DefaultSchoolYear(nowFunc())
	}
	return meta, nil
}

func readDraft(name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("unable to read draft '%s': %w", name, err)
	}
	return string(data), nil
}

// writeOutput 写入文件，name 为空时写入标准输出
func writeOutput(cmd *cli.Command, name string, write func(io.Writer) error) (err error) {
	if name == "" {
		return write(cmd.Root().Writer)
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("unable to create destination directory '%s': %w", dir, err)
		}
	}
	out, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	return write(out)
}
