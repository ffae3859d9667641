package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/yockii/docdraft/pkg/config"
	"github.com/yockii/docdraft/pkg/logger"
)

const appName = "docdraft"

// initializeAppContext 命令行解析后、子命令执行前加载配置
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	_ = godotenv.Load()

	if err := config.Init(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return ctx, fmt.Errorf("unable to prepare logs: %w", err)
		}
		logger.SetLogger(l)
	}
	logger.Debug("程序启动", logger.F("args", os.Args))
	return ctx, nil
}

func destroyAppContext(_ context.Context, _ *cli.Command) error {
	// stderr 不支持 sync，忽略错误
	_ = logger.Sync()
	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "converts drafted administrative documents (markdown) to DOCX",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log progress to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "Converts a markdown draft to DOCX using document metadata",
				Action: runConvert,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "meta", Aliases: []string{"m"}, Required: true, Usage: "read document metadata from `FILE` (YAML)"},
					&cli.IntFlag{Name: "threshold", Usage: "maximum `LENGTH` of a whole-line bold heading (0 uses configuration)"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite destination if it exists"},
				},
				ArgsUsage: "DRAFT [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DRAFT:
    path to markdown draft, "-" reads from STDIN

DESTINATION:
    path to resulting DOCX file, if absent - file name is derived from
    document type (for example ke_hoach.docx) in current working directory
`, cli.CommandHelpTemplate),
			},
			{
				Name:      "preview",
				Usage:     "Renders a markdown draft to HTML",
				Action:    runPreview,
				ArgsUsage: "DRAFT [DESTINATION]",
			},
			{
				Name:      "dumpconfig",
				Usage:     "Dumps actual configuration (YAML), secrets are masked",
				Action:    runDumpConfig,
				ArgsUsage: "[DESTINATION]",
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	defer func() {
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}
