// Package cli implements the alertgate subcommands: send, hook, test,
// init and serve.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ilindan-dev/alertgate/internal/app"
	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/ilindan-dev/alertgate/internal/logger"
	"github.com/ilindan-dev/alertgate/internal/manager"
	"github.com/ilindan-dev/alertgate/internal/senders"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
)

const usage = `alertgate - multi-channel notification dispatcher

Usage:
  alertgate send  -e <event> -t <title> -c <content> [-l <level>] [-C <channels>] [-f]
  alertgate hook                 read one JSON payload from stdin
  alertgate test  <channel>      send a probe message to one channel
  alertgate init                 write the default config file
  alertgate serve                run the HTTP hook daemon

Flags common to all commands:
  --config <path>   config file (default ~/.config/alertgate/config.json)
`

// Run dispatches the subcommand and returns the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "send":
		return runSend(ctx, args[1:])
	case "hook":
		return runHook(ctx, args[1:])
	case "test":
		return runTest(ctx, args[1:])
	case "init":
		return runInit(args[1:])
	case "serve":
		return runServe(args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", args[0], usage)
		return 2
	}
}

// configFlag registers the shared --config flag and returns its target.
func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "path to the config file")
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultPath()
}

// newManager builds the full one-shot pipeline: config, logger, senders,
// dedup store and optional history log.
func newManager(configPath string) (*manager.Manager, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := senders.NewRegistry(cfg, log)
	if err != nil {
		return nil, err
	}
	if len(registry) == 0 {
		return nil, config.ErrNoChannels
	}

	history, err := app.NewHistory(cfg, log)
	if err != nil {
		return nil, err
	}

	return manager.NewManager(cfg, registry, app.NewDedupStore(cfg, log), history, log)
}

func fatal(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}

// printResult writes the aggregate result JSON to stdout and converts the
// outcome into the exit code.
func printResult(res model.AggregateResult, pretty bool) int {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(res, "", "  ")
	} else {
		out, err = json.Marshal(res)
	}
	if err != nil {
		return fatal(err)
	}
	fmt.Println(string(out))
	return res.ExitCode()
}

func runSend(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	event := fs.StringP("event", "e", "", "event type (e.g. build_failure)")
	title := fs.StringP("title", "t", "", "notification title")
	content := fs.StringP("content", "c", "", "notification content")
	level := fs.StringP("level", "l", "info", "severity: info, warning, critical, success")
	channelList := fs.StringSliceP("channels", "C", nil, "explicit channel list, overrides event routing")
	force := fs.BoolP("force", "f", false, "bypass quiet hours and dedup")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *event == "" || *title == "" {
		fmt.Fprintln(os.Stderr, "send: --event and --title are required")
		return 2
	}

	lvl, err := model.ParseLevel(*level)
	if err != nil {
		return fatal(err)
	}

	channels := make([]model.Channel, 0, len(*channelList))
	for _, name := range *channelList {
		channels = append(channels, model.Channel(strings.TrimSpace(name)))
	}

	path, err := resolveConfigPath(*cfgPath)
	if err != nil {
		return fatal(err)
	}
	mgr, err := newManager(path)
	if err != nil {
		return fatal(err)
	}

	res := mgr.Send(ctx, model.NewRequest(*event, *title, *content, lvl, channels, *force))
	return printResult(res, true)
}

func runTest(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "test: exactly one channel argument is required")
		return 2
	}
	channel := model.Channel(fs.Arg(0))

	path, err := resolveConfigPath(*cfgPath)
	if err != nil {
		return fatal(err)
	}
	mgr, err := newManager(path)
	if err != nil {
		return fatal(err)
	}

	req := model.NewRequest(
		"test",
		"Test Notification",
		fmt.Sprintf("This is a test message from alertgate to %s", channel),
		model.LevelInfo,
		[]model.Channel{channel},
		true, // probes bypass quiet hours and dedup
	)
	return printResult(mgr.Send(ctx, req), true)
}

func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path, err := resolveConfigPath(*cfgPath)
	if err != nil {
		return fatal(err)
	}
	if err := config.Init(path); err != nil {
		return fatal(err)
	}
	fmt.Printf("Configuration initialized at: %s\n", path)
	fmt.Println("Please edit the configuration file to add your webhook URLs.")
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path, err := resolveConfigPath(*cfgPath)
	if err != nil {
		return fatal(err)
	}

	fx.New(app.ServeModule(path)).Run()
	return 0
}
