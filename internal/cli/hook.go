package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ilindan-dev/alertgate/internal/domain/model"
	flag "github.com/spf13/pflag"
)

// hookPayload is the JSON object read from stdin in hook mode. Missing
// fields fall back to generic defaults so loosely-integrated callers
// still get a delivery.
type hookPayload struct {
	Event    string   `json:"event"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Level    string   `json:"level"`
	Channels []string `json:"channels,omitempty"`
}

func runHook(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("hook", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fatal(fmt.Errorf("cannot read stdin: %w", err))
	}

	payload := hookPayload{
		Event: "notification",
		Title: "Notification",
		Level: "info",
	}
	if err := json.Unmarshal(input, &payload); err != nil {
		return fatal(fmt.Errorf("invalid hook payload: %w", err))
	}

	lvl, err := model.ParseLevel(payload.Level)
	if err != nil {
		return fatal(err)
	}

	channels := make([]model.Channel, 0, len(payload.Channels))
	for _, name := range payload.Channels {
		channels = append(channels, model.Channel(name))
	}

	path, err := resolveConfigPath(*cfgPath)
	if err != nil {
		return fatal(err)
	}
	mgr, err := newManager(path)
	if err != nil {
		return fatal(err)
	}

	req := model.NewRequest(payload.Event, payload.Title, payload.Content, lvl, channels, false)
	return printResult(mgr.Send(ctx, req), false)
}
