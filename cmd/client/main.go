package main

import (
	"log/slog"
	"os"

	"github.com/hwaller/rosterdesk/pkg/client"
	"github.com/hwaller/rosterdesk/pkg/logging"
	"github.com/hwaller/rosterdesk/ui"
)

func main() {
	// Defaults to "info"/"text"; override with ROSTERDESK_LOG_LEVEL and
	// ROSTERDESK_LOG_FORMAT.
	opts := logging.FromEnv()
	opts.Output = os.Stdout
	_ = logging.Setup(opts)

	settings := client.LoadSettings()

	api, err := client.NewAPI(settings.ServerURL)
	if err != nil {
		slog.Error("invalid server URL", "url", settings.ServerURL, "err", err)
		os.Exit(1)
	}

	engine := client.NewEngine(api, client.NewSessionStore())
	app := ui.NewApp(engine)
	app.Run()
}
