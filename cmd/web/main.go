// Command web starts the lease revenue analyzer server: dataset uploads,
// monthly rent calculation, report downloads, and live progress over
// WebSocket.
package main

import (
	"log/slog"
	"os"

	"leasecli/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
