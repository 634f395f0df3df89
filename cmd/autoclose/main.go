package main

import (
	"flag"

	"github.com/ashabalin/go-taskboard/internal/app"
)

// Standalone runner for the overdue-autoclose sweep, for deployments
// that schedule it separately from the HTTP server.
func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustRunAutocloser(*once)
}
