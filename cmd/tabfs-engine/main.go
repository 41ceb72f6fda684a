// Command tabfs-engine runs the browser filesystem engine: it wires a route
// catalog to an in-memory browser.Fake (optionally with its debugger backed
// by a real Chrome DevTools Protocol target) and serves requests arriving
// over native messaging or, as a compatibility fallback, a local WebSocket
// until the transport closes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	tabfs "github.com/rsnous/tabfs"
	"github.com/rsnous/tabfs/browser"
	"github.com/rsnous/tabfs/routes"
	"github.com/rsnous/tabfs/transport/nativemessaging"
	"github.com/rsnous/tabfs/transport/wsfallback"
)

func main() {
	var (
		logLevel     string
		useWebSocket bool
		wsAddr       string
		cdpURL       string
	)
	flag.StringVar(&logLevel, "log-level", "warning", "log level: debug, info, warning, error")
	flag.BoolVar(&useWebSocket, "local-websocket", false, "serve over a local WebSocket instead of native messaging")
	flag.StringVar(&wsAddr, "local-websocket-addr", "localhost:9991", "address to listen on with -local-websocket")
	flag.StringVar(&cdpURL, "cdp-url", "", "Chrome DevTools Protocol target websocket URL to back the debugger routes")
	flag.Parse()

	configureLogging(logLevel)

	if err := run(useWebSocket, wsAddr, cdpURL); err != nil {
		fmt.Fprintf(os.Stderr, "tabfs-engine: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging(level string) {
	// commonlog.Configure verbosity: 1=Error, 2=Warning, 3=Notice, 4=Info, 5=Debug
	verbosity := 2
	switch level {
	case "debug":
		verbosity = 5
	case "info":
		verbosity = 4
	case "warning", "warn":
		verbosity = 2
	case "error":
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)
}

func run(useWebSocket bool, wsAddr string, cdpURL string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var liveBrowser browser.Browser = browser.NewFake()
	if cdpURL != "" {
		var err error
		liveBrowser, err = withCDPDebugger(ctx, liveBrowser, cdpURL)
		if err != nil {
			return err
		}
	}
	table := routes.New(liveBrowser, tabfs.ReadEngineSource).Table()

	t, err := buildTransport(ctx, useWebSocket, wsAddr)
	if err != nil {
		return err
	}

	d := tabfs.NewDispatcher(table, t)
	return d.Serve(ctx)
}

func buildTransport(ctx context.Context, useWebSocket bool, wsAddr string) (tabfs.Transport, error) {
	if useWebSocket {
		listener := wsfallback.NewListener(wsAddr)
		go listener.Serve(ctx)
		return listener.Accept(ctx)
	}
	return nativemessaging.New(os.Stdin, os.Stdout), nil
}
