package main

import (
	"context"

	"github.com/rsnous/tabfs/browser"
	"github.com/rsnous/tabfs/routes/cdp"
)

// cdpBackedBrowser overrides a Fake's Debugger with a real CDP client
// dialed against a debuggable target, while leaving tabs/windows/extensions/
// inputs on the fake — those have no Go-native equivalent to CDP until the
// extension-side native-messaging glue supplies them.
type cdpBackedBrowser struct {
	browser.Browser
	debugger *cdp.Client
}

func (b cdpBackedBrowser) Debugger() browser.Debugger { return b.debugger }

// withCDPDebugger dials targetWSURL and returns b with its Debugger capability
// backed by the real Chrome DevTools Protocol connection.
func withCDPDebugger(ctx context.Context, b browser.Browser, targetWSURL string) (browser.Browser, error) {
	client, err := cdp.Dial(ctx, targetWSURL)
	if err != nil {
		return nil, err
	}
	return cdpBackedBrowser{Browser: b, debugger: client}, nil
}
