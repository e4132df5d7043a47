package common

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// VerifyEndpoint dials the DevTools WebSocket endpoint and closes the
// connection again. It confirms the browser's remote debugging server
// accepts connections without speaking any CDP.
func VerifyEndpoint(ctx context.Context, wsURL string) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dialing DevTools endpoint %q: %w", wsURL, err)
	}
	return conn.Close()
}
