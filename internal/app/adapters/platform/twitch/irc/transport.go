package irc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"

	"twitchvoice/internal/app/ports"
)

type dialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// WebSocketDialer opens IRC-over-WebSocket connections, optionally through a SOCKS5 proxy.
type WebSocketDialer struct {
	handshakeTimeout time.Duration
	dialContext      dialContextFunc
}

func NewWebSocketDialer(handshakeTimeout time.Duration, proxyAddress string) (*WebSocketDialer, error) {
	d := &WebSocketDialer{
		handshakeTimeout: handshakeTimeout,
		dialContext:      (&net.Dialer{Timeout: handshakeTimeout}).DialContext,
	}

	if proxyAddress != "" {
		socks, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("socks5 proxy: %w", err)
		}

		if cd, ok := socks.(proxy.ContextDialer); ok {
			d.dialContext = cd.DialContext
		} else {
			d.dialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return socks.Dial(network, addr)
			}
		}
	}

	return d, nil
}

func (d *WebSocketDialer) Dial(ctx context.Context, address string) (ports.Transport, error) {
	dialer := websocket.Dialer{
		NetDialContext:   d.dialContext,
		HandshakeTimeout: d.handshakeTimeout,
	}

	ws, resp, err := dialer.DialContext(ctx, address, nil)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	return &wsTransport{ws: ws}, nil
}

type wsTransport struct {
	ws *websocket.Conn
}

func (t *wsTransport) ReadFrame() (string, error) {
	for {
		msgType, data, err := t.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return string(data), nil
		}
	}
}

func (t *wsTransport) WriteLine(line string) error {
	return t.ws.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

func (t *wsTransport) Close() error {
	_ = t.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return t.ws.Close()
}
