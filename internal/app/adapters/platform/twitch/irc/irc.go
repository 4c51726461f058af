package irc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"twitchvoice/internal/app/adapters/metrics"
	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
)

var (
	ErrConnect          = errors.New("irc connect failed")
	ErrRead             = errors.New("irc read failed")
	ErrWrite            = errors.New("irc write failed")
	ErrHandshakeTimeout = errors.New("irc handshake timed out")
)

// Queues are the process-internal paths the client feeds and drains.
// The client only offers to the consumer queues: a full queue drops the item instead of stalling the loop.
type Queues struct {
	Generation ports.OfferPort[string]
	Speech     ports.OfferPort[string]
	Outbound   ports.SelectableReceiverPort[string]
}

// IRC owns one chat connection. Only the goroutine inside Run writes to it.
type IRC struct {
	log     logger.Logger
	cfg     *config.Config
	dialer  ports.DialerPort
	botInfo ports.BotInfoPort
	queues  Queues

	state  atomic.Int32
	connID atomic.Value
}

type frame struct {
	data string
	err  error
}

func New(log logger.Logger, cfg *config.Config, dialer ports.DialerPort, botInfo ports.BotInfoPort, queues Queues) *IRC {
	i := &IRC{
		log:     log,
		cfg:     cfg,
		dialer:  dialer,
		botInfo: botInfo,
		queues:  queues,
	}
	i.connID.Store("")
	return i
}

func (i *IRC) State() ports.ConnState {
	return ports.ConnState(i.state.Load())
}

func (i *IRC) ConnectionID() string {
	return i.connID.Load().(string)
}

// Run connects, performs the handshake and serves the connection until ctx is done or a
// transport error occurs. There is no reconnect: a returned error other than ctx.Err() is
// terminal for this connection and restarting is up to the caller.
func (i *IRC) Run(ctx context.Context) error {
	connID := uuid.NewString()
	i.connID.Store(connID)
	i.setState(ports.Connecting)

	i.log.Info("Connecting to chat", slog.String("address", i.cfg.ServerAddress), slog.String("conn", connID))
	conn, err := i.dialer.Dial(ctx, i.cfg.ServerAddress)
	if err != nil {
		i.log.Error("Failed to connect to chat", err, slog.String("conn", connID))
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer conn.Close()

	i.setState(ports.Handshaking)
	handshake := []string{
		PassLine(i.cfg.OAuthToken()),
		NickLine(i.cfg.Nick),
		JoinLine(i.cfg.ChannelName()),
		CapReqLine(TagsCapability),
	}
	for _, line := range handshake {
		if err := i.write(conn, line, "handshake"); err != nil {
			return err
		}
	}

	frames := make(chan frame)
	done := make(chan struct{})
	defer close(done)
	go i.readLoop(conn, frames, done)

	keepalive := time.NewTicker(i.cfg.AntiIdleInterval())
	defer keepalive.Stop()

	var handshakeDeadline <-chan time.Time
	if d := i.cfg.HandshakeTimeoutDuration(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		handshakeDeadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			i.log.Info("Chat client stopped", slog.String("conn", connID))
			return ctx.Err()

		case <-handshakeDeadline:
			if i.State() != ports.Active {
				i.log.Error("Server did not accept the connection in time", nil, slog.String("conn", connID))
				return ErrHandshakeTimeout
			}

		case <-keepalive.C:
			if err := i.write(conn, PingLine(i.cfg.PingHost), "keepalive"); err != nil {
				return err
			}

		case f := <-frames:
			if f.err != nil {
				i.log.Error("Failed to read frame from chat", f.err, slog.String("conn", connID))
				return fmt.Errorf("%w: %w", ErrRead, f.err)
			}
			if err := i.handleFrame(conn, f.data); err != nil {
				return err
			}

		case <-i.queues.Outbound.Ready():
			text, ok := i.queues.Outbound.TryRecv()
			if !ok {
				continue
			}
			i.log.Debug("Sending chat message", slog.String("text", text))
			if err := i.write(conn, PrivmsgLine(i.cfg.ChannelName(), text), "privmsg"); err != nil {
				return err
			}
		}
	}
}

func (i *IRC) readLoop(conn ports.Transport, frames chan<- frame, done <-chan struct{}) {
	for {
		data, err := conn.ReadFrame()
		select {
		case frames <- frame{data: data, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (i *IRC) handleFrame(conn ports.Transport, data string) error {
	metrics.FramesReceived.Inc()

	for _, line := range SplitFrame(data) {
		i.log.Trace("RX", slog.String("line", line))

		msg, err := ParseLine(line)
		if err != nil {
			metrics.MalformedLines.Inc()
			i.log.Warn("Skipping unparseable line", slog.String("line", line))
		}
		metrics.LinesReceived.With(prometheus.Labels{"command": msg.Command}).Inc()

		if err := i.dispatch(conn, msg); err != nil {
			return err
		}
	}
	return nil
}

func (i *IRC) dispatch(conn ports.Transport, msg *ports.IRCMessage) error {
	switch msg.Command {
	case "001":
		i.botInfo.Set(msg.Destination, i.cfg.ChannelName())
		i.setState(ports.Active)
		i.log.Info("Connected to chat", slog.String("nick", msg.Destination), slog.String("channel", i.cfg.ChannelName()))
	case "PRIVMSG":
		i.log.Debug("New message", slog.String("username", msg.Sender), slog.String("text", msg.Payload))
		i.offer("generation", i.queues.Generation, fmt.Sprintf("[%s]: %s", msg.Sender, msg.Payload))
		i.offer("speech", i.queues.Speech, msg.Payload)
	case "PING":
		host := msg.Payload
		if host == "" {
			host = i.cfg.PingHost
		}
		return i.write(conn, PongLine(host), "pong")
	default:
		i.log.Trace("Unhandled command", slog.String("command", msg.Command))
	}
	return nil
}

func (i *IRC) offer(name string, q ports.OfferPort[string], item string) {
	if !q.TrySend(item) {
		i.log.Warn("Queue is full, item dropped", slog.String("queue", name))
	}
}

func (i *IRC) write(conn ports.Transport, line, kind string) error {
	if err := conn.WriteLine(line); err != nil {
		i.log.Error("Failed to write line to chat", err, slog.String("kind", kind))
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	metrics.LinesSent.With(prometheus.Labels{"kind": kind}).Inc()

	if strings.HasPrefix(line, "PASS ") {
		line = "PASS oauth:***"
	}
	i.log.Trace("TX", slog.String("line", line))
	return nil
}

func (i *IRC) setState(s ports.ConnState) {
	i.state.Store(int32(s))
	metrics.ConnectionState.Set(float64(s))
}
