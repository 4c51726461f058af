package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	router "twitchvoice/internal/app/adapters/http"
	"twitchvoice/internal/app/adapters/metrics"
	"twitchvoice/internal/app/adapters/platform/twitch/irc"
	"twitchvoice/internal/app/adapters/responder"
	"twitchvoice/internal/app/adapters/speech"
	"twitchvoice/internal/app/domain/botinfo"
	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/pkg/logger"
	"twitchvoice/pkg/queue"
)

type Options struct {
	ConfigPath string
	LogFile    string
}

var policies = map[string]queue.Policy{
	"block":       queue.Block,
	"drop_oldest": queue.DropOldest,
	"reject":      queue.Reject,
}

// Run wires the bot together and blocks until the chat connection ends or ctx is cancelled.
// Cancellation is a clean stop and returns nil.
func Run(ctx context.Context, o Options) error {
	log := logger.New(logger.Options{FilePath: o.LogFile})

	manager := config.New(log, o.ConfigPath)
	cfg := manager.Get()
	log.SetLogLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	log.Info("Config loaded", slog.String("path", manager.Path()), slog.String("source", manager.Source().String()))

	generation := newQueue(cfg, "generation")
	speechQueue := newQueue(cfg, "speech")
	outbound := newQueue(cfg, "outbound")

	info := botinfo.New()

	dialer, err := irc.NewWebSocketDialer(cfg.ConnectTimeoutDuration(), cfg.ProxyAddress)
	if err != nil {
		log.Error("Failed to create dialer", err)
		return err
	}

	chat := irc.New(logger.NewPrefixedLogger(log, "irc"), cfg, dialer, info, irc.Queues{
		Generation: generation,
		Speech:     speechQueue,
		Outbound:   outbound,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Component stopped", err, slog.String("component", name))
			}
		}()
	}

	if cfg.Responder.Enabled {
		gen := responder.NewOpenAIGenerator(cfg.Responder)
		r := responder.New(logger.NewPrefixedLogger(log, "responder"), cfg.Responder, info, gen, generation, outbound)
		start("responder", r.Run)
	} else {
		log.Info("Responder disabled, generation input is discarded")
		start("responder", drain(generation))
	}

	if cfg.Speech.Enabled {
		prefixed := logger.NewPrefixedLogger(log, "speech")
		s := speech.New(prefixed, cfg.Speech.Voice, speech.NewLogSynthesizer(prefixed), speechQueue)
		start("speech", s.Run)
	} else {
		log.Info("Speech disabled, speech input is discarded")
		start("speech", drain(speechQueue))
	}

	if cfg.HTTP.Address != "" {
		r := router.NewRouter(logger.NewPrefixedLogger(log, "http"), cfg.HTTP, info, chat)
		start("http", r.Run)
	}

	err = chat.Run(ctx)
	cancel()
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		log.Info("Bot stopped")
		return nil
	}
	log.Error("Chat connection ended", err)
	return err
}

func newQueue(cfg *config.Config, name string) *queue.Queue[string] {
	q := queue.New[string](queue.WithCapacity(cfg.QueueCapacity, policies[cfg.QueuePolicy]))
	metrics.RegisterQueue(name, q.Len, q.Dropped)
	return q
}

// drain keeps a queue without a consumer from growing.
func drain(q *queue.Queue[string]) func(context.Context) error {
	return func(ctx context.Context) error {
		for {
			if _, err := q.Recv(ctx); err != nil {
				return err
			}
		}
	}
}
