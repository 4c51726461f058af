package responder

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"twitchvoice/internal/app/adapters/metrics"
	"twitchvoice/internal/app/infrastructure/config"
	"twitchvoice/internal/app/infrastructure/storage"
	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
)

const maxChatters = 10_000

// Responder turns queued "[sender]: text" items into chat replies.
type Responder struct {
	log       logger.Logger
	cfg       config.Responder
	botInfo   ports.BotInfoPort
	generator ports.GeneratorPort

	input  ports.ReceiverPort[string]
	output ports.SenderPort[string]

	history  *storage.Cache[[]ports.Turn]
	limiters *storage.Cache[*rate.Limiter]
}

func New(log logger.Logger, cfg config.Responder, botInfo ports.BotInfoPort, generator ports.GeneratorPort,
	input ports.ReceiverPort[string], output ports.SenderPort[string]) *Responder {
	ttl := time.Duration(cfg.HistoryTTL) * time.Second

	return &Responder{
		log:       log,
		cfg:       cfg,
		botInfo:   botInfo,
		generator: generator,
		input:     input,
		output:    output,
		history:   storage.NewCache[[]ports.Turn](maxChatters, ttl),
		limiters:  storage.NewCache[*rate.Limiter](maxChatters, time.Hour),
	}
}

// Run consumes the generation queue until ctx is done.
func (r *Responder) Run(ctx context.Context) error {
	r.log.Info("Responder started", slog.String("model", r.cfg.Model))
	for {
		item, err := r.input.Recv(ctx)
		if err != nil {
			return err
		}
		r.handle(ctx, item)
	}
}

func (r *Responder) handle(ctx context.Context, item string) {
	sender, text, ok := SplitPrompt(item)
	if !ok || strings.TrimSpace(text) == "" {
		r.count("skipped")
		r.log.Debug("Skipping generation input", slog.String("item", item))
		return
	}

	if !r.allow(sender) {
		r.count("limited")
		r.log.Debug("Chatter is over the generation limit", slog.String("username", sender))
		return
	}

	key := strings.ToLower(sender)
	history, _ := r.history.Get(key)

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.RequestTimeout)*time.Second)
	defer cancel()

	start := time.Now()
	reply, err := r.generator.Generate(reqCtx, r.systemPrompt(), history, item)
	metrics.GenerationTime.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		r.count("error")
		r.log.Error("Failed to generate reply", err, slog.String("username", sender))
		return
	}

	reply = Truncate(strings.TrimSpace(reply), r.cfg.MaxReplyChars)
	if reply == "" {
		r.count("empty")
		r.log.Warn("Generator returned an empty reply", slog.String("username", sender))
		return
	}

	r.remember(key, history, ports.Turn{Prompt: item, Reply: reply})
	if err := r.output.SendContext(ctx, reply); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.count("dropped")
		r.log.Warn("Outbound queue is full, reply dropped", slog.String("username", sender))
		return
	}
	r.count("ok")
	r.log.Debug("Reply queued", slog.String("username", sender), slog.String("reply", reply))
}

func (r *Responder) allow(sender string) bool {
	perMinute := r.cfg.UserRatePerMinute
	if perMinute <= 0 {
		return true
	}

	lim := r.limiters.GetOrSet(strings.ToLower(sender), func() *rate.Limiter {
		return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	})
	return lim.Allow()
}

func (r *Responder) remember(key string, history []ports.Turn, turn ports.Turn) {
	limit := r.cfg.HistoryTurns
	if limit <= 0 {
		return
	}

	next := make([]ports.Turn, 0, min(len(history)+1, limit))
	if len(history)+1 > limit {
		history = history[len(history)+1-limit:]
	}
	next = append(next, history...)
	next = append(next, turn)
	r.history.Set(key, next)
}

func (r *Responder) systemPrompt() string {
	name, channel := r.botInfo.Get()
	return strings.NewReplacer("{{name}}", name, "{{channel}}", channel).Replace(r.cfg.SystemPrompt)
}

func (r *Responder) count(result string) {
	metrics.GenerationRequests.With(prometheus.Labels{"result": result}).Inc()
}

// SplitPrompt splits "[sender]: text" into its parts.
func SplitPrompt(item string) (sender, text string, ok bool) {
	if !strings.HasPrefix(item, "[") {
		return "", "", false
	}
	end := strings.Index(item, "]: ")
	if end <= 1 {
		return "", "", false
	}
	return item[1:end], item[end+3:], true
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
