package speech

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"twitchvoice/internal/app/adapters/metrics"
	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
)

// Speech reads chat payloads aloud through a synthesizer.
type Speech struct {
	log   logger.Logger
	voice string
	synth ports.SynthesizerPort
	input ports.ReceiverPort[string]
}

func New(log logger.Logger, voice string, synth ports.SynthesizerPort, input ports.ReceiverPort[string]) *Speech {
	return &Speech{
		log:   log,
		voice: voice,
		synth: synth,
		input: input,
	}
}

func (s *Speech) Run(ctx context.Context) error {
	s.log.Info("Speech consumer started", slog.String("voice", s.voice))
	for {
		text, err := s.input.Recv(ctx)
		if err != nil {
			return err
		}
		s.speak(ctx, text)
	}
}

func (s *Speech) speak(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.count("skipped")
		return
	}

	res, err := s.synth.Synthesize(ctx, text, s.voice)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		s.count("error")
		s.log.Error("Failed to synthesize speech", err, slog.String("voice", s.voice))
		return
	}

	s.count("ok")
	s.log.Debug("Speech synthesized", slog.String("voice", res.Voice), slog.Int("bytes", res.Bytes), slog.Duration("duration", res.Duration))
}

func (s *Speech) count(result string) {
	metrics.SpeechRequests.With(prometheus.Labels{"result": result}).Inc()
}

// wordDuration - примерная длительность одного слова при чтении вслух.
const wordDuration = 400 * time.Millisecond

// LogSynthesizer stands in for a real TTS engine: it only logs what would be spoken.
type LogSynthesizer struct {
	log logger.Logger
}

func NewLogSynthesizer(log logger.Logger) *LogSynthesizer {
	return &LogSynthesizer{log: log}
}

func (l *LogSynthesizer) Synthesize(ctx context.Context, text, voice string) (*ports.SpeechResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.log.Info("TTS", slog.String("voice", voice), slog.String("text", text))
	return &ports.SpeechResult{
		Voice:    voice,
		Bytes:    len(text),
		Duration: time.Duration(len(strings.Fields(text))) * wordDuration,
	}, nil
}
