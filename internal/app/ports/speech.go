package ports

import (
	"context"
	"time"
)

type SpeechResult struct {
	Voice    string
	Bytes    int
	Duration time.Duration
}

type SynthesizerPort interface {
	Synthesize(ctx context.Context, text, voice string) (*SpeechResult, error)
}
