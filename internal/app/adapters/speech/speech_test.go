package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitchvoice/internal/app/ports"
	"twitchvoice/pkg/logger"
	"twitchvoice/pkg/queue"
)

type spoken struct {
	text  string
	voice string
}

type fakeSynth struct {
	mu   sync.Mutex
	got  []spoken
	fail bool
}

func (f *fakeSynth) Synthesize(_ context.Context, text, voice string) (*ports.SpeechResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, spoken{text: text, voice: voice})
	if f.fail && text == "boom" {
		return nil, errors.New("engine offline")
	}
	return &ports.SpeechResult{Voice: voice, Bytes: len(text)}, nil
}

func (f *fakeSynth) spoken() []spoken {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]spoken(nil), f.got...)
}

func TestSpeech_DeliversInOrder(t *testing.T) {
	synth := &fakeSynth{fail: true}
	input := queue.New[string]()
	s := New(logger.Discard(), "it-IT", synth, input)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	for _, text := range []string{"ciao", "  ", "boom", "come va"} {
		input.Send(text)
	}

	require.Eventually(t, func() bool {
		return len(synth.spoken()) == 3
	}, 2*time.Second, time.Millisecond)

	assert.Equal(t, []spoken{
		{text: "ciao", voice: "it-IT"},
		{text: "boom", voice: "it-IT"},
		{text: "come va", voice: "it-IT"},
	}, synth.spoken())

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("speech consumer did not stop")
	}
}

func TestLogSynthesizer(t *testing.T) {
	l := NewLogSynthesizer(logger.Discard())

	res, err := l.Synthesize(context.Background(), "uno due tre", "it-IT")
	require.NoError(t, err)
	assert.Equal(t, "it-IT", res.Voice)
	assert.Equal(t, 11, res.Bytes)
	assert.Equal(t, 1200*time.Millisecond, res.Duration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Synthesize(ctx, "x", "it-IT")
	assert.ErrorIs(t, err, context.Canceled)
}
