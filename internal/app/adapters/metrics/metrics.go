package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionState - состояние соединения: 0 connecting, 1 handshaking, 2 active.
	ConnectionState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_connection_state",
		Help: "Connection state of the chat client (0 connecting, 1 handshaking, 2 active)",
	})

	// FramesReceived - количество полученных фреймов.
	FramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_frames_received_total",
		Help: "Total number of transport frames received",
	})

	// LinesReceived - количество строк протокола по командам.
	LinesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_lines_received_total",
			Help: "Total number of protocol lines received per command",
		},
		[]string{"command"},
	)

	// MalformedLines - строки, которые не удалось разобрать.
	MalformedLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_malformed_lines_total",
		Help: "Total number of protocol lines that could not be parsed",
	})

	// LinesSent - отправленные строки по типу.
	LinesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_lines_sent_total",
			Help: "Total number of protocol lines sent per kind",
		},
		[]string{"kind"},
	)

	// GenerationRequests - запросы на генерацию ответа по результату.
	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_generation_requests_total",
			Help: "Total number of reply generation requests per result",
		},
		[]string{"result"},
	)

	// GenerationTime - время генерации ответа.
	GenerationTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bot_generation_seconds",
		Help:    "Time spent generating a reply",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// SpeechRequests - запросы на синтез речи по результату.
	SpeechRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_speech_requests_total",
			Help: "Total number of speech synthesis requests per result",
		},
		[]string{"result"},
	)
)

// RegisterQueue exposes the depth and drop count of a named queue.
// Registering the same name again replaces the previous queue.
func RegisterQueue(name string, length func() int, dropped func() uint64) {
	labels := prometheus.Labels{"queue": name}

	register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "bot_queue_depth",
		Help:        "Number of items waiting in a queue",
		ConstLabels: labels,
	}, func() float64 { return float64(length()) }))

	register(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name:        "bot_queue_dropped_total",
		Help:        "Number of items a bounded queue discarded",
		ConstLabels: labels,
	}, func() float64 { return float64(dropped()) }))
}

func register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		prometheus.Unregister(are.ExistingCollector)
		prometheus.MustRegister(c)
	}
}
