package ports

import "context"

// Transport is one open connection. ReadFrame may run concurrently with WriteLine,
// but each of them must have a single caller.
type Transport interface {
	// ReadFrame returns the next raw frame, which may hold several lines.
	ReadFrame() (string, error)
	// WriteLine sends exactly one protocol line; the terminator is added by the transport.
	WriteLine(line string) error
	Close() error
}

type DialerPort interface {
	Dial(ctx context.Context, address string) (Transport, error)
}
