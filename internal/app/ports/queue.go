package ports

import "context"

// SenderPort waits for room in a bounded queue until ctx is done.
type SenderPort[T any] interface {
	SendContext(ctx context.Context, item T) error
}

// OfferPort never waits; false means the item was dropped.
type OfferPort[T any] interface {
	TrySend(item T) bool
}

type ReceiverPort[T any] interface {
	Recv(ctx context.Context) (T, error)
}

// SelectableReceiverPort can be multiplexed with other event sources in a select loop.
type SelectableReceiverPort[T any] interface {
	Ready() <-chan struct{}
	TryRecv() (T, bool)
}
