package botinfo

import "sync"

// BotInfo holds the identity the server assigned to the bot. It is written once per
// successful handshake and read by any goroutine that needs the bot's name or channel.
type BotInfo struct {
	mu          sync.RWMutex
	name        string
	mainChannel string
}

func New() *BotInfo {
	return &BotInfo{}
}

func (b *BotInfo) Set(name, channel string) {
	b.mu.Lock()
	b.name = name
	b.mainChannel = channel
	b.mu.Unlock()
}

func (b *BotInfo) Get() (string, string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name, b.mainChannel
}
