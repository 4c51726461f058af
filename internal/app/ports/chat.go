package ports

// IRCMessage is one parsed protocol line.
type IRCMessage struct {
	Raw         string
	Tags        map[string]string
	Sender      string
	Command     string
	Destination string
	Params      []string
	Payload     string
}

type ChatPort interface {
	State() ConnState
	ConnectionID() string
}

type ConnState int32

const (
	Connecting ConnState = iota
	Handshaking
	Active
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Handshaking:
		return "handshaking"
	case Active:
		return "active"
	}
	return "unknown"
}
