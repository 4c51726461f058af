package irc

import (
	"errors"
	"strings"

	"twitchvoice/internal/app/ports"
)

// CommandUnknown marks a line that could not be parsed. Its Payload is the original line.
const CommandUnknown = "UNKNOWN"

var ErrMalformedLine = errors.New("malformed irc line")

// SplitFrame splits a raw transport frame into its logical lines, in order.
// Both CRLF and bare LF terminators are accepted; empty lines are dropped.
func SplitFrame(frame string) []string {
	parts := strings.Split(frame, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSuffix(p, "\r")
		if p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}

// ParseLine never fails to return a message: when the line cannot be parsed it returns an
// UNKNOWN command together with ErrMalformedLine.
func ParseLine(line string) (*ports.IRCMessage, error) {
	msg := &ports.IRCMessage{Raw: line, Tags: make(map[string]string)}
	rest := line

	if len(rest) > 0 && rest[0] == '@' {
		spaceIdx := strings.IndexByte(rest, ' ')
		if spaceIdx == -1 {
			return unknown(line), ErrMalformedLine
		}
		parseTags(rest[1:spaceIdx], msg.Tags)
		rest = strings.TrimLeft(rest[spaceIdx+1:], " ")
	}

	if len(rest) > 0 && rest[0] == ':' {
		spaceIdx := strings.IndexByte(rest, ' ')
		if spaceIdx == -1 {
			return unknown(line), ErrMalformedLine
		}
		msg.Sender = senderFromPrefix(rest[1:spaceIdx])
		rest = strings.TrimLeft(rest[spaceIdx+1:], " ")
	}

	var trailing string
	hasTrailing := false
	if idx := strings.Index(rest, " :"); idx != -1 {
		trailing = rest[idx+2:]
		rest = rest[:idx]
		hasTrailing = true
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 || !validCommand(fields[0]) {
		return unknown(line), ErrMalformedLine
	}

	msg.Command = strings.ToUpper(fields[0])
	msg.Params = fields[1:]
	if len(msg.Params) > 0 {
		msg.Destination = msg.Params[0]
	}

	switch {
	case hasTrailing:
		msg.Params = append(msg.Params, trailing)
		msg.Payload = trailing
	case len(msg.Params) > 0:
		msg.Payload = msg.Params[len(msg.Params)-1]
	}

	return msg, nil
}

func unknown(line string) *ports.IRCMessage {
	return &ports.IRCMessage{
		Raw:     line,
		Tags:    make(map[string]string),
		Command: CommandUnknown,
		Payload: line,
	}
}

// validCommand accepts a verb made of letters or a three digit numeric reply.
func validCommand(cmd string) bool {
	if len(cmd) == 3 && isDigits(cmd) {
		return true
	}
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return cmd != ""
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// senderFromPrefix returns the nick of "nick!user@host", or the whole prefix for a server.
func senderFromPrefix(prefix string) string {
	if excl := strings.IndexByte(prefix, '!'); excl != -1 {
		return prefix[:excl]
	}
	if at := strings.IndexByte(prefix, '@'); at != -1 {
		return prefix[:at]
	}
	return prefix
}

func parseTags(rawTags string, tags map[string]string) {
	start := 0
	for i := 0; i <= len(rawTags); i++ {
		if i == len(rawTags) || rawTags[i] == ';' {
			tag := rawTags[start:i]
			if tag != "" {
				if eq := strings.IndexByte(tag, '='); eq != -1 {
					tags[tag[:eq]] = unescapeTagValue(tag[eq+1:])
				} else {
					tags[tag] = ""
				}
			}
			start = i + 1
		}
	}
}

func unescapeTagValue(v string) string {
	if strings.IndexByte(v, '\\') == -1 {
		return v
	}

	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] != '\\' {
			b.WriteByte(v[i])
			continue
		}
		i++
		if i == len(v) {
			break
		}
		switch v[i] {
		case ':':
			b.WriteByte(';')
		case 's':
			b.WriteByte(' ')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}
