package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrame(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  []string
	}{
		{"single_crlf", "PING :tmi.twitch.tv\r\n", []string{"PING :tmi.twitch.tv"}},
		{"no_terminator", "PING :tmi.twitch.tv", []string{"PING :tmi.twitch.tv"}},
		{"bare_lf", "a\nb\n", []string{"a", "b"}},
		{"mixed_and_empty", "a\r\n\r\nb\nc\r\n", []string{"a", "b", "c"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFrame(tt.frame))
		})
	}
}

func TestParseLine_Privmsg(t *testing.T) {
	line := `@badge-info=;color=#1E90FF;display-name=Alice;system-msg=hi\sthere\:\\ok :alice!alice@alice.tmi.twitch.tv PRIVMSG #chan :hello world`

	msg, err := ParseLine(line)
	require.NoError(t, err)

	assert.Equal(t, line, msg.Raw)
	assert.Equal(t, "PRIVMSG", msg.Command)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, "#chan", msg.Destination)
	assert.Equal(t, "hello world", msg.Payload)
	assert.Equal(t, []string{"#chan", "hello world"}, msg.Params)

	assert.Equal(t, "", msg.Tags["badge-info"])
	assert.Equal(t, "#1E90FF", msg.Tags["color"])
	assert.Equal(t, "Alice", msg.Tags["display-name"])
	assert.Equal(t, `hi there;\ok`, msg.Tags["system-msg"])
}

func TestParseLine_Commands(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		command     string
		sender      string
		destination string
		payload     string
	}{
		{"welcome", ":tmi.twitch.tv 001 botname :Welcome, GLHF!", "001", "tmi.twitch.tv", "botname", "Welcome, GLHF!"},
		{"ping", "PING :tmi.twitch.tv", "PING", "", "", "tmi.twitch.tv"},
		{"ping_no_trailing", "PING tmi.twitch.tv", "PING", "", "tmi.twitch.tv", "tmi.twitch.tv"},
		{"lowercase_verb", "ping :x", "PING", "", "", "x"},
		{"join", ":bot!bot@bot.tmi.twitch.tv JOIN #chan", "JOIN", "bot", "#chan", "#chan"},
		{"cap_ack", ":tmi.twitch.tv CAP * ACK :twitch.tv/tags", "CAP", "tmi.twitch.tv", "*", "twitch.tv/tags"},
		{"host_only_prefix", ":bot@bot.tmi.twitch.tv PART #chan", "PART", "bot", "#chan", "#chan"},
		{"empty_trailing", ":a!a@a PRIVMSG #chan :", "PRIVMSG", "a", "#chan", ""},
		{"trailing_with_colons", ":a!a@a PRIVMSG #chan :time is 12:30 :)", "PRIVMSG", "a", "#chan", "time is 12:30 :)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.command, msg.Command)
			assert.Equal(t, tt.sender, msg.Sender)
			assert.Equal(t, tt.destination, msg.Destination)
			assert.Equal(t, tt.payload, msg.Payload)
		})
	}
}

func TestParseLine_Malformed(t *testing.T) {
	lines := []string{
		"@onlytags",
		":prefixonly",
		"!!!",
		"12 :two digit numeric",
		":a!a@a PRIV-MSG #chan :dash",
		"   ",
		"",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			msg, err := ParseLine(line)
			require.ErrorIs(t, err, ErrMalformedLine)
			require.NotNil(t, msg)
			assert.Equal(t, CommandUnknown, msg.Command)
			assert.Equal(t, line, msg.Payload)
			assert.Equal(t, line, msg.Raw)
			assert.NotNil(t, msg.Tags)
		})
	}
}

func BenchmarkParseLine(b *testing.B) {
	line := "@badge-info=;badges=;color=#FF0000;display-name=Alice;emotes=;id=1;mod=0 :alice!alice@alice.tmi.twitch.tv PRIVMSG #chan :hello there"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ParseLine(line)
	}
}
