package irc

import "strings"

const TagsCapability = "twitch.tv/tags"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// singleLine keeps caller supplied text from splitting one protocol line into several.
func singleLine(s string) string {
	return lineBreaks.Replace(s)
}

func PassLine(token string) string {
	return "PASS oauth:" + singleLine(strings.TrimPrefix(token, "oauth:"))
}

func NickLine(nick string) string {
	return "NICK " + singleLine(nick)
}

func JoinLine(channel string) string {
	return "JOIN #" + singleLine(strings.TrimPrefix(channel, "#"))
}

func CapReqLine(capability string) string {
	return "CAP REQ :" + singleLine(capability)
}

func PingLine(host string) string {
	return "PING :" + singleLine(host)
}

func PongLine(host string) string {
	return "PONG :" + singleLine(host)
}

func PrivmsgLine(channel, text string) string {
	return "PRIVMSG #" + singleLine(strings.TrimPrefix(channel, "#")) + " :" + singleLine(text)
}
