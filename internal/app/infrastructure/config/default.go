package config

const DefaultPath = "twitch_client_config.toml"

const defaultSystemPrompt = `You are a chatbot for a Twitch channel, designed to interact with users in real-time.
Your nickname is {{name}} and you are in the channel {{channel}}.
Your input format will be '[nickname]: Message'.
Identify the language of the incoming message and respond in the same language.
If you do not understand the language, reply listing the languages you can understand.
Keep replies concise, clear and within Twitch community guidelines.`

func Default() *Config {
	return &Config{
		ServerAddress:    "wss://irc-ws.chat.twitch.tv:443",
		Nick:             "justinfan123",
		Token:            "oauth:1234567890",
		Channel:          "icsboyx",
		LogLevel:         "info",
		AntiIdle:         180,
		PingHost:         "tmi.twitch.tv",
		ConnectTimeout:   10,
		HandshakeTimeout: 30,
		QueuePolicy:      "block",
		HTTP: HTTP{
			Address: "127.0.0.1:9102",
		},
		Responder: Responder{
			Enabled:           true,
			BaseURL:           "http://127.0.0.1:11434/v1",
			APIKey:            "ollama",
			Model:             "llama3.2",
			SystemPrompt:      defaultSystemPrompt,
			MaxReplyChars:     500,
			HistoryTurns:      6,
			HistoryTTL:        600,
			UserRatePerMinute: 3,
			RequestTimeout:    60,
		},
		Speech: Speech{
			Enabled: true,
			Voice:   "it-IT",
		},
	}
}
