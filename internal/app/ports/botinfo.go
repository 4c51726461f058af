package ports

type BotInfoPort interface {
	Set(name, channel string)
	Get() (name, channel string)
}
