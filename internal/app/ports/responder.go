package ports

import "context"

type Turn struct {
	Prompt string
	Reply  string
}

type GeneratorPort interface {
	Generate(ctx context.Context, system string, history []Turn, prompt string) (string, error)
}
