package indicator

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"go.uber.org/zap"
)

type LogBackend struct {
	log *zap.SugaredLogger
}

func NewLogBackend(log *zap.SugaredLogger) *LogBackend {
	return &LogBackend{log: log}
}

func (b *LogBackend) Show(mode ongeul.Mode) error {
	b.log.Infow("input mode", "mode", mode, "label", Label(mode))
	return nil
}

func (b *LogBackend) Hide() error {
	return nil
}

func (b *LogBackend) Close() error {
	return nil
}

type NopBackend struct{}

func (NopBackend) Show(ongeul.Mode) error { return nil }
func (NopBackend) Hide() error            { return nil }
func (NopBackend) Close() error           { return nil }
