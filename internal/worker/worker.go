package worker

import (
	"context"
)

// Worker - фоновый потребитель стрима
type Worker interface {
	// Start блокируется до остановки воркера или отмены ctx
	Start(ctx context.Context) error

	// Stop сигнализирует о завершении; повторный вызов безопасен
	Stop() error

	Name() string
}
