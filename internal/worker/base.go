package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BaseWorker содержит общую логику для всех воркеров
type BaseWorker struct {
	name          string
	consumerGroup string
	consumerName  string
	logger        *zap.Logger
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewBaseWorker создает новый BaseWorker; имя consumer'а строится из hostname и pid
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	hostname, _ := os.Hostname()

	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop останавливает воркер
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.stopChan)
	})
	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.stopChan:
		return true
	default:
		return false
	}
}

// StopChan возвращает канал остановки
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// Pause ждёт d, прерываясь при остановке или отмене ctx
func (w *BaseWorker) Pause(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	case <-w.stopChan:
	}
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
