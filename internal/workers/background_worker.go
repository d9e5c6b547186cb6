package workers

import (
	"context"
	"sync"

	"contacts_backend/internal/logger"
)

// BackgroundWorker выполняет фоновые задачи (письма подтверждения и сброса пароля)
// фиксированным числом горутин. Stop дожидается задач, уже поставленных в очередь,
// поэтому при остановке сервера письма не теряются.
type BackgroundWorker struct {
	tasks   chan func()
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewBackgroundWorker(workers, queueSize int) *BackgroundWorker {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &BackgroundWorker{
		tasks:   make(chan func(), queueSize),
		workers: workers,
	}
}

// Start запускает обработчики очереди
func (w *BackgroundWorker) Start() {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.loop()
	}
	logger.Info("Background worker started", "workers", w.workers, "queue", cap(w.tasks))
}

func (w *BackgroundWorker) loop() {
	defer w.wg.Done()
	for task := range w.tasks {
		w.run(task)
	}
}

func (w *BackgroundWorker) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Background task panicked", "panic", r)
		}
	}()
	task()
}

// Submit ставит задачу в очередь. Переполненная очередь не блокирует запрос:
// задача уходит в отдельную горутину. После Stop задачи отклоняются.
func (w *BackgroundWorker) Submit(task func()) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		logger.Warn("Background worker is stopped, task dropped")
		return
	}

	select {
	case w.tasks <- task:
	default:
		logger.Warn("Background queue is full, running task outside the pool")
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.run(task)
		}()
	}
}

// Stop закрывает очередь и ждет завершения задач, пока не истечет ctx
func (w *BackgroundWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.tasks)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Background worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
