package concurrent

import (
	"errors"
	"sync"
	"time"
)

var ErrScheduleTimeout = errors.New("schedule error: timed out")

var ErrPoolClosed = errors.New("schedule error: pool closed")

var ErrPoolBusy = errors.New("schedule error: no free worker")

type Task func()

/*
WorkerPool. bounded goroutine pool. at most numWorkers goroutines run tasks; a task waits in the queue
(capacity queueSize) while every worker is busy. ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
*/
type WorkerPool struct {
	sem  chan struct{}
	work chan Task

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewWorkerPool(numWorkers, queueSize, spawn int) *WorkerPool {
	if spawn <= 0 && queueSize > 0 {
		panic("dead queue configuration detected")
	}
	if spawn > numWorkers {
		panic("spawn > workers")
	}
	p := &WorkerPool{
		sem:  make(chan struct{}, numWorkers),
		work: make(chan Task, queueSize),
	}
	for i := 0; i < spawn; i++ {
		p.sem <- struct{}{}
		p.wg.Add(1)
		go p.worker(nil)
	}
	return p
}

// Schedule. run task on a pool goroutine, block until a worker or a queue slot is free.
func (p *WorkerPool) Schedule(task Task) error {
	return p.schedule(task, nil)
}

// ScheduleTimeout. like Schedule but gives up with ErrScheduleTimeout after timeout.
func (p *WorkerPool) ScheduleTimeout(timeout time.Duration, task Task) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return p.schedule(task, timer.C)
}

// TrySchedule. like Schedule but never waits: ErrPoolBusy when every worker and queue slot is taken.
func (p *WorkerPool) TrySchedule(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		p.wg.Add(1)
		go p.worker(task)
		return nil
	default:
		return ErrPoolBusy
	}
}

func (p *WorkerPool) schedule(task Task, timeout <-chan time.Time) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		p.wg.Add(1)
		go p.worker(task)
		return nil
	}
}

func (p *WorkerPool) worker(task Task) {
	defer func() {
		<-p.sem
		p.wg.Done()
	}()

	if task != nil {
		task()
	}
	for task := range p.work {
		task()
	}
}

// Close. stop accepting tasks and wait until the queued ones are done.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.work)
	p.mu.Unlock()

	p.wg.Wait()
}
