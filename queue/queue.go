/*
Package queue provides a serialized FIFO runner for asynchronous units
of work.

PURPOSE:
  UI-triggered writes (a shared kiosk firing repeated check-in events)
  must not race each other into the persistence layer. A Queue runs at
  most one task at a time, in exact submission order, with a fixed
  inter-task delay so a downstream write target is never hammered.

GUARANTEES:
  - Tasks start in the order Enqueue was called.
  - A task runs to completion (success or failure) before the next
    one starts; their steps never interleave.
  - A failed task is logged and skipped; the next task still runs.
  - Work enqueued after a drain has fully unwound deterministically
    restarts processing; nothing is dropped.

NON-GUARANTEES:
  - No cancellation: once enqueued, a task eventually runs or fails.
  - No per-task timeout: a hung task stalls the queue indefinitely.
  - No cross-process exclusion: a Queue is process-local. Concurrent
    writers in other processes must be handled by the persistence
    layer (upsert-by-key).

Each Queue is an independent instance; create one per logical write
target rather than sharing a global.
*/
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDelay is the pause between consecutive tasks.
const DefaultDelay = 300 * time.Millisecond

// Task is one asynchronous unit of work. It has no identity beyond its
// submission order.
type Task func(ctx context.Context) error

// Queue is a FIFO ordered task runner. The zero value is not usable;
// construct with New.
type Queue struct {
	name  string
	delay time.Duration

	mu       sync.Mutex
	tasks    []Task
	draining bool
	wg       sync.WaitGroup
}

// New creates a queue. A negative delay selects DefaultDelay; zero
// disables the inter-task pause (tests).
func New(name string, delay time.Duration) *Queue {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Queue{name: name, delay: delay}
}

// Enqueue appends a task and starts the drain goroutine if the queue
// is idle. It never blocks on the task itself.
func (q *Queue) Enqueue(task Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	starting := !q.draining
	if starting {
		q.draining = true
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if starting {
		go q.drain()
	}
}

// Wait blocks until every task enqueued so far has run. Intended for
// tests and shutdown paths.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Len returns the number of tasks not yet started.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) drain() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.draining = false
			q.mu.Unlock()
			// An Enqueue racing this unwind sees draining=false and
			// starts a fresh drain, so late submissions are never
			// silently ignored.
			q.restartIfPending()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		if err := task(context.Background()); err != nil {
			// A bad task must not wedge the queue. Log and move on.
			logrus.WithField("queue", q.name).WithError(err).Warn("queued task failed")
		}

		if q.delay > 0 {
			time.Sleep(q.delay)
		}
	}
}

// restartIfPending re-checks for work that arrived while the drain was
// unwinding and restarts processing for it.
func (q *Queue) restartIfPending() {
	q.mu.Lock()
	restart := len(q.tasks) > 0 && !q.draining
	if restart {
		q.draining = true
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if restart {
		go q.drain()
	}
}
