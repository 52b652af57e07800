/*
Package looper confines state to a single owning goroutine.

A Looper runs tasks one after another on its own goroutine. State which is
only ever touched from within tasks of one looper needs no further
synchronization. Other goroutines either post tasks fire-and-forget, or
post a task and wait for it to complete:

	err := l.PostAndWait(ctx, func() {
	    // runs on the owning goroutine
	})

Waiting is unbounded unless ctx carries a deadline. If the waiter gives up,
the task nevertheless runs to completion on the owning goroutine; there is
no way to abort a task once it has been posted.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package looper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'inspector.dom'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.dom")
}

// ErrTaskPanicked is returned by PostAndWait if the task panicked. The
// panic value is part of the error message.
var ErrTaskPanicked = errors.New("task panicked on owning goroutine")

// ErrStopped is returned for tasks posted to a looper which has quit.
var ErrStopped = errors.New("looper has been stopped")

// Task is a unit of work to run on the owning goroutine.
type Task func()

// Looper owns a goroutine which executes tasks in the order they are posted.
type Looper struct {
	tasks    chan Task
	done     chan struct{} // closed on Quit
	finished chan struct{} // closed when the goroutine exits
	quit     sync.Once
}

// New creates a looper and starts its goroutine. buflen is the number of
// tasks which may be queued without blocking the poster.
func New(buflen int) *Looper {
	if buflen < 0 {
		buflen = 0
	}
	l := &Looper{
		tasks:    make(chan Task, buflen),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go l.loop()
	return l
}

func (l *Looper) loop() {
	defer close(l.finished)
	for {
		select {
		case <-l.done:
			return
		case task := <-l.tasks:
			if err := run(task); err != nil {
				tracer().Errorf("%v", err)
			}
		}
	}
}

// run executes a task and converts a panic into an error.
func run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	task()
	return nil
}

// Post queues a task without waiting for it to run. It blocks while the
// queue is full, until ctx is done.
func (l *Looper) Post(ctx context.Context, task Task) error {
	if task == nil {
		return nil
	}
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PostAndWait queues a task and waits for it to complete. A panic within
// the task is recovered and returned as an error wrapping ErrTaskPanicked.
//
// If ctx is done before the task completes, PostAndWait returns ctx.Err(),
// while an already queued task will still run.
//
// PostAndWait must not be called from within a task of the same looper,
// as this would deadlock.
func (l *Looper) PostAndWait(ctx context.Context, task Task) error {
	if task == nil {
		return nil
	}
	result := make(chan error, 1)
	err := l.Post(ctx, func() {
		result <- run(task)
	})
	if err != nil {
		return err
	}
	select {
	case err = <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.finished:
		select {
		case err = <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Quit stops the looper after the currently running task, if any. Queued
// tasks are discarded. Quit waits for the goroutine to exit and must not be
// called from within a task. It is safe to call Quit more than once.
func (l *Looper) Quit() {
	l.quit.Do(func() {
		close(l.done)
	})
	<-l.finished
}
