package looper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestPostAndWaitRunsInOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	l := New(4)
	defer l.Quit()
	var order []int // only touched on the owning goroutine
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		i := i
		if err := l.Post(ctx, func() { order = append(order, i) }); err != nil {
			t.Fatal(err)
		}
	}
	var snapshot []int
	if err := l.PostAndWait(ctx, func() { snapshot = append(snapshot, order...) }); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, snapshot)
}

func TestPostAndWaitConcurrent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	l := New(0)
	defer l.Quit()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.PostAndWait(context.Background(), func() { counter++ })
		}()
	}
	wg.Wait()
	var c int
	_ = l.PostAndWait(context.Background(), func() { c = counter })
	assert.Equal(t, 50, c)
}

func TestPostAndWaitPanic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	l := New(1)
	defer l.Quit()
	err := l.PostAndWait(context.Background(), func() { panic("boom") })
	if !errors.Is(err, ErrTaskPanicked) {
		t.Fatalf("expected panic to be reported as ErrTaskPanicked, is %v", err)
	}
	assert.Contains(t, err.Error(), "boom")
	// looper survives the panic
	assert.NoError(t, l.PostAndWait(context.Background(), func() {}))
}

func TestPostAndWaitDeadline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	l := New(1)
	defer l.Quit()
	release := make(chan struct{})
	finished := make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.PostAndWait(ctx, func() {
		<-release
		close(finished)
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected waiter to give up with deadline exceeded, error is %v", err)
	}
	close(release)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("expected task to run to completion after waiter gave up, didn't")
	}
}

func TestQuit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "inspector.dom")
	defer teardown()
	//
	l := New(1)
	l.Quit()
	l.Quit()
	if err := l.PostAndWait(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("expected posting to stopped looper to fail with ErrStopped, is %v", err)
	}
}
