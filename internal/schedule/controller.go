// internal/schedule/controller.go
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrTaskExists is returned when a live task already owns the name.
var ErrTaskExists = errors.New("schedule: task already running")

// Func is one tick of a task. It receives the task's own context, which is
// canceled by Cancel or Stop.
type Func func(ctx context.Context)

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller owns named recurring tasks.
// One goroutine per task. No overlap within a task. No retries.
type Controller struct {
	mu    sync.Mutex
	tasks map[string]*task
	wg    sync.WaitGroup
}

func NewController() *Controller {
	return &Controller{tasks: make(map[string]*task)}
}

// Start schedules fn every interval, first tick one interval from now.
func (c *Controller) Start(ctx context.Context, name string, interval time.Duration, fn Func) error {
	if name == "" {
		return errors.New("schedule: task name required")
	}
	if interval <= 0 {
		return fmt.Errorf("schedule: task %s: interval must be > 0", name)
	}
	if fn == nil {
		return fmt.Errorf("schedule: task %s: nil func", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tasks[name]; ok {
		select {
		case <-t.done:
			// finished on its own (parent ctx done); name is free again
		default:
			return fmt.Errorf("%w: %s", ErrTaskExists, name)
		}
	}

	tctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	c.tasks[name] = t

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(t.done)
		run(tctx, interval, fn)
	}()

	return nil
}

func run(ctx context.Context, interval time.Duration, fn Func) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick and a cancel can be ready together; cancel wins.
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}
}

// Cancel stops the named task. It does not wait for an in-flight tick,
// so it is safe to call from inside any task, including the one being
// canceled. Returns true if a live task was stopped.
func (c *Controller) Cancel(name string) bool {
	c.mu.Lock()
	t, ok := c.tasks[name]
	if ok {
		delete(c.tasks, name)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}

	live := true
	select {
	case <-t.done:
		live = false
	default:
	}
	t.cancel()
	return live
}

// Running reports whether the named task is live.
func (c *Controller) Running(name string) bool {
	c.mu.Lock()
	t, ok := c.tasks[name]
	c.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed when the named task's goroutine exits.
// Unknown names return an already-closed channel.
func (c *Controller) Done(name string) <-chan struct{} {
	c.mu.Lock()
	t, ok := c.tasks[name]
	c.mu.Unlock()
	if !ok {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return t.done
}

// Names lists registered task names, sorted.
func (c *Controller) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.tasks))
	for n := range c.tasks {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Stop cancels every task and waits for all goroutines, including tasks
// canceled earlier, to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	for name, t := range c.tasks {
		t.cancel()
		delete(c.tasks, name)
	}
	c.mu.Unlock()

	c.wg.Wait()
}
