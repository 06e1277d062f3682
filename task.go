package pfx

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Task is work scheduled to run after a delay of simulated time.
// Tasks run at the start of a tick, after queued work and before updaters.
type Task struct {
	// at is the elapsed time the task becomes due
	at float64

	// seq orders tasks due at the same time by scheduling order
	seq uint64

	fn func(*Frame)

	cancelled atomic.Bool

	// index is the heap index for efficient removal
	index int
}

// Cancel stops the task from running. Cancelling a task that already ran
// has no effect.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// Due returns the elapsed time at which the task runs.
func (t *Task) Due() float64 {
	return t.at
}

// Schedule runs fn in the first tick whose end reaches delay past the
// current elapsed time. A delay of 0 runs fn in the next tick.
//
//	// Burst after one second with the default time unit.
//	task, err := sys.Schedule(1000, func(f *pfx.Frame) {
//	    _, _ = f.CreateObject(burst...)
//	})
func (s *System) Schedule(delay float64, fn func(*Frame)) (*Task, error) {
	if err := validDelay(delay, fn); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.tasks.Push(s.Elapsed()+delay, fn), nil
}

// Schedule runs fn delay after the end of the running tick. A delay of 0
// runs fn in the next tick.
func (f *Frame) Schedule(delay float64, fn func(*Frame)) (*Task, error) {
	if err := validDelay(delay, fn); err != nil {
		return nil, err
	}
	return f.system.tasks.Push(f.system.elapsed+f.dt+delay, fn), nil
}

func validDelay(delay float64, fn func(*Frame)) error {
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 {
		return fmt.Errorf("%w: delay must be a finite value >= 0, got %v", ErrInvalidArgument, delay)
	}
	if fn == nil {
		return fmt.Errorf("%w: task function must not be nil", ErrInvalidArgument)
	}
	return nil
}

// taskQueue is a priority queue for scheduled tasks.
// It uses a binary heap for O(log n) insertion and removal.
type taskQueue struct {
	mu   sync.Mutex
	heap []*Task
	seq  uint64
}

// newTaskQueue creates a new task queue.
func newTaskQueue() *taskQueue {
	return &taskQueue{heap: make([]*Task, 0, 16)}
}

// Push adds a task due at the given elapsed time.
func (q *taskQueue) Push(at float64, fn func(*Frame)) *Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) > 100 && len(q.heap)%100 == 0 {
		q.compactHeap()
	}

	q.seq++
	t := &Task{at: at, seq: q.seq, fn: fn, index: len(q.heap)}
	q.heap = append(q.heap, t)
	q.up(t.index)
	return t
}

// PopDue removes and returns the tasks due at or before until, in due order.
// Cancelled tasks are dropped.
func (q *taskQueue) PopDue(until float64) []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*Task
	for len(q.heap) > 0 && q.heap[0].at <= until {
		t := q.pop()
		if !t.cancelled.Load() {
			due = append(due, t)
		}
	}
	return due
}

// Len returns the number of tasks in the queue, cancelled ones included.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Clear removes all tasks from the queue.
func (q *taskQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.heap)
	q.heap = q.heap[:0]
}

// compactHeap removes cancelled tasks and rebuilds the heap property.
// Caller must hold lock.
func (q *taskQueue) compactHeap() {
	write := 0
	for read := 0; read < len(q.heap); read++ {
		if !q.heap[read].cancelled.Load() {
			q.heap[write] = q.heap[read]
			q.heap[write].index = write
			write++
		}
	}
	clear(q.heap[write:])
	q.heap = q.heap[:write]

	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.down(i, len(q.heap))
	}
}

// pop removes and returns the minimum task. Caller must hold lock.
func (q *taskQueue) pop() *Task {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	t := q.heap[n]
	q.heap[n] = nil // Allow GC
	q.heap = q.heap[:n]
	t.index = -1
	return t
}

func (q *taskQueue) less(i, j int) bool {
	a, b := q.heap[i], q.heap[j]
	if a.at != b.at {
		return a.at < b.at
	}
	return a.seq < b.seq
}

// up moves the task at index i up the heap.
func (q *taskQueue) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

// down moves the task at index i down the heap.
func (q *taskQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		j := left
		if right := left + 1; right < n && q.less(right, left) {
			j = right
		}
		if !q.less(j, i) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

// swap swaps two tasks in the heap.
func (q *taskQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
