package worker

import (
	"container/list"
	"errors"
	"sync"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
)

// ErrDispatcherBusy is returned when the submission queue is full; callers
// surface it as a 429.
var ErrDispatcherBusy = errors.New("dispatcher busy, try again later")

// Job is one unit of chat work for a user.
type Job struct {
	UserID string
	Run    func()
}

type userQueue struct {
	jobs     []Job
	enqueued bool
}

// Dispatcher fans chat jobs out to a fixed worker pool. Jobs are queued per
// user and users are served round robin so one chatty user cannot starve
// the rest.
type Dispatcher struct {
	jobQueue chan Job
	workers  chan struct{}

	mu        sync.Mutex
	queues    map[string]*userQueue
	ready     *list.List
	positions map[string]*list.Element
}

func NewDispatcher(workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		jobQueue:  make(chan Job, queueSize),
		workers:   make(chan struct{}, workers),
		queues:    make(map[string]*userQueue),
		ready:     list.New(),
		positions: make(map[string]*list.Element),
	}
	go d.run()
	return d
}

// Submit queues a job without blocking. A full queue returns
// ErrDispatcherBusy.
func (d *Dispatcher) Submit(job Job) error {
	if job.Run == nil {
		return errors.New("job has no work")
	}
	select {
	case d.jobQueue <- job:
		return nil
	default:
		return ErrDispatcherBusy
	}
}

func (d *Dispatcher) run() {
	for {
		if !d.dispatchOne() {
			job := <-d.jobQueue
			d.enqueueJob(job)
			continue
		}
		select {
		case job := <-d.jobQueue:
			d.enqueueJob(job)
		default:
		}
	}
}

func (d *Dispatcher) enqueueJob(job Job) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q := d.queues[job.UserID]
	if q == nil {
		q = &userQueue{}
		d.queues[job.UserID] = q
	}
	q.jobs = append(q.jobs, job)
	if q.enqueued {
		return
	}
	q.enqueued = true
	d.positions[job.UserID] = d.ready.PushBack(job.UserID)
}

// dispatchOne serves the user at the front of the round-robin list.
func (d *Dispatcher) dispatchOne() bool {
	d.mu.Lock()
	elem := d.ready.Front()
	if elem == nil {
		d.mu.Unlock()
		return false
	}
	userID := elem.Value.(string)
	q := d.queues[userID]
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	if len(q.jobs) == 0 {
		q.enqueued = false
		d.ready.Remove(elem)
		delete(d.positions, userID)
		delete(d.queues, userID)
	} else {
		d.ready.MoveToBack(elem)
	}
	d.mu.Unlock()

	d.workers <- struct{}{}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.Error().Any("panic", r).Str("user_id", job.UserID).Msg("chat job panicked")
			}
			<-d.workers
		}()
		job.Run()
	}()
	return true
}
