package pool

import "sync"

// jobQueue is a worker's private double-ended queue. All fields except id
// are guarded by mu; cond is signaled when a job is pushed or the queue
// starts stopping.
type jobQueue struct {
	id       int
	mu       sync.Mutex
	cond     *sync.Cond
	jobs     []Job
	stopping bool
}

func newJobQueue(id int) *jobQueue {
	q := &jobQueue{id: id}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *jobQueue) len() int {
	return len(q.jobs)
}

// push appends job at the back.
func (q *jobQueue) push(job Job) {
	q.jobs = append(q.jobs, job)
}

// pop removes the most recently pushed job.
func (q *jobQueue) pop() (Job, bool) {
	n := len(q.jobs)
	if n == 0 {
		return nil, false
	}
	job := q.jobs[n-1]
	q.jobs[n-1] = nil
	q.jobs = q.jobs[:n-1]
	return job, true
}
