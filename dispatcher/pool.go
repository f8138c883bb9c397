// Package dispatcher implements the worker pool and per-URL scheduling
// that pulls sized ranged requests through a pair of bounded queues and
// drains their completions.
package dispatcher

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cognusion/go-sequence"
	"github.com/cognusion/go-timings"

	"github.com/cognusion/go-rangeget/httpclient"
	"github.com/cognusion/go-rangeget/queue"
)

var seq = sequence.New(0)

func formatRange(min, max int64) string {
	return strconv.FormatInt(min, 10) + "-" + strconv.FormatInt(max, 10)
}

// splitHostPage splits url at its first '/' into host and page.
func splitHostPage(url string) (host, page string, ok bool) {
	idx := strings.IndexByte(url, '/')
	if idx < 0 {
		return "", "", false
	}
	return url[:idx], url[idx+1:], true
}

// Pool owns the todo/done queues and the fixed set of worker goroutines
// that move Tasks between them. Only one URL's work is dispatched at a
// time, but all of that URL's ranged sub-requests run concurrently across
// the pool's workers.
type Pool struct {
	TimingsOut *log.Logger
	DebugOut   *log.Logger

	client  *httpclient.Client
	workers int

	todo *queue.Queue[*Task]
	done *queue.Queue[*Task]

	wg sync.WaitGroup
}

// NewPool spawns workerCount worker goroutines pulling from a pair of
// queues, each with capacity 2*workerCount. A nil client is replaced with
// a default &httpclient.Client{}; TimingsOut and DebugOut start out as
// loggers that discard.
func NewPool(workerCount int, client *httpclient.Client) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if client == nil {
		client = &httpclient.Client{}
	}

	p := &Pool{
		TimingsOut: log.New(io.Discard, "", 0),
		DebugOut:   log.New(io.Discard, "", 0),
		client:     client,
		workers:    workerCount,
		todo:       queue.New[*Task](workerCount * 2),
		done:       queue.New[*Task](workerCount * 2),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.workerLoop()
	}

	return p
}

// workerLoop pulls a Task from todo, executes its ranged GET, and pushes
// the completed (or failed) Task onto done. It exits on the nil sentinel.
func (p *Pool) workerLoop() {
	defer p.wg.Done()

	for {
		task := p.todo.Get()
		if task == nil {
			return
		}

		// Submit only ever carries a Task whose URL already passed
		// sizing.GetNumTasks's split, so host/page are always well-formed
		// here.
		host, page, _ := splitHostPage(task.URL)

		start := time.Now()
		res, err := p.client.Query(host, page, task.rangeString(), 80)
		timings.Track(fmt.Sprintf("worker fetch %s", task.rangeString()), start, p.TimingsOut)
		if err != nil {
			task.Err = err
			p.DebugOut.Printf("error fetching %s range %s: %s\n", task.URL, task.rangeString(), err)
		} else {
			task.Result = res
		}

		p.done.Put(task)
	}
}

// Close enqueues one nil sentinel per worker onto todo and waits for every
// worker to exit. It must be called exactly once, after all dispatch work
// has been submitted.
func (p *Pool) Close() {
	for i := 0; i < p.workers; i++ {
		p.todo.Put(nil)
	}
	p.wg.Wait()
}

// Submit enqueues a Task onto todo, blocking if the queue is full.
func (p *Pool) Submit(task *Task) {
	p.todo.Put(task)
}

// Collect dequeues exactly one completed Task from done, blocking until
// one is available.
func (p *Pool) Collect() *Task {
	return p.done.Get()
}

func (p *Pool) nextDownloadID() string {
	return seq.NextHashID()
}
