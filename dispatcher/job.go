package dispatcher

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cognusion/go-timings"

	"github.com/cognusion/go-rangeget/chunkstore"
	"github.com/cognusion/go-rangeget/httpclient"
	"github.com/cognusion/go-rangeget/sizing"
)

// Progress reports either a URL's nominal total size once sizing is done
// (TotalSize set) or the nominal byte span of one drained chunk (ChunkDone
// set), so a caller (the CLI's progress bar) can track an in-flight download
// without reaching into the dispatcher's internals.
type Progress struct {
	URL       string
	TotalSize int64
	ChunkDone int64
}

// Result records what happened to a single URL's download.
type Result struct {
	URL string
	Err error
}

// Dispatcher wires a sizing policy and a worker Pool together to run the
// per-URL dispatch loop: size the URL, submit NumTasks ranged requests,
// drain exactly that many completions, write and reassemble chunks. Only
// one URL is in flight at a time; its sub-requests run concurrently across
// the Pool's workers.
type Dispatcher struct {
	TimingsOut *log.Logger
	DebugOut   *log.Logger

	// Progress, if non-nil, receives one message per completed chunk and
	// one message when a URL's size is known. Each send blocks until the
	// channel accepts it, so a non-nil channel must be drained while Run is
	// in progress; callers that don't care about progress should leave this
	// nil.
	Progress chan<- Progress

	pool     *Pool
	policy   *sizing.Policy
	download string
}

// New returns a Dispatcher with workerCount workers, probing and fetching
// with client (a default &httpclient.Client{} is used if client is nil),
// and writing chunk/output files under downloadDir. Logged messages are
// discarded; use NewWithLoggers to capture them.
func New(workerCount int, downloadDir string, client *httpclient.Client) *Dispatcher {
	return NewWithLoggers(workerCount, downloadDir, client, nil, nil)
}

// NewWithLoggers is New, but timingLogger and debugLogger (both optional)
// are threaded down into the worker Pool so per-task debug output and
// per-URL dispatch timing share one sink.
func NewWithLoggers(workerCount int, downloadDir string, client *httpclient.Client, timingLogger, debugLogger *log.Logger) *Dispatcher {
	if client == nil {
		client = &httpclient.Client{}
	}
	if timingLogger == nil {
		timingLogger = log.New(io.Discard, "", 0)
	}
	if debugLogger == nil {
		debugLogger = log.New(io.Discard, "", 0)
	}

	pool := NewPool(workerCount, client)
	pool.TimingsOut = timingLogger
	pool.DebugOut = debugLogger

	return &Dispatcher{
		TimingsOut: timingLogger,
		DebugOut:   debugLogger,
		pool:       pool,
		policy:     sizing.NewPolicy(client),
		download:   downloadDir,
	}
}

// Close shuts down the worker pool. Call after Run has processed every URL.
func (d *Dispatcher) Close() {
	d.pool.Close()
}

// Run processes each URL in turn, returning one Result per URL regardless
// of per-URL success or failure (the CLI always exits 0; per-URL failures
// are reported here, not propagated as a fatal error).
func (d *Dispatcher) Run(urls []string) []Result {
	results := make([]Result, 0, len(urls))
	for _, url := range urls {
		results = append(results, d.runOne(url))
	}
	return results
}

func (d *Dispatcher) runOne(url string) Result {
	dlid := d.pool.nextDownloadID()
	defer timings.Track(fmt.Sprintf("[%s] dispatch %s", dlid, url), time.Now(), d.TimingsOut)

	decision, err := d.policy.GetNumTasks(url, d.pool.workers)
	if err != nil {
		d.DebugOut.Printf("[%s] skipping %s: %s\n", dlid, url, err)
		return Result{URL: url, Err: err}
	}

	if decision.NumTasks < 1 {
		err := fmt.Errorf("dispatcher: %s: sizing produced zero tasks", url)
		d.DebugOut.Printf("[%s] %s\n", dlid, err)
		return Result{URL: url, Err: err}
	}

	if d.Progress != nil {
		d.Progress <- Progress{URL: url, TotalSize: decision.ChunkSize * int64(decision.NumTasks)}
	}

	d.DebugOut.Printf("[%s] %s: %d tasks of %d bytes each\n", dlid, url, decision.NumTasks, decision.ChunkSize)

	for i := 0; i < decision.NumTasks; i++ {
		min := int64(i) * decision.ChunkSize
		max := min + decision.ChunkSize - 1
		d.pool.Submit(&Task{URL: url, Min: min, Max: max})
	}

	// Every submitted task is drained from done regardless of individual
	// failure: a failed range only means its chunk file is never written,
	// which Reassemble below detects and stops on, leaving partial output.
	var firstErr error
	for i := 0; i < decision.NumTasks; i++ {
		task := d.pool.Collect()
		if werr := d.writeChunk(task); werr != nil && firstErr == nil {
			firstErr = werr
		}
		if d.Progress != nil {
			d.Progress <- Progress{URL: url, ChunkDone: task.Max - task.Min + 1}
		}
	}

	if err := chunkstore.Reassemble(d.download, url, decision.NumTasks, decision.ChunkSize); err != nil {
		d.DebugOut.Printf("[%s] reassembly failed for %s: %s\n", dlid, url, err)
		return Result{URL: url, Err: err}
	}

	if firstErr != nil {
		d.DebugOut.Printf("[%s] %s completed with errors: %s\n", dlid, url, firstErr)
		return Result{URL: url, Err: firstErr}
	}

	d.DebugOut.Printf("[%s] %s complete\n", dlid, url)
	return Result{URL: url}
}

// writeChunk persists a completed Task's body to its chunk file, or logs
// and returns an error if the Task failed.
func (d *Dispatcher) writeChunk(task *Task) error {
	if task.Err != nil || task.Result == nil {
		d.DebugOut.Printf("error downloading %s range %s: %v\n", task.URL, task.rangeString(), task.Err)
		return task.Err
	}
	return chunkstore.WriteChunk(d.download, task.Min, task.Result.Content())
}
