package dispatcher

import "github.com/cognusion/go-rangeget/httpclient"

// Task is a single ranged download: a URL and an inclusive byte range
// [Min, Max]. Result and Err are populated by a worker after execution.
// Ownership of a Task moves cleanly from the dispatcher to the todo queue,
// to whichever worker dequeues it, to the done queue, and back to the
// dispatcher — never held by two goroutines at once.
type Task struct {
	URL string
	Min int64
	Max int64

	Result *httpclient.Response
	Err    error
}

// rangeString formats the task's byte range the way the wire protocol
// expects it: "min-max", both inclusive.
func (t *Task) rangeString() string {
	return formatRange(t.Min, t.Max)
}
