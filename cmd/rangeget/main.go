// Command rangeget is a parallel, range-based HTTP/1.0 file downloader.
// Given a file of URLs, a worker count, and a download directory, it
// fetches each resource using concurrent byte-range GET requests and
// leaves one reassembled file per URL in the download directory.
//
// Usage:
//
//	rangeget <url_file> <num_workers> <download_dir>
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/cheggaaa/pb/v3"

	"github.com/cognusion/go-rangeget/dispatcher"
	"github.com/cognusion/go-rangeget/httpclient"
)

const usage = "usage: rangeget <url_file> <num_workers> <download_dir>\n"

func main() {
	quiet := flag.Bool("quiet", false, "suppress debug logging to stderr")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	urlFile, workerArg, downloadDir := args[0], args[1], args[2]

	workers, err := strconv.Atoi(workerArg)
	if err != nil || workers < 1 {
		fmt.Fprintf(os.Stderr, "num_workers must be a positive integer, got %q\n", workerArg)
		os.Exit(1)
	}

	if err := os.MkdirAll(downloadDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %s\n", downloadDir, err)
		os.Exit(1)
	}

	urls, err := readURLs(urlFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening %s: %s\n", urlFile, err)
		os.Exit(1)
	}

	debugOut := log.New(io.Discard, "", 0)
	if !*quiet {
		debugOut = log.New(os.Stderr, "[DEBUG] ", log.LstdFlags)
	}

	progress := make(chan dispatcher.Progress, 16)
	done := make(chan struct{})
	go renderProgress(progress, done)

	d := dispatcher.NewWithLoggers(workers, downloadDir, &httpclient.Client{}, nil, debugOut)
	d.Progress = progress

	results := d.Run(urls)
	d.Close()
	close(progress)
	<-done

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed: %s: %s\n", r.URL, r.Err)
		}
	}
	fmt.Printf("%d/%d downloads completed successfully\n", len(results)-failed, len(results))

	// Per-URL failures never change the exit code; only usage/setup
	// errors above are fatal.
	os.Exit(0)
}

// readURLs reads one URL per line from path, stripping the trailing
// newline per line. Empty lines are kept rather than silently skipped;
// they surface as a malformed-URL failure downstream.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		urls = append(urls, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// renderProgress drives one progress bar per URL as dispatcher.Progress
// messages arrive, closing done once the channel is drained.
func renderProgress(progress <-chan dispatcher.Progress, done chan<- struct{}) {
	defer close(done)

	bars := map[string]*pb.ProgressBar{}
	for p := range progress {
		bar, ok := bars[p.URL]
		if !ok {
			bar = pb.New64(p.TotalSize)
			bar.Set("prefix", p.URL+" ")
			bar.Start()
			bars[p.URL] = bar
		}
		if p.TotalSize > 0 {
			bar.SetTotal(p.TotalSize)
		}
		if p.ChunkDone > 0 {
			bar.Add64(p.ChunkDone)
		}
	}
	for _, bar := range bars {
		bar.Finish()
	}
}
