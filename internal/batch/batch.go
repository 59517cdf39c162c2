// Package batch crawls venue daily files in parallel: one job per venue
// per trading date, a fixed worker pool, and one bounded transfer buffer
// per worker so the memory ceiling is workers*capacity regardless of job
// count.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cn-data/internal/fetch"
	"cn-data/internal/model"
	"cn-data/internal/saver"
	"cn-data/internal/slogx"
	"cn-data/internal/source"
)

// Cmd is sent on the trigger channel to start one crawl run.
type Cmd struct{}

// Job represents one crawl unit (venue + trading date). The URL is
// resolved at job-building time so workers never consult the registry.
type Job struct {
	Venue model.Venue
	Date  time.Time
	URL   string
}

// JobResult is sent by workers for fan-in
type JobResult struct {
	Ok     bool
	Venue  string
	Date   string
	Reason string
	Bytes  int
}

// Done signals crawl completion
type Done struct{}

// FilterDatesToCrawl returns jobs: no progress → trailing window of days;
// has progress → gap (last date+1 .. yesterday). Weekends are skipped,
// venues without a daily source are dropped.
func FilterDatesToCrawl(venues []model.Venue, progressPath string, days int, now time.Time) []Job {
	m := loadProgress(progressPath)
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	var jobs []Job
	for _, v := range venues {
		if !source.HasDailySource(v) {
			slog.Warn("venue has no daily source, skip", "venue", v.String())
			continue
		}
		start := yesterday.AddDate(0, 0, -(days - 1))
		if last, ok := m[v.String()]; ok {
			t, err := time.ParseInLocation("2006-01-02", last, time.UTC)
			if err == nil {
				start = t.AddDate(0, 0, 1)
			}
		}
		for d := start; !d.After(yesterday); d = d.AddDate(0, 0, 1) {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			fileURL, err := source.DailyURL(v, d)
			if err != nil {
				continue
			}
			jobs = append(jobs, Job{Venue: v, Date: d, URL: fileURL})
		}
	}
	return jobs
}

// RunOneCrawl runs one crawl cycle in parallel mode, sends done when finished.
// Luôn dùng RunParallel (chan job + workers), kể cả khi chỉ có 1 venue.
func RunOneCrawl(
	client *fetch.Client,
	venues []model.Venue,
	dataDir, progressPath string,
	days, capacity, workers int,
	progressUpdates chan<- ProgressUpdate,
	done chan<- Done,
	shutdown <-chan struct{},
) {
	now := time.Now().UTC()
	jobs := FilterDatesToCrawl(venues, progressPath, days, now)
	if len(jobs) == 0 {
		slog.Info("no jobs to crawl, skip")
		done <- Done{}
		return
	}

	seenVenues := make(map[model.Venue]bool)
	for _, j := range jobs {
		seenVenues[j.Venue] = true
	}
	skipped := len(venues) - len(seenVenues)
	if skipped > 0 {
		slog.Info("venues up to date, jobs to crawl", "skipped", skipped, "jobs", len(jobs), "venues", len(seenVenues))
	} else {
		slog.Info("jobs to crawl", "jobs", len(jobs))
	}

	var success, failed int
	var successList []string
	var failedList []failedEntry
	defer func() {
		if len(successList) > 0 || len(failedList) > 0 {
			if err := writeRunReport(dataDir, successList, failedList); err != nil {
				slog.Warn("could not write run report", "error", err)
			} else {
				slog.Info("run report saved", "success", len(successList), "failed", len(failedList))
			}
		}
	}()

	success, failed, successList, failedList = RunParallel(client, jobs, dataDir, capacity, workers, progressUpdates, shutdown)
	slog.Info("crawl done", "success", success, "failed", failed)
	done <- Done{}
}

func runJobResultCollector(
	results <-chan JobResult,
	mu *sync.Mutex,
	success, failed *int,
	bytesPerVenue map[string]int,
	successList *[]string,
	failedList *[]failedEntry,
) {
	for r := range results {
		mu.Lock()
		if r.Ok {
			*success++
			*successList = appendSuccess(*successList, r.Venue)
			bytesPerVenue[r.Venue] += r.Bytes
		} else {
			*failed++
			*failedList = append(*failedList, failedEntry{Venue: r.Venue, Date: r.Date, Reason: r.Reason})
		}
		mu.Unlock()
	}
}

// RunParallel runs crawl with N workers. Every worker owns one transfer
// buffer for its whole lifetime; a file that does not fit the buffer is a
// failed job, never a bigger allocation.
func RunParallel(
	client *fetch.Client,
	jobs []Job,
	dataDir string,
	capacity, workers int,
	progressUpdates chan<- ProgressUpdate,
	shutdown <-chan struct{},
) (successCount, failedCount int, successList []string, failedList []failedEntry) {
	if workers <= 0 {
		workers = 1
	}

	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs)
	errs := make(chan errorEntry, 64)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(logs)
	}()
	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		runErrorHandler(errs, logger)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel() // abort in-flight transfers too
		case <-ctx.Done():
		}
	}()

	// errs drains through logger, so the error handler must stop first.
	defer func() {
		close(errs)
		errWg.Wait()
		close(logs)
		logWg.Wait()
	}()

	for v := range venueDirs(jobs) {
		if err := os.MkdirAll(filepath.Join(dataDir, v), 0755); err != nil {
			logger.Error("could not create venue dir", "venue", v, "error", err)
		}
	}

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	results := make(chan JobResult, len(jobs)+64)
	var mu sync.Mutex
	var success, failed int
	bytesPerVenue := make(map[string]int)
	var successListPtr []string
	var failedListPtr []failedEntry
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		runJobResultCollector(results, &mu, &success, &failed, bytesPerVenue, &successListPtr, &failedListPtr)
	}()

	var hbWg sync.WaitGroup
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(ctx, 30*time.Second, len(jobs), &mu, &success, &failed, bytesPerVenue, logger)
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			buf, err := fetch.NewBuffer(capacity)
			if err != nil {
				logger.Error("worker buffer alloc failed", "error", err)
				return
			}
			for {
				select {
				case <-shutdown:
					return
				default:
				}
				select {
				case <-shutdown:
					return
				case job, ok := <-pending:
					if !ok {
						return
					}
					runJob(ctx, client, buf, job, dataDir, logger, errs, results, progressUpdates)
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	resWg.Wait()
	cancel()
	hbWg.Wait()

	var total int
	for _, n := range bytesPerVenue {
		total += n
	}
	logger.Info("summary", "total_bytes", total, "success", success, "failed", failed)
	if len(bytesPerVenue) > 0 {
		venues := make([]string, 0, len(bytesPerVenue))
		for v := range bytesPerVenue {
			venues = append(venues, v)
		}
		sort.Strings(venues)
		for _, v := range venues {
			logger.Info("summary venue", "venue", v, "bytes", bytesPerVenue[v])
		}
	}
	if len(failedListPtr) > 0 {
		logger.Info("summary failed", "count", len(failedListPtr), "reasons", joinFailedReasons(failedListPtr))
	}

	return success, failed, successListPtr, failedListPtr
}

func runJob(
	ctx context.Context,
	client *fetch.Client,
	buf *fetch.Buffer,
	job Job,
	dataDir string,
	logger *slog.Logger,
	errs chan<- errorEntry,
	results chan<- JobResult,
	progressUpdates chan<- ProgressUpdate,
) {
	venue := job.Venue.String()
	day := job.Date.Format("2006-01-02")

	n, err := client.Fetch(ctx, job.URL, buf)
	if err != nil {
		reason := err.Error()
		logger.Error("crawl fail", "venue", venue, "date", day, "reason", reason)
		select {
		case errs <- errorEntry{Venue: venue, Err: err}:
		default:
		}
		results <- JobResult{Ok: false, Venue: venue, Date: day, Reason: reason}
		return
	}
	if n == 0 {
		reason := "empty response"
		logger.Error("crawl fail", "venue", venue, "date", day, "reason", reason)
		results <- JobResult{Ok: false, Venue: venue, Date: day, Reason: reason}
		return
	}

	dest := destPath(dataDir, job.Venue, job.Date, job.URL)
	if err := saver.SaveRaw(buf.Bytes(), dest); err != nil {
		reason := err.Error()
		logger.Error("save fail", "venue", venue, "date", day, "reason", reason)
		results <- JobResult{Ok: false, Venue: venue, Date: day, Reason: reason}
		return
	}

	logger.Info("crawl ok", "venue", venue, "date", day, "bytes", n, "path", dest)
	results <- JobResult{Ok: true, Venue: venue, Date: day, Bytes: n}
	select {
	case progressUpdates <- ProgressUpdate{Venue: venue, Date: day}:
	default:
		logger.Warn("progress channel full, skip update", "venue", venue)
	}
}

// destPath keeps the source file's own extension so the raw payload stays
// recognizable (.dat, .zip, .htm).
func destPath(dataDir string, v model.Venue, day time.Time, rawURL string) string {
	ext := ".dat"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	name := fmt.Sprintf("%s_%s%s", strings.ToLower(v.String()), day.Format("20060102"), ext)
	return filepath.Join(dataDir, v.String(), name)
}

func venueDirs(jobs []Job) map[string]bool {
	dirs := make(map[string]bool)
	for _, j := range jobs {
		dirs[j.Venue.String()] = true
	}
	return dirs
}
