package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cn-data/internal/fetch"
	"cn-data/internal/model"
)

// wednesday, so the trailing week covers one full weekend
var testNow = time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)

func writeProgress(t *testing.T, m map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".lastday.json")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFilterDatesToCrawlNoProgress(t *testing.T) {
	jobs := FilterDatesToCrawl([]model.Venue{model.VenueSHFE},
		filepath.Join(t.TempDir(), "absent.json"), 7, testNow)

	// May 29..Jun 4 minus the Jun 1/2 weekend
	var dates []string
	for _, j := range jobs {
		assert.Equal(t, model.VenueSHFE, j.Venue)
		assert.Contains(t, j.URL, "kx"+j.Date.Format("20060102")+".dat")
		dates = append(dates, j.Date.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2024-05-29", "2024-05-30", "2024-05-31", "2024-06-03", "2024-06-04"}, dates)
}

func TestFilterDatesToCrawlGapFill(t *testing.T) {
	progress := writeProgress(t, map[string]string{"SHFE": "2024-06-02"})

	jobs := FilterDatesToCrawl([]model.Venue{model.VenueSHFE}, progress, 7, testNow)

	var dates []string
	for _, j := range jobs {
		dates = append(dates, j.Date.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, dates)
}

func TestFilterDatesToCrawlUpToDate(t *testing.T) {
	progress := writeProgress(t, map[string]string{"SHFE": "2024-06-04"})

	jobs := FilterDatesToCrawl([]model.Venue{model.VenueSHFE}, progress, 7, testNow)
	assert.Empty(t, jobs)
}

func TestFilterDatesToCrawlSkipsUnsourcedVenues(t *testing.T) {
	jobs := FilterDatesToCrawl([]model.Venue{model.VenueCTP, model.VenueSSE},
		filepath.Join(t.TempDir(), "absent.json"), 7, testNow)
	assert.Empty(t, jobs)
}

func TestDestPath(t *testing.T) {
	day := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		venue model.Venue
		url   string
		want  string
	}{
		{model.VenueSHFE, "http://www.shfe.com.cn/data/dailydata/kx/kx20240530.dat", "SHFE/shfe_20240530.dat"},
		{model.VenueCFFEX, "http://www.cffex.com.cn/sj/historysj/202405/zip/20240530_1.zip", "CFFEX/cffex_20240530.zip"},
		{model.VenueCZCE, "http://www.czce.com.cn/cn/DFSStaticFiles/Future/2024/20240530/FutureDataDaily.htm", "CZCE/czce_20240530.htm"},
		{model.VenueDCE, "http://www.dce.com.cn/publicweb/quotesdata/dayQuotesCh.html?year=2024&month=4&day=30", "DCE/dce_20240530.html"},
		{model.VenueINE, "http://example.com/no-extension", "INE/ine_20240530.dat"},
	}
	for _, tc := range testCases {
		got := destPath("data", tc.venue, day, tc.url)
		assert.Equal(t, filepath.Join("data", filepath.FromSlash(tc.want)), got)
	}
}

func newBatchClient(t *testing.T) *fetch.Client {
	t.Helper()
	rt, err := fetch.NewRuntime("")
	require.NoError(t, err)
	t.Cleanup(rt.Release)
	return fetch.NewClient(rt, fetch.Options{})
}

func TestRunParallel(t *testing.T) {
	payload := bytes.Repeat([]byte("contract,settle\n"), 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/kx20240603.dat", "/kx20240604.dat":
			w.Write(payload)
		case "/kx20240605.dat":
			http.NotFound(w, r)
		default:
			w.Write(bytes.Repeat([]byte{0x01}, 4096)) // oversized for the test buffer
		}
	}))
	t.Cleanup(srv.Close)

	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	jobs := []Job{
		{Venue: model.VenueSHFE, Date: day(3), URL: srv.URL + "/kx20240603.dat"},
		{Venue: model.VenueSHFE, Date: day(4), URL: srv.URL + "/kx20240604.dat"},
		{Venue: model.VenueSHFE, Date: day(5), URL: srv.URL + "/kx20240605.dat"},
		{Venue: model.VenueINE, Date: day(4), URL: srv.URL + "/huge20240604.dat"},
	}

	dataDir := t.TempDir()
	updates := make(chan ProgressUpdate, 16)
	shutdown := make(chan struct{})

	success, failed, successList, failedList := RunParallel(
		newBatchClient(t), jobs, dataDir, 1024, 2, updates, shutdown)

	assert.Equal(t, 2, success)
	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"SHFE"}, successList)
	require.Len(t, failedList, 2)

	for _, d := range []string{"20240603", "20240604"} {
		got, err := os.ReadFile(filepath.Join(dataDir, "SHFE", "shfe_"+d+".dat"))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
	// failed jobs must leave nothing behind
	_, err := os.Stat(filepath.Join(dataDir, "SHFE", "shfe_20240605.dat"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dataDir, "INE", "ine_20240604.dat"))
	assert.True(t, os.IsNotExist(err))

	close(updates)
	var got []ProgressUpdate
	for u := range updates {
		got = append(got, u)
	}
	assert.Len(t, got, 2)
}

func TestRunParallelShutdown(t *testing.T) {
	shutdown := make(chan struct{})
	close(shutdown) // closed up front: workers must exit without fetching

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server after shutdown")
	}))
	t.Cleanup(srv.Close)

	jobs := []Job{
		{Venue: model.VenueSHFE, Date: testNow, URL: srv.URL + "/kx.dat"},
	}

	success, failed, _, _ := RunParallel(newBatchClient(t), jobs, t.TempDir(), 1024, 1,
		make(chan ProgressUpdate, 1), shutdown)
	assert.Zero(t, success)
	assert.Zero(t, failed)
}

func TestRunOneCrawlNothingToDo(t *testing.T) {
	progress := writeProgress(t, map[string]string{"SHFE": "2099-01-01"})

	done := make(chan Done, 1)
	RunOneCrawl(newBatchClient(t), []model.Venue{model.VenueSHFE},
		t.TempDir(), progress, 7, 1024, 2, make(chan ProgressUpdate, 1), done, make(chan struct{}))

	select {
	case <-done:
	default:
		t.Fatal("done signal missing")
	}
}

func TestRunProgressWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lastday.json")
	updates := make(chan ProgressUpdate, 8)
	finished := make(chan struct{})

	go func() {
		RunProgressWriter(path, updates)
		close(finished)
	}()

	updates <- ProgressUpdate{Venue: "SHFE", Date: "2024-06-03"}
	updates <- ProgressUpdate{Venue: "SHFE", Date: "2024-06-04"}
	updates <- ProgressUpdate{Venue: "CZCE", Date: "2024-06-04"}
	// out-of-order completion must not move progress backwards
	updates <- ProgressUpdate{Venue: "SHFE", Date: "2024-06-02"}
	close(updates)
	<-finished

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, map[string]string{"SHFE": "2024-06-04", "CZCE": "2024-06-04"}, m)
}

func TestWriteRunReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "daily")

	err := writeRunReport(dir,
		[]string{"SHFE", "CZCE"},
		[]failedEntry{{Venue: "DCE", Date: "2024-06-04", Reason: "status 404"}})
	require.NoError(t, err)

	var successes []string
	data, err := os.ReadFile(filepath.Join(dir, ".lastrun.success.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &successes))
	assert.Equal(t, []string{"SHFE", "CZCE"}, successes)

	var failures []failedEntry
	data, err = os.ReadFile(filepath.Join(dir, ".lastrun.failed.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &failures))
	require.Len(t, failures, 1)
	assert.Equal(t, "DCE", failures[0].Venue)
}

func TestAppendSuccessDedupes(t *testing.T) {
	list := appendSuccess(nil, "SHFE")
	list = appendSuccess(list, "CZCE")
	list = appendSuccess(list, "SHFE")
	assert.Equal(t, []string{"SHFE", "CZCE"}, list)
}

func TestJoinFailedReasons(t *testing.T) {
	assert.Empty(t, joinFailedReasons(nil))

	short := joinFailedReasons([]failedEntry{
		{Venue: "DCE", Date: "2024-06-04", Reason: "status 404"},
		{Venue: "INE", Date: "2024-06-04", Reason: "timeout"},
	})
	assert.Equal(t, "DCE 2024-06-04: status 404; INE 2024-06-04: timeout", short)

	var many []failedEntry
	for i := 0; i < 10; i++ {
		many = append(many, failedEntry{Venue: "SHFE", Date: fmt.Sprintf("2024-06-%02d", i+1), Reason: "x"})
	}
	long := joinFailedReasons(many)
	assert.Contains(t, long, "(+5 more)")
}
