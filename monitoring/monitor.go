// Package monitoring serves the progress and results of a running simulation
// over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/sarchlab/pagesim/monitoring/web"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a simulation into a server that reports its progress and
// finished results.
type Monitor struct {
	portNumber      int
	profileDuration time.Duration
	url             string

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	resultsLock sync.Mutex
	results     []replacement.Result
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// MinPortNumber is the lowest port the monitor listens on when asked to.
// Port 0 and lower ports select a random port.
const MinPortNumber = 1000

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < MinPortNumber {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// ProgressBars returns the bars still shown.
func (m *Monitor) ProgressBars() []*ProgressBar {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	return append([]*ProgressBar(nil), m.progressBars...)
}

// RecordResult publishes the result of a finished run. A later result for the
// same policy replaces the earlier one.
func (m *Monitor) RecordResult(result replacement.Result) {
	m.resultsLock.Lock()
	defer m.resultsLock.Unlock()

	for i, r := range m.results {
		if r.Policy == result.Policy {
			m.results[i] = result
			return
		}
	}

	m.results = append(m.results, result)
}

// Results returns the finished results in the order they were recorded.
func (m *Monitor) Results() []replacement.Result {
	m.resultsLock.Lock()
	defer m.resultsLock.Unlock()

	return append([]replacement.Result(nil), m.results...)
}

func (m *Monitor) findResult(policy string) (replacement.Result, bool) {
	canonical, err := replacement.Canonical(policy)
	if err != nil {
		return replacement.Result{}, false
	}

	m.resultsLock.Lock()
	defer m.resultsLock.Unlock()

	for _, r := range m.results {
		if r.Policy == canonical {
			return r, true
		}
	}

	return replacement.Result{}, false
}

// URL returns the address the server listens on, or an empty string before
// StartServer.
func (m *Monitor) URL() string {
	return m.url
}

// Handler returns the router serving the monitor API and web page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/results", m.listResults)
	r.HandleFunc("/api/result/{policy}", m.resultDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(fServer)

	return r
}

// StartServer starts the monitor as a web server with a custom port if wanted.
func (m *Monitor) StartServer() {
	listener, err := net.Listen("tcp", m.listenAddress())
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	handler := m.Handler()

	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()
}

func (m *Monitor) listenAddress() string {
	if m.portNumber >= MinPortNumber {
		return ":" + strconv.Itoa(m.portNumber)
	}

	return ":0"
}

// OpenInBrowser opens the monitor page in the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.url == "" {
		return fmt.Errorf("monitor server is not started")
	}

	return browser.OpenURL(m.url)
}

type progressRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Hits      uint64    `json:"hits"`
	Faults    uint64    `json:"faults"`
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	bars := m.ProgressBars()

	rsp := make([]progressRsp, 0, len(bars))
	for _, b := range bars {
		b.Lock()
		rsp = append(rsp, progressRsp{
			ID:        b.ID,
			Name:      b.Name,
			StartTime: b.StartTime,
			Total:     b.Total,
			Finished:  b.Finished,
			Hits:      b.Hits,
			Faults:    b.Faults,
		})
		b.Unlock()
	}

	writeJSON(w, rsp)
}

type resultRsp struct {
	Policy       string  `json:"policy"`
	Capacity     int     `json:"capacity"`
	References   int     `json:"references"`
	Faults       int     `json:"faults"`
	DiskWrites   int     `json:"disk_writes"`
	FaultRate    float64 `json:"fault_rate"`
	TracksWrites bool    `json:"tracks_writes"`
}

func (m *Monitor) listResults(w http.ResponseWriter, _ *http.Request) {
	results := m.Results()

	rsp := make([]resultRsp, 0, len(results))
	for _, r := range results {
		rsp = append(rsp, resultRsp{
			Policy:       r.Policy,
			Capacity:     r.Capacity,
			References:   r.References,
			Faults:       r.Faults,
			DiskWrites:   r.DiskWrites,
			FaultRate:    r.FaultRate(),
			TracksWrites: r.TracksWrites,
		})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) resultDetails(w http.ResponseWriter, r *http.Request) {
	policy := mux.Vars(r)["policy"]

	result, ok := m.findResult(policy)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Result not found"))
		dieOnErr(err)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(result)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
