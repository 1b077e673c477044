// Package errreport is the process-wide, deduplicated, severity-tagged
// error and crash sink. It is initialised once per process and accepts
// ErrorReport values from every other package, writing through pkg/logger
// and persisting dated crash files on panic.
package errreport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// Severity is the closed set of error severities, ordered from least to most
// severe.
type Severity string

const (
	SeverityDebug    Severity = "Debug"
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityError    Severity = "Error"
	SeverityCritical Severity = "Critical"
	SeverityFatal    Severity = "Fatal"
)

// Category is the closed set of error categories.
type Category string

const (
	CategoryAudio         Category = "Audio"
	CategoryTranscription Category = "Transcription"
	CategoryModel         Category = "Model"
	CategoryDatabase      Category = "Database"
	CategoryNetwork       Category = "Network"
	CategoryFileSystem    Category = "FileSystem"
	CategoryHotkey        Category = "Hotkey"
	CategoryTextInjection Category = "TextInjection"
	CategoryLicense       Category = "License"
	CategoryUI            Category = "Ui"
	CategorySystem        Category = "System"
	CategoryConfiguration Category = "Configuration"
	CategoryUnknown       Category = "Unknown"
)

// ErrorReport is the structured record accepted by Report.
type ErrorReport struct {
	ID              string            `json:"id"`
	Timestamp       time.Time         `json:"timestamp"`
	Severity        Severity          `json:"severity"`
	Category        Category          `json:"category"`
	Message         string            `json:"message"`
	Details         string            `json:"details,omitempty"`
	Backtrace       string            `json:"backtrace,omitempty"`
	Context         map[string]string `json:"context,omitempty"`
	OccurrenceCount int               `json:"occurrence_count"`
	AppVersion      string            `json:"app_version,omitempty"`
	OSInfo          string            `json:"os_info,omitempty"`
}

// New builds an ErrorReport with a fresh ID and timestamp. Use the With*
// builder methods to attach optional fields before calling Report.
func New(severity Severity, category Category, message string) ErrorReport {
	return ErrorReport{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Severity:  severity,
		Category:  category,
		Message:   message,
		Context:   map[string]string{},
		OSInfo:    getOSInfo(),
	}
}

func (r ErrorReport) WithDetails(details string) ErrorReport {
	r.Details = details
	return r
}

func (r ErrorReport) WithBacktrace(backtrace string) ErrorReport {
	r.Backtrace = backtrace
	return r
}

func (r ErrorReport) WithContext(key, value string) ErrorReport {
	if r.Context == nil {
		r.Context = map[string]string{}
	}
	r.Context[key] = value
	return r
}

// Fingerprint is the category:severity:message triple used for
// deduplication.
func (r ErrorReport) Fingerprint() string {
	return fmt.Sprintf("%s:%s:%s", r.Category, r.Severity, r.Message)
}

// CrashReport is the record written by the panic hook.
type CrashReport struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Location  string    `json:"location"`
	Backtrace string    `json:"backtrace"`
	Thread    string    `json:"thread"`
}

const (
	defaultMaxRecent  = 100
	persistEveryAfter = 10  // persist every occurrence for the first N
	persistEveryNth   = 100 // then once every Nth occurrence thereafter
)

// Reporter is the process-wide error sink.
type Reporter struct {
	logDir string

	mu     sync.Mutex
	recent *lru.Cache[string, *ErrorReport]
	counts map[string]int
	order  []string // fingerprints in arrival order, for export ordering

	appVersion string
}

var (
	globalOnce     sync.Once
	global         *Reporter
	globalInitErr  error
)

// Init initialises the process-wide Reporter exactly once. Subsequent calls
// return the already-initialised instance. Init installs no panic hook
// itself: crash reports come from a deferred InstallPanicHook or
// RecoverAndReport.
func Init(logDir, appVersion string) (*Reporter, error) {
	globalOnce.Do(func() {
		cache, err := lru.New[string, *ErrorReport](defaultMaxRecent)
		if err != nil {
			globalInitErr = err
			return
		}
		global = &Reporter{
			logDir:     logDir,
			recent:     cache,
			counts:     make(map[string]int),
			appVersion: appVersion,
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			globalInitErr = fmt.Errorf("failed to create error log directory: %w", err)
		}
	})
	return global, globalInitErr
}

// Get returns the process-wide Reporter, or nil if Init was never called.
func Get() *Reporter {
	return global
}

// Report records one error. The fingerprint is persisted for its first
// persistEveryAfter occurrences, then once per persistEveryNth thereafter;
// the in-memory cache is bounded, evicting the oldest report once full.
func (r *Reporter) Report(report ErrorReport) {
	if r == nil {
		return
	}
	if report.AppVersion == "" {
		report.AppVersion = r.appVersion
	}

	r.mu.Lock()
	fp := report.Fingerprint()
	r.counts[fp]++
	count := r.counts[fp]
	report.OccurrenceCount = count

	shouldPersist := count <= persistEveryAfter || count%persistEveryNth == 0
	if shouldPersist {
		if _, existed := r.recent.Get(fp); !existed {
			r.order = append(r.order, fp)
		}
		stored := report
		r.recent.Add(fp, &stored)
	}
	r.mu.Unlock()

	logCategoryAndSeverity(report)

	if shouldPersist && severityAtLeast(report.Severity, SeverityError) {
		r.writeErrorFile(report)
	}
}

// InstallPanicHook arranges for a panic on the calling goroutine to be
// converted into a dated crash report instead of crashing the process
// silently. Callers at a goroutine boundary should `defer` this immediately
// inside the goroutine function.
func (r *Reporter) InstallPanicHook() {
	if rec := recover(); rec != nil {
		r.handlePanic(rec)
		panic(rec) // re-panic so the caller's own recovery/exit policy still runs
	}
}

// RecoverAndReport is the non-repanicking variant, for goroutines that
// should keep the process alive (e.g. the capture loop) rather than
// propagate the panic further.
func (r *Reporter) RecoverAndReport() {
	if rec := recover(); rec != nil {
		r.handlePanic(rec)
	}
}

func (r *Reporter) handlePanic(rec interface{}) {
	stack := string(debug.Stack())
	crash := CrashReport{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Message:   fmt.Sprintf("%v", rec),
		Location:  topFrame(stack),
		Backtrace: stack,
		Thread:    "goroutine",
	}

	r.Report(New(SeverityFatal, CategorySystem, crash.Message).WithBacktrace(stack))
	r.writeCrashReport(crash)
}

func topFrame(stack string) string {
	lines := strings.Split(stack, "\n")
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "/") || strings.Contains(l, ".go:") {
			return l
		}
	}
	return ""
}

func (r *Reporter) writeErrorFile(report ErrorReport) {
	path := filepath.Join(r.logDir, fmt.Sprintf("errors-%s.log", time.Now().Format("2006-01-02")))
	data, err := json.Marshal(report)
	if err != nil {
		logger.Warning(logger.CategorySystem, "failed to marshal error report: %v", err)
		return
	}
	appendLine(path, string(data))
}

func (r *Reporter) writeCrashReport(crash CrashReport) {
	base := filepath.Join(r.logDir, fmt.Sprintf("crash-%s-%s", time.Now().Format("2006-01-02T15-04-05"), crash.ID))

	if data, err := json.MarshalIndent(crash, "", "  "); err == nil {
		_ = os.WriteFile(base+".json", data, 0644)
	}

	text := fmt.Sprintf("Crash at %s\n%s\n\nLocation: %s\n\n%s\n",
		crash.Timestamp.Format(time.RFC3339), crash.Message, crash.Location, crash.Backtrace)
	_ = os.WriteFile(base+".txt", []byte(text), 0644)
}

func appendLine(path, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}

// Stats summarises the in-memory report cache.
type Stats struct {
	TotalFingerprints int            `json:"total_fingerprints"`
	TotalOccurrences  int            `json:"total_occurrences"`
	ByCategory        map[string]int `json:"by_category"`
	BySeverity        map[string]int `json:"by_severity"`
}

// GetRecent returns the currently cached reports, most recently added last.
func (r *Reporter) GetRecent() []ErrorReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ErrorReport, 0, len(r.order))
	for _, fp := range r.order {
		if rep, ok := r.recent.Peek(fp); ok {
			out = append(out, *rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// GetStats summarises the current cache.
func (r *Reporter) GetStats() Stats {
	recent := r.GetRecent()
	stats := Stats{ByCategory: map[string]int{}, BySeverity: map[string]int{}}

	r.mu.Lock()
	for _, c := range r.counts {
		stats.TotalOccurrences += c
	}
	r.mu.Unlock()

	stats.TotalFingerprints = len(recent)
	for _, rep := range recent {
		stats.ByCategory[string(rep.Category)]++
		stats.BySeverity[string(rep.Severity)]++
	}
	return stats
}

// Clear empties the in-memory report cache and occurrence counters.
func (r *Reporter) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent.Purge()
	r.counts = make(map[string]int)
	r.order = nil
}

// ExportJSON renders the currently cached reports as a JSON array.
func (r *Reporter) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(r.GetRecent(), "", "  ")
}

// ExportMarkdown renders the currently cached reports as a Markdown table.
func (r *Reporter) ExportMarkdown() string {
	var b strings.Builder
	b.WriteString("| Time | Severity | Category | Message | Occurrences |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, rep := range r.GetRecent() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
			rep.Timestamp.Format(time.RFC3339), rep.Severity, rep.Category,
			escapeMarkdownCell(rep.Message), rep.OccurrenceCount)
	}
	return b.String()
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}

// PersistToFile writes the current cache to path as JSON.
func (r *Reporter) PersistToFile(path string) error {
	data, err := r.ExportJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile replaces the in-memory cache with reports read from path.
func (r *Reporter) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read error report file: %w", err)
	}

	var reports []ErrorReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return fmt.Errorf("failed to parse error report file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent.Purge()
	r.counts = make(map[string]int)
	r.order = nil
	for i := range reports {
		fp := reports[i].Fingerprint()
		r.order = append(r.order, fp)
		r.recent.Add(fp, &reports[i])
		r.counts[fp] = reports[i].OccurrenceCount
	}
	return nil
}

func severityAtLeast(s, min Severity) bool {
	rank := map[Severity]int{
		SeverityDebug: 0, SeverityInfo: 1, SeverityWarning: 2,
		SeverityError: 3, SeverityCritical: 4, SeverityFatal: 5,
	}
	return rank[s] >= rank[min]
}

func logCategoryAndSeverity(report ErrorReport) {
	cat := logger.Category(strings.ToUpper(string(report.Category)))
	switch report.Severity {
	case SeverityDebug:
		logger.Debug(cat, "%s", report.Message)
	case SeverityInfo:
		logger.Info(cat, "%s", report.Message)
	case SeverityWarning:
		logger.Warning(cat, "%s", report.Message)
	default:
		logger.Error(cat, "%s", report.Message)
	}
}

func getOSInfo() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
