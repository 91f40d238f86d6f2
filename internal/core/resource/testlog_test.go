package resource

import (
	"sync"

	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
)

// recordingLog captures log calls so tests can assert on severities.
type recordingLog struct {
	mu      sync.Mutex
	debugs  []string
	infos   []string
	warns   []string
	errors  []string
	level   log.Level
}

var _ log.Log = (*recordingLog)(nil)

func newRecordingLog() *recordingLog {
	return &recordingLog{level: log.LevelDebug}
}

func (r *recordingLog) Debug(msg string, _ ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debugs = append(r.debugs, msg)
}

func (r *recordingLog) Info(msg string, _ ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func (r *recordingLog) Warn(msg string, _ ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func (r *recordingLog) Error(msg string, _ ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recordingLog) Fatal(msg string, _ ...log.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recordingLog) With(_ ...log.Field) log.Log { return r }
func (r *recordingLog) SetLevel(l log.Level)        { r.level = l }
func (r *recordingLog) GetLevel() log.Level         { return r.level }

func (r *recordingLog) warnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warns)
}

func (r *recordingLog) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}
