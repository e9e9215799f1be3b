package testutil

import (
	"sync"

	"github.com/sagarc03/r2ctl"
)

// RecordingObserver is a TransferObserver that remembers what it was told.
type RecordingObserver struct {
	Label     string
	Direction r2ctl.Direction
	Total     int64

	mu      sync.Mutex
	seen    int64
	reports int
	closes  int
}

func (o *RecordingObserver) Report(n int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen += n
	o.reports++
}

func (o *RecordingObserver) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closes++
	return nil
}

// Seen returns the sum of all reported increments.
func (o *RecordingObserver) Seen() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.seen
}

// Closes returns how many times Close was called.
func (o *RecordingObserver) Closes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closes
}

// ObserverRecorder builds RecordingObservers and keeps each one it built.
type ObserverRecorder struct {
	// Err, when set, is returned by the factory instead of an observer.
	Err error

	mu        sync.Mutex
	observers []*RecordingObserver
}

// Factory returns an r2ctl.ObserverFactory backed by the recorder.
func (r *ObserverRecorder) Factory() r2ctl.ObserverFactory {
	return func(label string, dir r2ctl.Direction, total int64) (r2ctl.TransferObserver, error) {
		if r.Err != nil {
			return nil, r.Err
		}
		o := &RecordingObserver{Label: label, Direction: dir, Total: total}
		r.mu.Lock()
		r.observers = append(r.observers, o)
		r.mu.Unlock()
		return o, nil
	}
}

// Observers returns the observers built so far.
func (r *ObserverRecorder) Observers() []*RecordingObserver {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordingObserver(nil), r.observers...)
}
