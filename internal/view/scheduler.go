package view

import "time"

// Scheduler schedules one-shot callbacks. Production code uses the system
// clock; tests substitute a manual scheduler to advance virtual time.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}
