package utils

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type outcome[T any] struct {
	result   T
	err      error
	panicked interface{}
}

// RunWithTimeout runs fn on a background goroutine and waits at most
// timeout for it to finish. On completion within the deadline it returns
// fn's result and error unchanged. On deadline it returns timedOut=true and
// abandons the worker: the goroutine keeps running to completion but its
// outcome is discarded, and the buffered channel lets it exit without
// blocking. There is no way to preempt the work itself.
func RunWithTimeout[T any](fn func() (T, error), timeout time.Duration) (result T, timedOut bool, err error) {
	ch := make(chan outcome[T], 1)

	go func() {
		var o outcome[T]
		defer func() {
			if r := recover(); r != nil {
				o.panicked = r
			}
			ch <- o
		}()

		o.result, o.err = fn()
	}()

	select {
	case o := <-ch:
		if o.panicked != nil {
			return result, false, fmt.Errorf("computation panicked: %v", o.panicked)
		}

		return o.result, false, o.err

	case <-time.After(timeout):
		log.Warnf("computation timed out after %s, abandoning worker", timeout)
		return result, true, nil
	}
}
