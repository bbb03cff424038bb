package concurrency

import (
	"time"
)

// ThrottledWorker runs a job for each argument with a fixed delay
// between jobs, used to avoid flooding the bridge with requests when
// reading member states at startup.
type ThrottledWorker struct {
	jobCallback func(arg string) error
}

func NewThrottledWorker(jobCallback func(arg string) error) ThrottledWorker {
	return ThrottledWorker{jobCallback: jobCallback}
}

func (w *ThrottledWorker) Run(jobArgs []string) {

	jobArgsChannel := make(chan string, len(jobArgs))

	for _, arg := range jobArgs {
		jobArgsChannel <- arg
	}
	close(jobArgsChannel)
	limiter := time.NewTicker(100 * time.Millisecond)
	defer limiter.Stop()

	for arg := range jobArgsChannel {
		<-limiter.C
		w.jobCallback(arg)
	}

}
