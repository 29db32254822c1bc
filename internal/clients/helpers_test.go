package clients

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordedCall struct {
	Service   string
	Operation string
	Err       error
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *recordingObserver) ObserveCall(service, operation string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{Service: service, Operation: operation, Err: err})
}

func (r *recordingObserver) Calls() []recordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedCall(nil), r.calls...)
}

func ptr[T any](v T) *T { return &v }
