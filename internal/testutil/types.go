// Package testutil provides shared fixtures and assertion helpers for
// the inject test suites.
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kvanbree/inject"
)

// Common test errors.
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrConstructor = errors.New("constructor error")
)

// Counter counts factory invocations across goroutines.
type Counter struct {
	n atomic.Int32
}

// Incr increments the counter and returns the new count.
func (c *Counter) Incr() int {
	return int(c.n.Add(1))
}

// Count returns the current count.
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// TestService is a basic test service.
type TestService struct {
	ID        string
	CreatedAt time.Time
	Data      string
}

// NewTestService creates a new test service with a unique ID.
func NewTestService() *TestService {
	return &TestService{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Data:      "test",
	}
}

// TestLogger is a test logger interface.
type TestLogger interface {
	Log(msg string)
	Logs() []string
}

// TestLoggerImpl implements TestLogger.
type TestLoggerImpl struct {
	mu   sync.Mutex
	logs []string
}

func NewTestLogger() TestLogger {
	return &TestLoggerImpl{}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) Logs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.logs))
	copy(out, l.logs)
	return out
}

// TestDatabase is a test database that records its queries to a logger.
type TestDatabase struct {
	Name   string
	Logger TestLogger
}

// FromInjector constructs a TestDatabase, resolving its logger. It makes
// *TestDatabase registrable via AddSingleton, AddScoped, and
// AddTransient.
func (*TestDatabase) FromInjector(inj *inject.Injector) (*TestDatabase, error) {
	logger, err := inject.Resolve[TestLogger](inj)
	if err != nil {
		return nil, err
	}
	return &TestDatabase{Name: "testdb", Logger: logger}, nil
}

// Query records and answers a query.
func (d *TestDatabase) Query(q string) string {
	d.Logger.Log("query: " + q)
	return fmt.Sprintf("%s: %s", d.Name, q)
}

// TestHandler depends on a *TestDatabase, giving tests a two-level
// FromInjector chain.
type TestHandler struct {
	DB *TestDatabase
}

func (*TestHandler) FromInjector(inj *inject.Injector) (*TestHandler, error) {
	db, err := inject.Resolve[*TestDatabase](inj)
	if err != nil {
		return nil, err
	}
	return &TestHandler{DB: db}, nil
}
