package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Transition struct {
	At   time.Time
	From string
	To   string
}

type SessionMetric struct {
	StartTime      time.Time
	Duration       time.Duration
	Ticks          int
	Commands       int // Commands dispatched to the game, including ignored ones
	Ignored        int
	DecodeFailures int
	LockWait       time.Duration // Total time input and tick spent waiting for the game lock
	Transitions    []Transition
}

type Collector interface {
	Start()
	AddTick()
	AddCommand(handled bool)
	AddDecodeFailure()
	AddLockWait(wait time.Duration)
	AddTransition(from, to string)
	Complete() SessionMetric
}

type collector struct {
	startTime      time.Time
	ticks          atomic.Int64
	commands       atomic.Int64
	ignored        atomic.Int64
	decodeFailures atomic.Int64
	lockWait       atomic.Int64

	mu          sync.Mutex
	transitions []Transition
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddTick() {
	m.ticks.Add(1)
}

func (m *collector) AddCommand(handled bool) {
	m.commands.Add(1)
	if !handled {
		m.ignored.Add(1)
	}
}

func (m *collector) AddDecodeFailure() {
	m.decodeFailures.Add(1)
}

func (m *collector) AddLockWait(wait time.Duration) {
	m.lockWait.Add(int64(wait))
}

func (m *collector) AddTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, Transition{At: time.Now(), From: from, To: to})
}

func (m *collector) Complete() SessionMetric {
	m.mu.Lock()
	transitions := make([]Transition, len(m.transitions))
	copy(transitions, m.transitions)
	m.mu.Unlock()

	return SessionMetric{
		StartTime:      m.startTime,
		Duration:       time.Since(m.startTime),
		Ticks:          int(m.ticks.Load()),
		Commands:       int(m.commands.Load()),
		Ignored:        int(m.ignored.Load()),
		DecodeFailures: int(m.decodeFailures.Load()),
		LockWait:       time.Duration(m.lockWait.Load()),
		Transitions:    transitions,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                         {}
func (m *dummyCollector) AddTick()                       {}
func (m *dummyCollector) AddCommand(handled bool)        {}
func (m *dummyCollector) AddDecodeFailure()              {}
func (m *dummyCollector) AddLockWait(wait time.Duration) {}
func (m *dummyCollector) AddTransition(from, to string)  {}
func (m *dummyCollector) Complete() SessionMetric        { return SessionMetric{} }
