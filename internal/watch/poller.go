package watch

import (
	"context"
	"log"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the outcome of the latest check.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateChanged
	StateError
)

// Status describes the watcher for the header bar.
type Status struct {
	State     State
	LastCheck time.Time
	Error     error
}

// ChangedMsg is sent once when the stored table stops matching the one
// in memory. It is sent again only after the two matched in between.
type ChangedMsg struct {
	At time.Time
}

// ErrorMsg is sent when the table could not be checked. Repeated
// failures are reported once.
type ErrorMsg struct {
	Err error
}

// Checker reports whether the stored table changed behind our back.
type Checker interface {
	TableChanged(ctx context.Context) (bool, error)
}

// checkTimeout is the maximum time allowed for a single check.
const checkTimeout = 10 * time.Second

// Poller checks the stored table in the background and delivers the
// results to the Bubble Tea runtime.
type Poller struct {
	checker   Checker
	interval  time.Duration
	now       func() time.Time
	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	status    Status
}

// New creates a Poller. A non-positive interval disables periodic
// checks; Trigger still works once started.
func New(c Checker, interval time.Duration) *Poller {
	return &Poller{
		checker:   c,
		interval:  interval,
		now:       time.Now,
		resultCh:  make(chan tea.Msg, 4),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a command waiting
// for the first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.WaitForNext()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// Trigger requests an immediate check without blocking.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Status returns the outcome of the latest check.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// WaitForNext returns a command that waits for the next result. The app
// calls it again after handling each ChangedMsg or ErrorMsg.
func (p *Poller) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.resultCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}

func (p *Poller) loop() {
	var tick <-chan time.Time
	if p.interval > 0 {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	p.check()

	for {
		select {
		case <-p.stopCh:
			return
		case <-tick:
			p.check()
		case <-p.triggerCh:
			p.check()
		}
	}
}

func (p *Poller) check() {
	p.mu.Lock()
	prev := p.status.State
	p.status.State = StateChecking
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	changed, err := p.checker.TableChanged(ctx)

	next := StateIdle
	switch {
	case err != nil:
		next = StateError
	case changed:
		next = StateChanged
	}

	at := p.now()
	p.mu.Lock()
	p.status = Status{State: next, LastCheck: at, Error: err}
	p.mu.Unlock()

	if next == prev {
		return
	}
	switch next {
	case StateChanged:
		log.Printf("watch: stored table changed externally")
		p.send(ChangedMsg{At: at})
	case StateError:
		log.Printf("watch: checking table: %v", err)
		p.send(ErrorMsg{Err: err})
	}
}

// send delivers msg without blocking the poller.
func (p *Poller) send(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
	}
}
