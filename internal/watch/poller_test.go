package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type answer struct {
	changed bool
	err     error
}

// scriptedChecker hands out one answer per check, blocking until the
// test provides it.
type scriptedChecker struct {
	answers chan answer
}

func (c scriptedChecker) TableChanged(ctx context.Context) (bool, error) {
	select {
	case a := <-c.answers:
		return a.changed, a.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func newScripted(t *testing.T) (*Poller, chan answer) {
	t.Helper()
	answers := make(chan answer)
	p := New(scriptedChecker{answers: answers}, 0)
	t.Cleanup(p.Stop)
	return p, answers
}

func receive(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	select {
	case msg := <-got:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watcher message")
		return nil
	}
}

func TestChangeReportedOncePerTransition(t *testing.T) {
	p, answers := newScripted(t)

	first := p.Start()
	answers <- answer{changed: true}
	if _, ok := receive(t, first).(ChangedMsg); !ok {
		t.Fatal("expected ChangedMsg on first check")
	}
	if p.Start() != nil {
		t.Fatal("second Start must be a no-op")
	}

	p.Trigger()
	answers <- answer{changed: true}
	p.Trigger()
	answers <- answer{changed: false}
	p.Trigger()
	answers <- answer{changed: true}

	if _, ok := receive(t, p.WaitForNext()).(ChangedMsg); !ok {
		t.Fatal("expected ChangedMsg after the table matched again")
	}
	if st := p.Status(); st.State != StateChanged {
		t.Fatalf("state = %v, want changed", st.State)
	}
}

func TestErrorReported(t *testing.T) {
	p, answers := newScripted(t)
	boom := errors.New("disk gone")

	cmd := p.Start()
	answers <- answer{err: boom}

	msg, ok := receive(t, cmd).(ErrorMsg)
	if !ok || !errors.Is(msg.Err, boom) {
		t.Fatalf("got %#v, want ErrorMsg", msg)
	}
	if st := p.Status(); st.State != StateError || st.Error == nil {
		t.Fatalf("status = %+v", st)
	}
}

func TestStopReleasesWaiters(t *testing.T) {
	p, answers := newScripted(t)

	p.Start()
	answers <- answer{}
	wait := p.WaitForNext()
	p.Stop()

	if msg := receive(t, wait); msg != nil {
		t.Fatalf("after Stop got %#v, want nil", msg)
	}
}
