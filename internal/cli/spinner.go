package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle drawn on stderr.
var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner draws an animated progress line on stderr until Stop is called
// or the surrounding context ends, whichever happens first.
type Spinner struct {
	text    string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	exited  chan struct{}
	started bool
	mu      sync.Mutex
}

// newSpinner creates a spinner that runs until Stop.
func newSpinner(text string) *Spinner {
	return newSpinnerWithContext(context.Background(), text)
}

// newSpinnerWithContext creates a spinner that also halts when parent is
// cancelled, so Ctrl-C leaves no stray animation line behind.
func newSpinnerWithContext(parent context.Context, text string) *Spinner {
	ctx, cancel := context.WithCancel(parent)
	return &Spinner{
		text:   text,
		parent: parent,
		ctx:    ctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
}

// Start launches the animation goroutine. Calling it twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.run()
}

func (s *Spinner) run() {
	defer close(s.exited)
	defer s.erase()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.text))
			s.mu.Unlock()
		}
	}
}

// Stop halts the animation and erases the line. Safe to call repeatedly,
// and safe on a spinner that was never started.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.exited
	}
}

// StopWithSuccess halts the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError halts the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the surrounding context ended before Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.text)+4))
}
