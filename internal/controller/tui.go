package controller

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	m "mutest.dev/pkg/mutest/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. Display calls
// are forwarded to the running program as messages.
type TUI struct {
	output io.Writer

	mu        sync.Mutex
	program   *tea.Program
	started   bool
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options...)

	return t.startWithModel(newTUIModel(cfg.mode))
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	opts := []tea.ProgramOption{tea.WithOutput(t.output)}
	if IsTTY(t.output) {
		opts = append(opts, tea.WithAltScreen(), tea.WithMouseCellMotion())
	} else {
		opts = append(opts, tea.WithInput(nil))
	}

	t.program = tea.NewProgram(model, opts...)
	t.done = make(chan struct{})
	t.started = true

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			t.mu.Lock()
			t.err = err
			t.mu.Unlock()
		}
	}()

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(msg)
}

// Wait blocks until the user closes the program or ctx ends.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close stops the program and waits for it to restore the terminal.
func (t *TUI) Close(ctx context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	t.closeOnce.Do(program.Quit)
	<-done

	if err := t.runErr(); err != nil && ctx.Err() == nil {
		_, _ = io.WriteString(t.output, "tui error: "+err.Error()+"\n")
	}
}

func (t *TUI) runErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// DisplayEstimation shows sites per file in a scrollable list.
func (t *TUI) DisplayEstimation(ctx context.Context, sites []m.Site, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		t.send(estimationMsg{err: err})
		return err
	}

	t.send(estimationMsg{
		files:      buildFileStats(sites),
		categories: buildCategoryStats(sites),
		total:      len(sites),
	})

	return nil
}

// DisplayConcurrencyInfo shows concurrency settings.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, threads int, shardIndex int, shardCount int) {
	if ctx.Err() != nil {
		return
	}

	t.send(concurrencyMsg{threads: threads, shardIndex: shardIndex, shards: shardCount})
}

// DisplayUpcomingTestsInfo sets the progress total.
func (t *TUI) DisplayUpcomingTestsInfo(ctx context.Context, n int) {
	if ctx.Err() != nil {
		return
	}

	t.send(upcomingMsg{count: n})
}

// DisplayStartingTestInfo marks a worker busy with site.
func (t *TUI) DisplayStartingTestInfo(ctx context.Context, site m.Site, workerID int) {
	if ctx.Err() != nil {
		return
	}

	t.send(startMutantMsg{worker: workerID, id: site.ID, mutator: site.Mutator, path: sitePath(site), line: site.Line})
}

// DisplayCompletedTestInfo advances the progress bar.
func (t *TUI) DisplayCompletedTestInfo(ctx context.Context, result m.Result) {
	if ctx.Err() != nil {
		return
	}

	t.send(completedMutantMsg{result: result})
}

// DisplayReport switches the program to the results view.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(reportMsg{report: report})

	return nil
}
