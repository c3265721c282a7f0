package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels the run context on SIGINT/SIGTERM and says
// goodbye nicely instead of dumping a stack trace.
type InterruptHandler struct {
	writer         io.Writer
	cancelFunc     context.CancelFunc
	interrupted    bool
	showLedgerHint bool
	mu             sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer: writer,
	}
}

// HandleInterrupts sets up signal handling and returns a context that will
// be canceled on interrupt. showLedgerHint adds the note that re-running
// an interrupted import is safe.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, showLedgerHint bool) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.cancelFunc = cancel
	h.showLedgerHint = showLedgerHint

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			h.trigger()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
		cancel()
	}()

	return ctx
}

// trigger marks the handler interrupted and shows the message once.
func (h *InterruptHandler) trigger() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.interrupted {
		return
	}
	h.interrupted = true
	h.showInterruptMessage()
}

// showInterruptMessage displays a friendly interrupt message.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning("Import interrupted!")

	if h.showLedgerHint {
		msg += "\n" + FormatInfo("Everything already written is recorded in the ledger; re-running is safe.")
	}

	msg += "\n" + FormatInfo("See you later! "+MoneyIcon) + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		// Best effort - we're shutting down anyway
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
