package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SpinnerSink renders pipeline progress as one line per contract with a
// spinner while a transaction is pending.
type SpinnerSink struct {
	out       io.Writer
	spinner   *spinner.Spinner
	stepStart time.Time
}

// NewSpinnerSink creates a sink writing to stderr
func NewSpinnerSink() *SpinnerSink {
	return NewSpinnerSinkWithWriter(os.Stderr)
}

// NewSpinnerSinkWithWriter creates a sink writing to out
func NewSpinnerSinkWithWriter(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{out: out, spinner: s}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case "deploying":
		r.stepStart = time.Now()
		r.startSpinner(event.Message)
	case "confirmed":
		r.stopSpinner()
		elapsed := time.Since(r.stepStart).Round(time.Millisecond)
		if deployed, ok := event.Metadata.(*models.DeployedContract); ok {
			fmt.Fprintf(r.out, "%s %s %s %s\n",
				color.GreenString("✓"),
				color.New(color.Bold).Sprint(deployed.Name),
				deployed.Address.Hex(),
				color.New(color.Faint).Sprintf("(%s)", elapsed),
			)
			return
		}
		fmt.Fprintf(r.out, "%s %s\n", color.GreenString("✓"), event.Message)
	case "failed":
		r.stopSpinner()
		fmt.Fprintf(r.out, "%s %s\n", color.RedString("✗"), event.Message)
	case "completed":
		r.stopSpinner()
	default:
		if event.Spinner {
			r.startSpinner(event.Message)
		} else {
			r.stopSpinner()
		}
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.printAround(color.New(color.FgCyan), message)
}

// Warn prints a warning
func (r *SpinnerSink) Warn(message string) {
	r.printAround(color.New(color.FgYellow), "⚠ "+message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.printAround(color.New(color.FgRed), message)
}

func (r *SpinnerSink) startSpinner(message string) {
	r.spinner.Suffix = " " + message
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

func (r *SpinnerSink) stopSpinner() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// printAround pauses the spinner so the message is not overwritten
func (r *SpinnerSink) printAround(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
