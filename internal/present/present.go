// Package present delivers the final error message to the operator. The
// implementation is chosen once at startup and passed explicitly; nothing in
// the core consults the environment again.
package present

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"mes-report/internal/common/logger"
)

// Presenter shows a terminal failure to the user.
type Presenter interface {
	ShowError(title, message string)
}

// Console writes the message to a stream, normally stderr.
type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

// NewConsoleWriter is the test seam for capturing output.
func NewConsoleWriter(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) ShowError(_, message string) {
	fmt.Fprintf(c.out, "\n[ERROR] %s\n\n", message)
}

// Dialog shells out to a platform dialog tool, falling back to the console
// when the tool is unavailable or fails.
type Dialog struct {
	logger   logger.Logger
	fallback *Console
}

func NewDialog(log logger.Logger) *Dialog {
	return &Dialog{logger: log, fallback: NewConsole()}
}

func (d *Dialog) ShowError(title, message string) {
	if err := showDialog(title, message); err != nil {
		d.logger.Error("failed to show error dialog", map[string]interface{}{
			"error": err.Error(),
		})
		d.fallback.ShowError(title, message)
	}
}

func showDialog(title, message string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("msg", "*", "/time:0", fmt.Sprintf("%s: %s", title, message)).Run()
	case "darwin":
		script := fmt.Sprintf(`display dialog %q with title %q buttons {"OK"} with icon stop`, message, title)
		return exec.Command("osascript", "-e", script).Run()
	default:
		if _, err := exec.LookPath("zenity"); err != nil {
			return err
		}
		return exec.Command("zenity", "--error", "--title", title, "--text", message).Run()
	}
}

// Detect picks a dialog presenter when a graphical session is likely and the
// console otherwise. PXE/headless factory stations take the console path.
func Detect(log logger.Logger) Presenter {
	switch runtime.GOOS {
	case "windows", "darwin":
		return NewDialog(log)
	default:
		if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
			return NewDialog(log)
		}
		return NewConsole()
	}
}
