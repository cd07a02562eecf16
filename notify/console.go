package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Console writes one colored line per notification, similar to a snackbar
// in a graphical client.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[Level]*color.Color
}

// NewConsole returns a sink writing to out. Colors are disabled
// automatically when out is not a terminal, see color.NoColor.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out: out,
		colors: map[Level]*color.Color{
			Info:    color.New(color.FgCyan),
			Success: color.New(color.FgGreen, color.Bold),
			Warning: color.New(color.FgYellow),
			Error:   color.New(color.FgRed, color.Bold),
		},
	}
}

// Notify writes the message.
func (c *Console) Notify(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := fmt.Sprintf("[%s]", level)
	if clr, ok := c.colors[level]; ok {
		prefix = clr.Sprint(prefix)
	}
	fmt.Fprintf(c.out, "%s %s\n", prefix, msg)
}
