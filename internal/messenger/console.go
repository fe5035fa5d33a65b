package messenger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/tracker-agent/internal/dialog"
	"github.com/rcliao/tracker-agent/internal/logger"
	"github.com/rcliao/tracker-agent/internal/menu"
)

// Console is a line-oriented terminal transport. Buttons are shown numbered
// and typing a number presses the matching button.
type Console struct {
	in   io.Reader
	out  io.Writer
	user dialog.User

	mu      sync.Mutex
	buttons []menu.Button // buttons of the most recent message that had any

	textStyle   lipgloss.Style
	buttonStyle lipgloss.Style
	numberStyle lipgloss.Style
	promptStyle lipgloss.Style
}

// NewConsole returns a console transport for user, reading from in and
// writing to out.
func NewConsole(in io.Reader, out io.Writer, user dialog.User) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		in:          in,
		out:         out,
		user:        user,
		textStyle:   r.NewStyle().Foreground(lipgloss.Color("12")),
		buttonStyle: r.NewStyle().Foreground(lipgloss.Color("10")),
		numberStyle: r.NewStyle().Bold(true),
		promptStyle: r.NewStyle().Faint(true),
	}
}

// Run reads lines until EOF, "/quit" or ctx is done.
func (c *Console) Run(ctx context.Context, h Handler) error {
	sc := bufio.NewScanner(c.in)
	c.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if line != "" {
			if err := h.Handle(ctx, c.update(line)); err != nil {
				logger.Error("handle input", "user", c.user.ID, "error", err)
			}
		}
		c.prompt()
	}
	return sc.Err()
}

// update turns a line into an event. A number matching a shown button also
// carries that button's token; the agent decides which of the two it means,
// since the buttons may outlive the prompt that showed them.
func (c *Console) update(line string) dialog.Update {
	u := dialog.Update{User: c.user, Text: line}
	if n, err := strconv.Atoi(line); err == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if n >= 1 && n <= len(c.buttons) {
			u.Data = c.buttons[n-1].Token.Encode()
		}
	}
	return u
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, c.promptStyle.Render("> "))
}

func (c *Console) Send(_ context.Context, _ int64, text string) error {
	return c.render(text, nil)
}

func (c *Console) SendChoices(_ context.Context, _ int64, text string, grid menu.Grid) error {
	c.setButtons(grid.Buttons())
	return c.render(text, grid)
}

// Edit reprints the message. A nil grid withdraws the shown buttons.
func (c *Console) Edit(_ context.Context, _ int64, text string, grid menu.Grid) error {
	c.setButtons(grid.Buttons())
	return c.render(text, grid)
}

func (c *Console) setButtons(b []menu.Button) {
	c.mu.Lock()
	c.buttons = b
	c.mu.Unlock()
}

func (c *Console) render(text string, grid menu.Grid) error {
	var b strings.Builder
	b.WriteString(c.textStyle.Render(text))
	b.WriteString("\n")
	n := 1
	for _, row := range grid {
		cells := make([]string, 0, len(row))
		for _, btn := range row {
			cells = append(cells, c.numberStyle.Render(fmt.Sprintf("[%d]", n))+" "+c.buttonStyle.Render(btn.Label))
			n++
		}
		b.WriteString("  " + strings.Join(cells, "   ") + "\n")
	}
	_, err := io.WriteString(c.out, b.String())
	return err
}

var _ dialog.Messenger = (*Console)(nil)
