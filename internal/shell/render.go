package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"admin-dashboard/internal/resource"

	"github.com/olekukonko/tablewriter"
)

// heldNotifier prints notices to w. While held it queues them until
// release decides whether they are printed or dropped.
type heldNotifier struct {
	w io.Writer

	mu      sync.Mutex
	holding bool
	queued  []resource.Notice
}

func (n *heldNotifier) Notify(notice resource.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.holding {
		n.queued = append(n.queued, notice)
		return
	}
	n.print(notice)
}

func (n *heldNotifier) hold() {
	n.mu.Lock()
	n.holding = true
	n.mu.Unlock()
}

func (n *heldNotifier) release(flush bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if flush {
		for _, notice := range n.queued {
			n.print(notice)
		}
	}
	n.queued = nil
	n.holding = false
}

func (n *heldNotifier) print(notice resource.Notice) {
	fmt.Fprintf(n.w, "%s: %s\n", notice.Kind, notice.Message)
}

// onceConfirmer asks next on the first call and repeats that answer
type onceConfirmer struct {
	next     resource.Confirmer
	answered bool
	answer   bool
}

func (c *onceConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.answered {
		return c.answer, nil
	}

	answer, err := c.next.Confirm(ctx, prompt)
	if err != nil {
		return false, err
	}
	c.answered, c.answer = true, answer
	return answer, nil
}

// promptConfirmer asks on the terminal; anything but y or yes declines
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) promptConfirmer {
	return promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (c promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.AppendBulk(rows)
	table.Render()
}

// renderRecord prints one record as a two column field/value table
func renderRecord(w io.Writer, pairs [][2]string) {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	table.AppendBulk(rows)
	table.Render()
}
