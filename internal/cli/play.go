package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// playMaxDisks keeps the drawing narrower than a typical terminal.
const playMaxDisks = 12

var (
	diskStyle      = lipgloss.NewStyle().Foreground(colorCyan)
	movedDiskStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	rodStyle       = lipgloss.NewStyle().Foreground(colorDim)
	pegLabelStyle  = lipgloss.NewStyle().Foreground(colorGray)
	loadStyle      = lipgloss.NewStyle().Foreground(colorWhite)
)

// =============================================================================
// PlayModel - step through a solve
// =============================================================================

// PlayModel is the bubbletea model for stepping through the board states of
// a solve.
type PlayModel struct {
	Disks  int
	States []*hanoi.Board
	Moves  []hanoi.Move
	Step   int
}

// NewPlayModel creates a model positioned at the starting board.
func NewPlayModel(result *pipeline.Result) PlayModel {
	return PlayModel{
		Disks:  result.Disks,
		States: result.Snapshots,
		Moves:  result.Moves,
	}
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := len(m.States) - 1
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", " ":
		if m.Step < last {
			m.Step++
		}
	case "left", "h":
		if m.Step > 0 {
			m.Step--
		}
	case "g", "home":
		m.Step = 0
	case "G", "end":
		m.Step = last
	}
	return m, nil
}

func (m PlayModel) View() string {
	if len(m.States) == 0 {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Towers of Hanoi · %d disks", m.Disks)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/h back  →/l forward  g/G first/last  q quit"))
	b.WriteString("\n\n")

	moved := 0
	if m.Step > 0 {
		moved = m.Moves[m.Step-1].Disk
	}
	board := m.States[m.Step]
	pegs := make([]string, hanoi.NumPegs)
	for i := range pegs {
		pegs[i] = m.drawPeg(board, i, moved)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, pegs...))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render(fmt.Sprintf("step %d/%d", m.Step, len(m.States)-1)))
	if m.Step > 0 {
		mv := m.Moves[m.Step-1]
		b.WriteString(StyleDim.Render(fmt.Sprintf("  ·  disk %d: peg %d %s peg %d", mv.Disk, mv.From, iconArrow, mv.To)))
	}
	b.WriteString("\n")

	return b.String()
}

// drawPeg renders one peg as a column m.Disks rows high, topped by a rod
// row and followed by the peg label and load.
func (m PlayModel) drawPeg(b *hanoi.Board, peg, moved int) string {
	width := 2*m.Disks + 3
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	disks := b.Peg(peg)
	rows := make([]string, 0, m.Disks+3)
	for r := 0; r <= m.Disks-len(disks); r++ {
		rows = append(rows, center.Render(rodStyle.Render("│")))
	}
	for _, d := range disks {
		style := diskStyle
		if d == moved {
			style = movedDiskStyle
		}
		rows = append(rows, center.Render(style.Render(strings.Repeat("█", 2*d+1))))
	}
	rows = append(rows,
		center.Render(pegLabelStyle.Render(fmt.Sprintf("peg %d", peg))),
		center.Render(loadStyle.Render(fmt.Sprintf("load %d", b.Load(peg)))),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// playCommand creates the interactive viewer command.
func (c *CLI) playCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play n",
		Short: "Step through a solve in the terminal",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			limit := min(c.Config.MaxDisks, playMaxDisks)
			n, err := diskArg(args, limit)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(n)
			opts.MaxDisks = limit
			opts.Snapshots = true
			opts.Logger = loggerFromContext(ctx)
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewPlayModel(result), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
