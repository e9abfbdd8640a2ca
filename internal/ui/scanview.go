package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ra2audit/internal/scan"
)

// Messages for the scan's async events
type scanProgressMsg struct {
	scanned int
	total   int
}
type scanHostMsg struct {
	host scan.Host
}
type scanDoneMsg struct {
	hosts []scan.Host
	err   error
}

// ScanModel is the interactive view for a subnet scan: a spinner, a
// progress bar fed by real probe counts, and a live list of responding
// hosts. It quits on completion or when the user cancels.
type ScanModel struct {
	scanner *scan.Scanner

	spinner spinner.Model
	bar     progress.Model

	scanned int
	total   int
	hosts   []scan.Host
	done    bool
	err     error

	width     int
	startTime time.Time
	events    chan tea.Msg
	cancel    context.CancelFunc
	cancelled bool
}

// NewScanModel builds the scan view and wires the scanner's callbacks
// into the Bubble Tea message loop.
func NewScanModel(scanner *scan.Scanner) *ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	events := make(chan tea.Msg, 64)
	scanner.OnProgress = func(scanned, total int) {
		select {
		case events <- scanProgressMsg{scanned: scanned, total: total}:
		default:
		}
	}
	scanner.OnHost = func(host scan.Host) {
		select {
		case events <- scanHostMsg{host: host}:
		default:
		}
	}

	return &ScanModel{
		scanner:   scanner,
		spinner:   s,
		bar:       bar,
		width:     GetTerminalWidth(),
		startTime: time.Now(),
		events:    events,
	}
}

// Hosts returns the scan results after the view has quit.
func (m *ScanModel) Hosts() []scan.Host { return m.hosts }

// Err returns the scan error, if any.
func (m *ScanModel) Err() error { return m.err }

// Cancelled reports whether the user aborted the scan.
func (m *ScanModel) Cancelled() bool { return m.cancelled }

// Init implements tea.Model
func (m *ScanModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	runScan := func() tea.Msg {
		hosts, err := m.scanner.ScanSubnet(ctx)
		return scanDoneMsg{hosts: hosts, err: err}
	}

	return tea.Batch(m.spinner.Tick, runScan, m.nextEvent())
}

// nextEvent forwards the next scanner callback into the message loop.
func (m *ScanModel) nextEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update implements tea.Model
func (m *ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 20
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 50 {
			barWidth = 50
		}
		m.bar.Width = barWidth

	case scanProgressMsg:
		m.scanned = msg.scanned
		m.total = msg.total
		return m, m.nextEvent()

	case scanHostMsg:
		m.hosts = append(m.hosts, msg.host)
		return m, m.nextEvent()

	case scanDoneMsg:
		m.done = true
		m.err = msg.err
		if msg.hosts != nil {
			m.hosts = msg.hosts
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m *ScanModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("%s SCANNING FOR CONTROLLER", m.spinner.View())
	b.WriteString("\n")
	b.WriteString(HeaderTitleStyle.Render(title))
	b.WriteString("\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.scanned) / float64(m.total)
	}
	counts := fmt.Sprintf("%d/%d", m.scanned, m.total)
	elapsed := fmt.Sprintf("%ds", int(time.Since(m.startTime).Seconds()))
	b.WriteString(ProgressBarStyle().Render(
		fmt.Sprintf("%s  %s  elapsed %s", m.bar.ViewAs(percent), counts, elapsed)))
	b.WriteString("\n\n")

	if len(m.hosts) > 0 {
		b.WriteString(HeaderParamKeyStyle.Render("Responding hosts:"))
		b.WriteString("\n")
		for _, host := range m.hosts {
			line := fmt.Sprintf("  %s:%d", host.IPAddress, host.Port)
			if host.ControllerLike {
				b.WriteString(StepCompleteStyle.Render(line + "  ← controller"))
			} else {
				b.WriteString(StepPendingStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(StepNoteStyle.Render("  press q to cancel"))
	b.WriteString("\n")
	return b.String()
}

// RunScanView runs the interactive scan and returns the discovered
// hosts. The caller gets the same result as scan.Scanner.ScanSubnet,
// rendered live.
func RunScanView(scanner *scan.Scanner) ([]scan.Host, error) {
	model := NewScanModel(scanner)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(*ScanModel)
	if m.Cancelled() {
		return nil, context.Canceled
	}
	return m.Hosts(), m.Err()
}
