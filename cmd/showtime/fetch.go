package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// runFetch runs fetch and writes its output to w. On a terminal a spinner
// is shown while fetching; otherwise the output is written as plain text.
func runFetch(ctx context.Context, w io.Writer, label string, fetch func(context.Context) (string, error)) error {
	if !isTerminal(w) {
		output, err := fetch(ctx)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, output)
		return err
	}

	p := tea.NewProgram(newFetchModel(ctx, label, fetch), tea.WithOutput(w))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", label, err)
	}

	fm, ok := m.(fetchModel)
	if !ok {
		return fmt.Errorf("unexpected model type from tea program")
	}
	return fm.err
}

// fetchResultMsg carries the rendered result back to the TUI.
type fetchResultMsg struct {
	output string
	err    error
}

type fetchModel struct {
	ctx     context.Context
	label   string
	fetch   func(context.Context) (string, error)
	spinner spinner.Model
	output  string
	err     error
	done    bool
}

func newFetchModel(ctx context.Context, label string, fetch func(context.Context) (string, error)) fetchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return fetchModel{
		ctx:     ctx,
		label:   label,
		fetch:   fetch,
		spinner: s,
	}
}

func (m fetchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run())
}

func (m fetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case fetchResultMsg:
		m.output = msg.output
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m fetchModel) View() string {
	if m.done {
		if m.err != nil {
			return styleError.Render("Error: "+m.err.Error()) + "\n"
		}
		return m.output
	}
	return m.spinner.View() + styleDim.Render(" "+m.label) + "\n"
}

func (m fetchModel) run() tea.Cmd {
	return func() tea.Msg {
		output, err := m.fetch(m.ctx)
		return fetchResultMsg{output: output, err: err}
	}
}
