package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/baron-chain/bc-cargo-contract/contract"
	"github.com/baron-chain/bc-cargo-contract/metadata"
	"github.com/baron-chain/bc-cargo-contract/selector"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	tc       *contract.Transcoder
	title    string
	result   string
	entries  []entryInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

// entryInfo is one callable: a constructor or a message.
type entryInfo struct {
	label       string
	resultType  string
	params      []paramInfo
	sel         [selector.Size]byte
	constructor bool
}

type paramInfo struct {
	name    string
	typeStr string
}

type modelState int

const (
	stateSelectEntry modelState = iota
	stateInputArgs
	stateShowResult
)

type encodedMsg struct {
	err    error
	result string
}

func newInteractiveModel(meta *metadata.Metadata, tc *contract.Transcoder) *interactiveModel {
	reg := meta.Registry
	params := func(args []contract.Arg) []paramInfo {
		out := make([]paramInfo, len(args))
		for i, a := range args {
			out[i] = paramInfo{name: a.Label, typeStr: reg.TypeName(a.Type)}
		}
		return out
	}

	var entries []entryInfo
	for _, k := range meta.Catalog.Constructors() {
		entries = append(entries, entryInfo{
			label:       k.Label,
			params:      params(k.Args),
			sel:         k.Selector,
			constructor: true,
		})
	}
	for _, m := range meta.Catalog.Messages() {
		e := entryInfo{label: m.Label, params: params(m.Args), sel: m.Selector}
		if m.ReturnType != nil {
			e.resultType = reg.TypeName(*m.ReturnType)
		}
		entries = append(entries, e)
	}

	title := meta.Name
	if title == "" {
		title = "contract"
	}
	return &interactiveModel{
		tc:      tc,
		title:   title,
		entries: entries,
		state:   stateSelectEntry,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectEntry && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectEntry && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectEntry:
				if len(m.entries) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.encode
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.encode

			case stateShowResult:
				m.reset()
				return m, nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state != stateSelectEntry {
				m.reset()
				return m, nil
			}
		}

	case encodedMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectEntry
	m.inputs = nil
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	e := m.entries[m.selected]
	m.inputs = make([]textinput.Model, len(e.params))
	for i, p := range e.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// encode frames the selected entry with the typed literals.
func (m *interactiveModel) encode() tea.Msg {
	e := m.entries[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}

	encode := m.tc.EncodeCall
	if e.constructor {
		encode = m.tc.EncodeConstructor
	}
	data, err := encode(e.label, args)
	if err != nil {
		return encodedMsg{err: err}
	}
	return encodedMsg{result: hexutil.Encode(data)}
}

func (m *interactiveModel) View() string {
	if len(m.entries) == 0 {
		return "Contract has no constructors or messages.\n\nPress q to quit."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Contract Transcoder"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectEntry:
		b.WriteString("Select a constructor or message to encode:\n\n")
		for i, e := range m.entries {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatEntry(e)))
			} else {
				b.WriteString("  " + m.formatEntry(e))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter encode • q quit"))

	case stateInputArgs:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Encoding %s\n\n", funcStyle.Render(e.label)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(e.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter encode • esc back"))

	case stateShowResult:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Encoded %s:\n\n", funcStyle.Render(e.label)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(renderError(m.err, false)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatEntry(e entryInfo) string {
	var params []string
	for _, p := range e.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := ""
	if e.resultType != "" {
		result = " -> " + typeStyle.Render(e.resultType)
	}
	kind := ""
	if e.constructor {
		kind = "new "
	}
	return selector.String(e.sel) + " " + kind + funcStyle.Render(e.label) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(meta *metadata.Metadata, tc *contract.Transcoder) error {
	p := tea.NewProgram(newInteractiveModel(meta, tc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
