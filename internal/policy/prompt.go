package policy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// ErrPromptCancelled is returned when the operator cancels a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Prompter asks the operator for input.
type Prompter interface {
	YesNo(question string) (bool, error)
	Value(question string) (string, error)
}

// ConsolePrompter asks questions on a terminal with small bubbletea
// programs, or reads answers line by line from a plain reader. With
// neither, YesNo answers no without asking.
type ConsolePrompter struct {
	tty *os.File
	in  *bufio.Reader
	out io.Writer
	eof bool
}

// NewConsolePrompter prompts on out. A terminal in gets interactive
// prompts; piped input is read line by line.
func NewConsolePrompter(in *os.File, out io.Writer) *ConsolePrompter {
	if term.IsTerminal(int(in.Fd())) {
		return &ConsolePrompter{tty: in, out: out}
	}
	return NewPrompter(in, out)
}

// NewPrompter reads answers line by line from in.
func NewPrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out}
}

func (p *ConsolePrompter) YesNo(question string) (bool, error) {
	if p.tty != nil {
		m, err := p.run(newYesNoModel(question))
		if err != nil {
			return false, err
		}
		yn := m.(yesNoModel)
		if yn.cancelled {
			return false, ErrPromptCancelled
		}
		return yn.answer, nil
	}
	if p.in == nil {
		return false, nil
	}
	for {
		fmt.Fprintf(p.out, "%s (y/n)? ", question)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if p.eof {
			return false, nil
		}
	}
}

func (p *ConsolePrompter) Value(question string) (string, error) {
	if p.tty != nil {
		m, err := p.run(newValueModel(question))
		if err != nil {
			return "", err
		}
		vm := m.(valueModel)
		if vm.cancelled {
			return "", ErrPromptCancelled
		}
		return vm.value(), nil
	}
	if p.in == nil {
		return "", nil
	}
	fmt.Fprintf(p.out, "%s ", question)
	return p.readLine()
}

func (p *ConsolePrompter) run(model tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(model, tea.WithInput(p.tty), tea.WithOutput(p.out))
	m, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return m, nil
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.eof = true
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// yesNoModel waits for a single y or n key press.
type yesNoModel struct {
	question  string
	answer    bool
	done      bool
	cancelled bool
}

func newYesNoModel(question string) yesNoModel {
	return yesNoModel{question: question}
}

func (m yesNoModel) Init() tea.Cmd { return nil }

func (m yesNoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		m.answer, m.done = true, true
		return m, tea.Quit
	case "n", "enter", "esc":
		m.done = true
		return m, tea.Quit
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m yesNoModel) View() tea.View {
	if m.done || m.cancelled {
		answer := "n"
		if m.answer {
			answer = "y"
		}
		if m.cancelled {
			answer = ""
		}
		return tea.NewView(fmt.Sprintf("%s (y/n)? %s\n", m.question, answer))
	}
	return tea.NewView(fmt.Sprintf("%s (y/n)? ", m.question))
}

// valueModel reads one line of free text.
type valueModel struct {
	question  string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newValueModel(question string) valueModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 1000
	ti.Focus()

	return valueModel{question: question, input: ti}
}

func (m valueModel) Init() tea.Cmd { return textinput.Blink }

func (m valueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m valueModel) View() tea.View {
	if m.done || m.cancelled {
		return tea.NewView(fmt.Sprintf("%s %s\n", m.question, m.input.Value()))
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.question, m.input.View()))
}

func (m valueModel) value() string {
	return strings.TrimSpace(m.input.Value())
}
