package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/quark/quark"
	"github.com/spf13/cobra"
)

type replKeys struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Complete key.Binding
	Vars     key.Binding
	Help     key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func (k replKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Vars, k.Clear, k.Quit}
}

func (k replKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Submit, k.Complete},
		{k.Help, k.Vars, k.Clear, k.Quit},
	}
}

var defaultReplKeys = replKeys{
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
}

// commandHistory is the list of submitted inputs with a browsing cursor.
// cursor == len(entries) means the user is editing a fresh line.
type commandHistory struct {
	entries []string
	cursor  int
}

func (h *commandHistory) push(input string) {
	h.entries = append(h.entries, input)
	h.cursor = len(h.entries)
}

func (h *commandHistory) prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	h.cursor = max(h.cursor-1, 0)
	return h.entries[h.cursor], true
}

func (h *commandHistory) next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", true
	}
	return h.entries[h.cursor], true
}

type transcriptLine struct {
	input  string
	output string
	isErr  bool
}

// replModel keeps one symbol table and one interpreter for the whole
// session, so declarations made at one prompt are visible at the next.
type replModel struct {
	input      textinput.Model
	help       help.Model
	opts       quark.InterpreterOptions
	symbols    *quark.SymbolTable
	interp     *quark.Interpreter
	transcript []transcriptLine
	history    commandHistory
	width      int
	height     int
	showVars   bool
	quitting   bool
	ready      bool
}

func newREPLCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model := newREPLModel(quark.InterpreterOptions{
				StepQuota: a.config.Run.StepQuota,
				Logger:    a.logger,
			})
			_, err := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

func newREPLModel(opts quark.InterpreterOptions) replModel {
	in := textinput.New()
	in.Prompt = "quark> "
	in.PromptStyle = promptStyle
	in.Placeholder = "number x = 1"
	in.CharLimit = 500
	in.Width = 60
	in.Focus()

	return replModel{
		input:   in,
		help:    help.New(),
		opts:    opts,
		symbols: quark.NewSymbolTable(),
		interp:  quark.NewInterpreter(opts),
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 10
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultReplKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, defaultReplKeys.Clear):
			m.transcript = nil
			return m, nil
		case key.Matches(msg, defaultReplKeys.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, defaultReplKeys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, defaultReplKeys.Prev):
			if entry, ok := m.history.prev(); ok {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, defaultReplKeys.Next):
			if entry, ok := m.history.next(); ok {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, defaultReplKeys.Complete):
			return m.complete(), nil
		case key.Matches(msg, defaultReplKeys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return m, nil
	}
	if strings.HasPrefix(line, ":") {
		return m.handleCommand(line)
	}

	m.history.push(line)
	output, isErr, exited := m.evaluate(line)
	m.transcript = append(m.transcript, transcriptLine{input: line, output: output, isErr: isErr})
	if exited {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m replModel) handleCommand(line string) (replModel, tea.Cmd) {
	name, rest, _ := strings.Cut(line, " ")
	switch name {
	case ":help", ":h":
		m.help.ShowAll = !m.help.ShowAll
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":clear", ":c":
		m.transcript = nil
	case ":reset", ":r":
		m.symbols = quark.NewSymbolTable()
		m.interp = quark.NewInterpreter(m.opts)
		m.note(line, "environment reset", false)
	case ":ast":
		output, isErr := m.describeAST(strings.TrimSpace(rest))
		m.note(line, output, isErr)
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.note(line, "unknown command "+name, true)
	}
	return m, nil
}

func (m *replModel) note(input, output string, isErr bool) {
	m.transcript = append(m.transcript, transcriptLine{input: input, output: output, isErr: isErr})
}

// complete extends the last word of the input from the keywords and the
// declared variables. Several candidates are listed instead.
func (m replModel) complete() replModel {
	value := m.input.Value()
	words := strings.Fields(value)
	if len(words) == 0 {
		return m
	}
	last := words[len(words)-1]

	var matches []string
	for _, candidate := range append(quark.Keywords(), m.symbols.Names()...) {
		if strings.HasPrefix(candidate, last) {
			matches = append(matches, candidate)
		}
	}
	slices.Sort(matches)

	switch len(matches) {
	case 0:
	case 1:
		m.input.SetValue(strings.TrimSuffix(value, last) + matches[0])
		m.input.CursorEnd()
	default:
		m.note("", "candidates: "+strings.Join(matches, ", "), false)
	}
	return m
}

// withTerminator lets a prompt omit the final ';'.
func withTerminator(input string) string {
	if strings.HasSuffix(input, ";") || strings.HasSuffix(input, "}") {
		return input
	}
	return input + ";"
}

// evaluate parses input against a copy of the session symbol table, so a
// prompt with errors declares nothing, then runs it on the session
// interpreter. A prompt that fails at runtime keeps only the declarations
// that were bound before the failure.
func (m *replModel) evaluate(input string) (output string, isErr bool, exited bool) {
	tokens, err := quark.Tokenize(withTerminator(input))
	if err != nil {
		return firstLine(err), true, false
	}

	symbols := m.symbols.Clone()
	program, errs := quark.Parse(tokens, quark.WithSymbols(symbols))
	if len(errs) > 0 {
		return firstLine(quark.ErrorList(errs)), true, false
	}

	result, err := m.interp.Run(context.Background(), program)
	if err != nil {
		m.commitBound(symbols)
		return err.Error(), true, false
	}
	m.symbols = symbols

	switch {
	case result.Exited:
		return fmt.Sprintf("exit %d", result.ExitCode), false, true
	case !result.Last.IsZero():
		return formatValue(result.Last), false, false
	}

	if name, ok := boundName(program); ok {
		return fmt.Sprintf("%s = %s", name, formatValue(m.interp.Vars()[name])), false, false
	}
	return "ok", false, false
}

// commitBound copies into the session table the names from parsed that the
// interpreter holds a value for.
func (m *replModel) commitBound(parsed *quark.SymbolTable) {
	vars := m.interp.Vars()
	for _, name := range parsed.Names() {
		if m.symbols.Has(name) {
			continue
		}
		if _, ok := vars[name]; !ok {
			continue
		}
		sym, _ := parsed.Get(name)
		_ = m.symbols.Add(name, sym.Type)
	}
}

// boundName reports the variable written by the last statement, if any.
func boundName(program *quark.Program) (string, bool) {
	stmts := program.Statements()
	if len(stmts) == 0 {
		return "", false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *quark.VariableDeclaration:
		return last.Name, true
	case *quark.VariableReassignment:
		return last.Name, true
	}
	return "", false
}

func (m replModel) describeAST(input string) (string, bool) {
	if input == "" {
		return "usage: :ast <statement>", true
	}
	tokens, err := quark.Tokenize(withTerminator(input))
	if err != nil {
		return firstLine(err), true
	}
	program, errs := quark.Parse(tokens, quark.WithSymbols(m.symbols.Clone()))
	if len(errs) > 0 {
		return firstLine(quark.ErrorList(errs)), true
	}
	return quark.Sexp(program), false
}

func firstLine(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}

func formatValue(v quark.Value) string {
	if v.Type() == quark.TypeText {
		return fmt.Sprintf("%q", v.Text())
	}
	return v.String()
}

func (m replModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return mutedStyle.Render("bye") + "\n"
	}

	var panels []string
	if m.showVars {
		panels = append(panels, renderVarsPanel(m.symbols, m.interp.Vars()))
	}
	footer := m.help.View(defaultReplKeys)

	// Room left for the transcript once the title, prompt, footer and any
	// panel are drawn.
	room := m.height - 4 - lipgloss.Height(footer)
	for _, p := range panels {
		room -= lipgloss.Height(p)
	}

	var lines []string
	for _, entry := range m.transcript {
		if entry.input != "" {
			lines = append(lines, mutedStyle.Render("  › ")+entry.input)
		}
		if entry.isErr {
			lines = append(lines, "  "+errorStyle.Render("✗ "+entry.output))
		} else {
			lines = append(lines, "  "+resultStyle.Render("→ "+entry.output))
		}
	}
	if len(lines) > room {
		lines = lines[len(lines)-max(room, 0):]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quark REPL") + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(0, min(m.width-2, 60)))) + "\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	for _, p := range panels {
		b.WriteString(p + "\n")
	}
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(footer)
	return b.String()
}

func renderVarsPanel(symbols *quark.SymbolTable, values map[string]quark.Value) string {
	if symbols.Len() == 0 {
		return panelStyle.Render(mutedStyle.Render("no variables"))
	}
	rows := []string{titleStyle.UnsetPadding().Render("Variables")}
	for _, name := range symbols.Names() {
		sym, _ := symbols.Get(name)
		rows = append(rows, fmt.Sprintf("%s %s = %s", mutedStyle.Render(sym.Type.String()), nameStyle.Render(name), formatValue(values[name])))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}
