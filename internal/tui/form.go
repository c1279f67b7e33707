package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
)

// RequiredMessage is shown when a required attribute is left blank.
const RequiredMessage = "This field is required."

// Step represents the current form step.
type Step int

const (
	StepTargets Step = iota
	StepHandle
	StepLabel
	StepType
	StepDescription
	StepLoading
	StepMatching
	StepDone
	StepFileMissing
	StepFailed
)

// inputCount is the number of text inputs (targets path + four attributes).
const inputCount = 5

// LoadFn reads target fields from a path.
type LoadFn func(path string) ([]field.Field, error)

// MatchFn ranks targets against the query field.
type MatchFn func(ctx context.Context, query field.Field, targets []field.Field) ([]match.Result, error)

type targetsLoadedMsg struct {
	fields []field.Field
	err    error
}

type matchResultMsg struct {
	results []match.Result
	err     error
}

// cancelHolder shares a cancel function across bubbletea model copies.
type cancelHolder struct {
	cancel context.CancelFunc
}

// FormModel is the bubbletea model for the interactive match flow: target file,
// then the query field's attributes, then the ranked results.
type FormModel struct {
	step         Step
	inputs       [inputCount]textinput.Model
	spinner      spinner.Model
	defaultPath  string
	loadFn       LoadFn
	matchFn      MatchFn
	cancelCtx    *cancelHolder
	targets      []field.Field
	results      []match.Result
	err          error
	missingPath  string
	showRequired bool
	quitting     bool
}

// NewFormModel creates the form. defaultPath is used when the user leaves the path blank.
func NewFormModel(defaultPath string, load LoadFn, matchFn MatchFn) FormModel {
	prompts := [inputCount]string{defaultPath, "salesDescription", "Sales Description", "string", ""}

	var inputs [inputCount]textinput.Model
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = prompts[i]
		in.Width = 60
		inputs[i] = in
	}
	inputs[StepTargets].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return FormModel{
		step:        StepTargets,
		inputs:      inputs,
		spinner:     s,
		defaultPath: defaultPath,
		loadFn:      load,
		matchFn:     matchFn,
		cancelCtx:   &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}
		if m.step <= StepDescription {
			return m.updateInput(msg)
		}

	case targetsLoadedMsg:
		return m.handleTargets(msg)

	case matchResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err != nil {
			m.err = msg.err
			m.step = StepFailed
			return m, tea.Quit
		}
		m.results = msg.results
		m.step = StepDone
		return m, tea.Quit

	case spinner.TickMsg:
		if m.step == StepLoading || m.step == StepMatching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m FormModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		m.showRequired = false
		idx := int(m.step)
		var cmd tea.Cmd
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		return m, cmd
	}

	idx := int(m.step)
	value := strings.TrimSpace(m.inputs[idx].Value())

	switch m.step {
	case StepTargets:
		if value == "" {
			m.inputs[idx].SetValue(m.defaultPath)
		}
		m.inputs[idx].Blur()
		m.step = StepLoading
		return m, tea.Batch(m.loadTargets(), m.spinner.Tick)

	case StepHandle, StepLabel, StepType:
		if value == "" {
			m.showRequired = true
			return m, nil
		}
		m.showRequired = false
		m.inputs[idx].Blur()
		m.step++
		m.inputs[m.step].Focus()
		return m, textinput.Blink

	case StepDescription:
		m.inputs[idx].Blur()
		query, err := m.Query()
		if err != nil {
			m.err = err
			m.step = StepFailed
			return m, tea.Quit
		}
		m.step = StepMatching
		return m, tea.Batch(m.startMatch(query), m.spinner.Tick)
	}

	return m, nil
}

func (m FormModel) handleTargets(msg targetsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, fs.ErrNotExist) {
			m.missingPath = m.TargetsPath()
			m.step = StepFileMissing
			return m, tea.Quit
		}
		m.err = msg.err
		m.step = StepFailed
		return m, tea.Quit
	}
	m.targets = msg.fields
	m.step = StepHandle
	m.inputs[StepHandle].Focus()
	return m, textinput.Blink
}

func (m FormModel) loadTargets() tea.Cmd {
	path := m.TargetsPath()
	load := m.loadFn
	return func() tea.Msg {
		fields, err := load(path)
		return targetsLoadedMsg{fields: fields, err: err}
	}
}

func (m FormModel) startMatch(query field.Field) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	targets := m.targets
	fn := m.matchFn
	return func() tea.Msg {
		results, err := fn(ctx, query, targets)
		return matchResultMsg{results: results, err: err}
	}
}

// View implements tea.Model.
func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(Header())
	b.WriteString("\n")

	switch m.step {
	case StepTargets:
		fmt.Fprintf(&b, "Default target fields: %s\n", m.defaultPath)
		b.WriteString(stepStyle.Render("Target fields path"))
		b.WriteString(" ")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepTargets].View())
		b.WriteString("\n")

	case StepLoading:
		b.WriteString(m.spinner.View())
		fmt.Fprintf(&b, " Loading %s...\n", m.TargetsPath())

	case StepHandle, StepLabel, StepType, StepDescription:
		fmt.Fprintf(&b, "Loaded %d target fields.\n\n", len(m.targets))
		b.WriteString("Enter input field details:\n")
		m.writeAnswered(&b)
		b.WriteString(stepStyle.Render(stepPrompt(m.step)))
		b.WriteString("\n")
		b.WriteString(m.inputs[m.step].View())
		b.WriteString("\n")
		if m.showRequired {
			b.WriteString(errorStyle.Render("    " + RequiredMessage))
			b.WriteString("\n")
		}

	case StepMatching:
		m.writeAnswered(&b)
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Matching...\n")

	case StepDone:
		b.WriteString(RenderResults(m.results))

	case StepFileMissing:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: File not found: %s", m.missingPath)))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.err != nil {
			errMsg = m.err.Error()
		}
		b.WriteString(errorStyle.Render("Error: " + errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

func (m FormModel) writeAnswered(b *strings.Builder) {
	labels := [inputCount]string{"", "Handle", "Label", "Type", "Description"}
	for s := StepHandle; s < m.step && s <= StepDescription; s++ {
		fmt.Fprintf(b, "  %s: %s\n", labels[s], m.inputs[s].Value())
	}
}

func stepPrompt(s Step) string {
	switch s {
	case StepHandle:
		return "Handle"
	case StepLabel:
		return "Label"
	case StepType:
		return "Type (string/int/number/date/boolean)"
	case StepDescription:
		return "Description (optional, press Enter to skip)"
	default:
		return ""
	}
}

// TargetsPath returns the chosen target-field path, falling back to the default.
func (m FormModel) TargetsPath() string {
	if p := strings.TrimSpace(m.inputs[StepTargets].Value()); p != "" {
		return p
	}
	return m.defaultPath
}

// Query builds the query field from the entered attributes.
func (m FormModel) Query() (field.Field, error) {
	return field.New( //nolint:wrapcheck // ValidationError is shown as-is
		m.inputs[StepHandle].Value(),
		m.inputs[StepLabel].Value(),
		m.inputs[StepType].Value(),
		m.inputs[StepDescription].Value(),
	)
}

// Step returns the current step.
func (m FormModel) Step() Step { return m.step }

// Results returns the ranked matches once the form reached StepDone.
func (m FormModel) Results() []match.Result { return m.results }

// Err returns the error that ended the form, if any.
func (m FormModel) Err() error { return m.err }

// MissingPath returns the target path that did not exist, or "".
func (m FormModel) MissingPath() string { return m.missingPath }

// Cancelled reports whether the user quit with Ctrl+C or Escape.
func (m FormModel) Cancelled() bool { return m.quitting }
