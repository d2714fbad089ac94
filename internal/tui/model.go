// Package tui is the rendering layer. It holds no task state of its own:
// it reads the orchestrator's view state and turns key presses into
// orchestrator calls.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/internal/tui/styles"
	"github.com/taskdeck/taskdeck/orchestrator"
)

// refreshInterval is how often the view re-reads the orchestrator, so
// subscription-driven snapshot changes repaint without user input.
const refreshInterval = 100 * time.Millisecond

type mode int

const (
	modeList mode = iota
	modeForm
)

type (
	refreshMsg struct{}
	opDoneMsg  struct{}
)

// Model is the bubbletea model for the task list and edit form.
type Model struct {
	orch *orchestrator.Orchestrator

	mode       mode
	cursor     int
	titleInput textinput.Model
	descInput  textinput.Model
	focusIndex int

	width    int
	height   int
	quitting bool
}

// New creates the TUI model over an orchestrator that has been started.
func New(orch *orchestrator.Orchestrator) Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120
	title.Width = 40
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 240
	desc.Width = 40

	return Model{
		orch:       orch,
		titleInput: title,
		descInput:  desc,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, refreshTick())
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		return m, refreshTick()

	case opDoneMsg:
		// Leave the form once a submit went through cleanly.
		if m.mode == modeForm {
			st := m.orch.State()
			if st.Error == "" && !st.Submitting && st.Editing == nil {
				m = m.leaveForm()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.orch.State()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(st.Tasks)-1 {
			m.cursor++
		}

	case "n":
		m.orch.CancelEdit()
		m = m.enterForm("", "")
		return m, textinput.Blink

	case "e":
		if task, ok := m.selected(st); ok {
			m.orch.BeginEdit(task)
			m = m.enterForm(task.Title, task.Description)
			return m, textinput.Blink
		}

	case " ", "t":
		if task, ok := m.selected(st); ok {
			id := task.ID
			return m, func() tea.Msg {
				m.orch.Toggle(context.Background(), id)
				return opDoneMsg{}
			}
		}

	case "d":
		if task, ok := m.selected(st); ok {
			id := task.ID
			if m.cursor > 0 {
				m.cursor--
			}
			return m, func() tea.Msg {
				m.orch.Delete(context.Background(), id)
				return opDoneMsg{}
			}
		}

	case "x":
		m.orch.DismissError()
	}

	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.orch.CancelEdit()
		return m.leaveForm(), nil

	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		if m.focusIndex == 0 {
			m.titleInput.Focus()
			m.descInput.Blur()
		} else {
			m.titleInput.Blur()
			m.descInput.Focus()
		}
		return m, textinput.Blink

	case "enter":
		title := m.titleInput.Value()
		description := m.descInput.Value()
		return m, func() tea.Msg {
			m.orch.Submit(context.Background(), title, description)
			return opDoneMsg{}
		}
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.orch.State()

	var b strings.Builder
	b.WriteString(styles.Header.Render("taskdeck"))
	b.WriteString("\n\n")

	if st.Loading {
		b.WriteString(styles.Muted.Render("Loading tasks..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.mode == modeForm {
		b.WriteString(m.renderForm(st))
	} else {
		b.WriteString(m.renderList(st))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus(st))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderList(st orchestrator.State) string {
	if len(st.Tasks) == 0 {
		return styles.Muted.Render("No tasks yet. Press n to add one.") + "\n"
	}

	cursor := m.clampedCursor(st)

	var b strings.Builder
	for i, task := range st.Tasks {
		marker := "[ ]"
		titleStyle := styles.Text
		if task.Completed {
			marker = "[x]"
			titleStyle = styles.Done
		}

		line := fmt.Sprintf("%s %s", marker, titleStyle.Render(task.Title))
		if task.Description != "" {
			line += "  " + styles.Muted.Render(task.Description)
		}
		if st.Editing != nil && st.Editing.ID == task.ID {
			line += "  " + styles.Accent.Render("(editing)")
		}

		if i == cursor {
			b.WriteString(styles.Accent.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm(st orchestrator.State) string {
	heading := "New task"
	if st.Editing != nil {
		heading = fmt.Sprintf("Edit %q", st.Editing.Title)
	}

	content := styles.Primary.Bold(true).Render(heading) + "\n\n" +
		m.titleInput.View() + "\n" +
		m.descInput.View()
	return styles.FormBorder.Render(content) + "\n"
}

func (m Model) renderStatus(st orchestrator.State) string {
	switch {
	case st.Submitting:
		return styles.Muted.Render("Saving...")
	case st.Error != "":
		return styles.ErrorMsg.Render("Error: " + st.Error)
	case st.Success != "":
		return styles.SuccessMsg.Render(st.Success)
	}
	return ""
}

func (m Model) renderHelp() string {
	if m.mode == modeForm {
		return styles.HelpBar.Render(
			styles.HelpKey.Render("tab") + " switch field  " +
				styles.HelpKey.Render("enter") + " save  " +
				styles.HelpKey.Render("esc") + " cancel",
		)
	}
	return styles.HelpBar.Render(
		styles.HelpKey.Render("j/k") + " navigate  " +
			styles.HelpKey.Render("n") + " new  " +
			styles.HelpKey.Render("e") + " edit  " +
			styles.HelpKey.Render("space") + " toggle  " +
			styles.HelpKey.Render("d") + " delete  " +
			styles.HelpKey.Render("x") + " dismiss error  " +
			styles.HelpKey.Render("q") + " quit",
	)
}

func (m Model) enterForm(title, description string) Model {
	m.mode = modeForm
	m.focusIndex = 0
	m.titleInput.SetValue(title)
	m.descInput.SetValue(description)
	m.titleInput.Focus()
	m.descInput.Blur()
	return m
}

func (m Model) leaveForm() Model {
	m.mode = modeList
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	return m
}

// selected returns the task under the cursor, if any.
func (m Model) selected(st orchestrator.State) (domain.Task, bool) {
	if len(st.Tasks) == 0 {
		return domain.Task{}, false
	}
	return st.Tasks[m.clampedCursor(st)], true
}

func (m Model) clampedCursor(st orchestrator.State) int {
	if m.cursor >= len(st.Tasks) {
		return len(st.Tasks) - 1
	}
	if m.cursor < 0 {
		return 0
	}
	return m.cursor
}
