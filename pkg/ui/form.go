package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/treelab/arbor/internal/store"
	"github.com/treelab/arbor/pkg/model"
)

// FormFieldType defines the type of form field
type FormFieldType int

const (
	FormFieldText FormFieldType = iota
	FormFieldTextArea
	FormFieldSelect
)

// FormField represents a single editable field
type FormField struct {
	Label    string
	Type     FormFieldType
	Input    textinput.Model
	TextArea textarea.Model
	Options  []string
	Selected int
	Original string
}

// PersonForm provides field-by-field person editing in a centered modal.
type PersonForm struct {
	fields          []FormField
	focusedField    int
	width           int
	height          int
	theme           Theme
	personID        string // empty for create mode
	isCreateMode    bool
	dirty           bool
	saveRequested   bool
	cancelRequested bool
}

// field order inside PersonForm.fields.
const (
	fieldName = iota
	fieldGender
	fieldBirth
	fieldDeath
	fieldPhoto
	fieldNotes
)

// NewEditPersonForm creates a form pre-populated from an existing person.
func NewEditPersonForm(p *model.Person, theme Theme) PersonForm {
	fields := []FormField{
		makeFormText("Name", p.Name),
		makeFormSelect("Gender", string(p.Gender), genderOptions()),
		makeFormText("Born", p.DateOfBirth),
		makeFormText("Died", p.DateOfDeath),
		makeFormText("Photo", p.PhotoRef),
		makeFormTextArea("Notes", p.Notes),
	}
	fields[fieldName].Input.Focus()

	return PersonForm{
		fields:   fields,
		theme:    theme,
		personID: p.ID,
	}
}

// NewCreatePersonForm creates a form with defaults for a new person.
func NewCreatePersonForm(theme Theme) PersonForm {
	fields := []FormField{
		makeFormText("Name", ""),
		makeFormSelect("Gender", string(model.GenderUnknown), genderOptions()),
		makeFormText("Born", ""),
		makeFormText("Died", ""),
		makeFormText("Photo", ""),
		makeFormTextArea("Notes", ""),
	}
	fields[fieldName].Input.Focus()

	return PersonForm{
		fields:       fields,
		theme:        theme,
		isCreateMode: true,
	}
}

func makeFormText(label, value string) FormField {
	ti := textinput.New()
	ti.SetValue(value)
	ti.CharLimit = 200
	ti.Width = 40

	return FormField{
		Label:    label,
		Type:     FormFieldText,
		Input:    ti,
		Original: value,
	}
}

func makeFormTextArea(label, value string) FormField {
	ta := textarea.New()
	ta.SetValue(value)
	ta.SetWidth(40)
	ta.SetHeight(3)
	ta.CharLimit = 5000

	return FormField{
		Label:    label,
		Type:     FormFieldTextArea,
		TextArea: ta,
		Original: value,
	}
}

func makeFormSelect(label, value string, options []string) FormField {
	selected := 0
	for i, opt := range options {
		if opt == value {
			selected = i
			break
		}
	}

	return FormField{
		Label:    label,
		Type:     FormFieldSelect,
		Options:  options,
		Selected: selected,
		Original: value,
	}
}

func genderOptions() []string {
	return []string{
		string(model.GenderUnknown),
		string(model.GenderFemale),
		string(model.GenderMale),
	}
}

// Update handles input for the person form
func (m PersonForm) Update(msg tea.Msg) (PersonForm, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			m.saveRequested = true
			return m, nil

		case "esc":
			m.cancelRequested = true
			return m, nil

		case "tab":
			m.fields[m.focusedField] = m.blurField(m.fields[m.focusedField])
			m.focusedField = (m.focusedField + 1) % len(m.fields)
			m.fields[m.focusedField] = m.focusField(m.fields[m.focusedField])
			return m, nil

		case "shift+tab":
			m.fields[m.focusedField] = m.blurField(m.fields[m.focusedField])
			m.focusedField = (m.focusedField - 1 + len(m.fields)) % len(m.fields)
			m.fields[m.focusedField] = m.focusField(m.fields[m.focusedField])
			return m, nil

		case "left":
			if m.fields[m.focusedField].Type == FormFieldSelect {
				field := &m.fields[m.focusedField]
				field.Selected = (field.Selected - 1 + len(field.Options)) % len(field.Options)
				m.updateDirtyFlag()
				return m, nil
			}

		case "right":
			if m.fields[m.focusedField].Type == FormFieldSelect {
				field := &m.fields[m.focusedField]
				field.Selected = (field.Selected + 1) % len(field.Options)
				m.updateDirtyFlag()
				return m, nil
			}
		}

		// Pass key to focused field
		field := &m.fields[m.focusedField]
		switch field.Type {
		case FormFieldText:
			field.Input, cmd = field.Input.Update(msg)
			cmds = append(cmds, cmd)
		case FormFieldTextArea:
			field.TextArea, cmd = field.TextArea.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.updateDirtyFlag()
	}

	return m, tea.Batch(cmds...)
}

func (m PersonForm) focusField(field FormField) FormField {
	switch field.Type {
	case FormFieldText:
		field.Input.Focus()
	case FormFieldTextArea:
		field.TextArea.Focus()
	}
	return field
}

func (m PersonForm) blurField(field FormField) FormField {
	switch field.Type {
	case FormFieldText:
		field.Input.Blur()
	case FormFieldTextArea:
		field.TextArea.Blur()
	}
	return field
}

func (m *PersonForm) updateDirtyFlag() {
	m.dirty = false
	for _, field := range m.fields {
		if m.getCurrentValue(field) != field.Original {
			m.dirty = true
			break
		}
	}
}

func (m PersonForm) getCurrentValue(field FormField) string {
	switch field.Type {
	case FormFieldText:
		return strings.TrimSpace(field.Input.Value())
	case FormFieldTextArea:
		return field.TextArea.Value()
	case FormFieldSelect:
		if field.Selected >= 0 && field.Selected < len(field.Options) {
			return field.Options[field.Selected]
		}
		return ""
	}
	return ""
}

// View renders the person form modal
func (m PersonForm) View() string {
	r := m.theme.Renderer

	boxWidth := m.width - 10
	if boxWidth < 50 {
		boxWidth = 50
	}
	if boxWidth > 70 {
		boxWidth = 70
	}

	headerStyle := r.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary)

	var title string
	if m.isCreateMode {
		title = "Add Person"
	} else {
		title = fmt.Sprintf("Edit Person: %s", m.fields[fieldName].Original)
	}

	var content strings.Builder
	content.WriteString(headerStyle.Render(title))
	content.WriteString("\n\n")

	labelStyle := r.NewStyle().
		Foreground(m.theme.Secondary).
		Width(8).
		Align(lipgloss.Right)

	focusedLabelStyle := r.NewStyle().
		Foreground(m.theme.Primary).
		Bold(true).
		Width(8).
		Align(lipgloss.Right)

	selectStyle := r.NewStyle().
		Foreground(m.theme.Primary)

	for i, field := range m.fields {
		isFocused := i == m.focusedField

		if isFocused {
			content.WriteString(focusedLabelStyle.Render(field.Label + ":"))
		} else {
			content.WriteString(labelStyle.Render(field.Label + ":"))
		}
		content.WriteString(" ")

		switch field.Type {
		case FormFieldText:
			content.WriteString(field.Input.View())

		case FormFieldTextArea:
			lines := strings.Split(field.TextArea.View(), "\n")
			for idx, line := range lines {
				if idx > 0 {
					content.WriteString(strings.Repeat(" ", 9))
				}
				content.WriteString(line)
				if idx < len(lines)-1 {
					content.WriteString("\n")
				}
			}

		case FormFieldSelect:
			val := field.Options[field.Selected]
			if isFocused {
				content.WriteString(selectStyle.Render(fmt.Sprintf("< %s >", val)))
			} else {
				content.WriteString(val)
			}
		}

		content.WriteString("\n")
		if field.Type == FormFieldTextArea {
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	instructionStyle := r.NewStyle().
		Foreground(m.theme.Secondary).
		Italic(true)

	instructions := "[Tab] Next field   [Ctrl+S] Save   [Esc] Cancel"
	if m.fields[m.focusedField].Type == FormFieldSelect {
		instructions = "[←/→] Change   [Tab] Next field   [Ctrl+S] Save   [Esc] Cancel"
	}
	content.WriteString(instructionStyle.Render(instructions))

	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(boxWidth)

	box := boxStyle.Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize sets the modal dimensions
func (m *PersonForm) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSaveRequested returns true if ctrl+s was pressed
func (m PersonForm) IsSaveRequested() bool {
	return m.saveRequested
}

// IsCancelRequested returns true if esc was pressed
func (m PersonForm) IsCancelRequested() bool {
	return m.cancelRequested
}

// PersonID returns the edited person's id, or "" in create mode.
func (m PersonForm) PersonID() string {
	return m.personID
}

// IsCreateMode reports whether the form creates a new person on save.
func (m PersonForm) IsCreateMode() bool {
	return m.isCreateMode
}

// Draft assembles the store input from the current field values. Position is
// left zero; the caller fills it from the placement engine or the existing
// person.
func (m PersonForm) Draft() store.PersonDraft {
	return store.PersonDraft{
		Name:        m.getCurrentValue(m.fields[fieldName]),
		Gender:      m.getCurrentValue(m.fields[fieldGender]),
		DateOfBirth: m.getCurrentValue(m.fields[fieldBirth]),
		DateOfDeath: m.getCurrentValue(m.fields[fieldDeath]),
		PhotoRef:    m.getCurrentValue(m.fields[fieldPhoto]),
		Notes:       m.getCurrentValue(m.fields[fieldNotes]),
	}
}
