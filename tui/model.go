// Package tui renders the About Me card as a bubbletea program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Submitter sends the form. *aboutme.Submitter satisfies it.
type Submitter interface {
	SubmitAboutMe(ctx context.Context, d aboutme.Draft) (aboutme.Result, error)
	SendInvitations(ctx context.Context, invitees []string) (aboutme.Result, error)
}

type slot struct {
	label       string
	placeholder string
	tags        bool
	kind        aboutme.FieldKind
}

// Input order follows the card top to bottom.
var slots = []slot{
	{label: "What have you been doing over the past several years?", placeholder: "Enter your answer"},
	{label: "What are your interests?", placeholder: "Enter your interests", tags: true, kind: aboutme.FieldInterests},
	{label: "What skills have you acquired?", placeholder: "Enter your skills", tags: true, kind: aboutme.FieldSkills},
	{label: `Do you have any special "endorsements"?`, placeholder: "Enter your endorsements", tags: true, kind: aboutme.FieldEndorsements},
	{label: "Email addresses", placeholder: "Enter email address", tags: true, kind: aboutme.FieldInvitees},
}

const bioSlot = 0

type submittedMsg struct {
	result aboutme.Result
	err    error
}

type invitedMsg struct {
	invitees []string
	result   aboutme.Result
	err      error
}

// Model is the bubbletea model of the card.
type Model struct {
	form      *aboutme.Form
	submitter Submitter
	ctx       context.Context
	cancel    context.CancelFunc

	bio      textarea.Model
	inputs   []textinput.Model // indexed by slot; the bio slot uses bio
	focus    int
	selected int // tile index in the focused field, -1 when none

	busy      bool
	notice    string
	status    string
	statusErr bool

	styles Styles
}

// New creates the card model. Requests started by the model use a context
// derived from ctx which is canceled when the model quits.
func New(ctx context.Context, form *aboutme.Form, submitter Submitter) Model {
	ctx, cancel := context.WithCancel(ctx)
	bio := textarea.New()
	bio.Prompt = "│ "
	bio.ShowLineNumbers = false
	bio.CharLimit = 0
	bio.MaxHeight = 0
	bio.SetWidth(62)
	bio.SetHeight(4)
	bio.Placeholder = slots[bioSlot].placeholder
	bio.SetValue(form.Bio)

	inputs := make([]textinput.Model, len(slots))
	for i := range slots {
		if i == bioSlot {
			continue
		}
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 280
		ti.Width = 60
		inputs[i] = ti
	}

	m := Model{
		form:      form,
		submitter: submitter,
		ctx:       ctx,
		cancel:    cancel,
		bio:       bio,
		inputs:    inputs,
		selected:  -1,
		styles:    DefaultStyles(),
	}
	if form.Expanded {
		m.bio.Focus()
	}
	m.refreshPlaceholders()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Form returns the underlying form state.
func (m Model) Form() *aboutme.Form {
	return m.form
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(describeError(msg.err), true)
		} else {
			m.setStatus("Profile saved.", false)
		}
		return m, nil

	case invitedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(describeError(msg.err), true)
			return m, nil
		}
		// Only the sent invitees are cleared; anything added meanwhile stays.
		for _, email := range msg.invitees {
			m.form.Invitees().Remove(email)
		}
		m.clampSelection()
		m.refreshPlaceholders()
		m.setStatus(fmt.Sprintf("Invited %d %s.", len(msg.invitees), plural(len(msg.invitees), "person", "people")), false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "ctrl+e":
		return m.toggle()
	}

	if !m.form.Expanded {
		switch msg.String() {
		case "enter", " ":
			return m.toggle()
		case "q", "esc":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.toggle()
	case "tab":
		return m.moveFocus(1)
	case "shift+tab":
		return m.moveFocus(-1)
	case "down", "up":
		// the bio is multi-line, arrows move its cursor
		if m.focus != bioSlot {
			if msg.String() == "down" {
				return m.moveFocus(1)
			}
			return m.moveFocus(-1)
		}
	case "ctrl+s":
		return m.submit()
	case "ctrl+n":
		return m.invite()
	case "enter":
		if m.focus != bioSlot {
			m.commit()
			return m, nil
		}
	case "left", "right":
		if slots[m.focus].tags && m.inputs[m.focus].Value() == "" {
			m.moveSelection(msg.String())
			return m, nil
		}
	case "delete", "ctrl+x":
		if m.selected >= 0 {
			m.removeSelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == bioSlot {
		m.bio, cmd = m.bio.Update(msg)
		m.form.Bio = m.bio.Value()
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.form.Field(slots[m.focus].kind).SetBuffer(m.inputs[m.focus].Value())
		m.selected = -1
	}
	m.notice = ""
	return m, cmd
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	if m.form.Toggle() {
		return m, m.focusInput(m.focus)
	}
	m.blurInput(m.focus)
	m.selected = -1
	return m, nil
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.blurInput(m.focus)
	m.focus = (m.focus + delta + len(slots)) % len(slots)
	m.selected = -1
	m.notice = ""
	return m, m.focusInput(m.focus)
}

func (m *Model) focusInput(i int) tea.Cmd {
	if i == bioSlot {
		return m.bio.Focus()
	}
	return m.inputs[i].Focus()
}

func (m *Model) blurInput(i int) {
	if i == bioSlot {
		m.bio.Blur()
		return
	}
	m.inputs[i].Blur()
}

func (m Model) inputView(i int) string {
	if i == bioSlot {
		return m.bio.View()
	}
	return m.inputs[i].View()
}

// commit adds the focused buffer to its list when it holds more than whitespace.
func (m *Model) commit() {
	s := slots[m.focus]
	field := m.form.Field(s.kind)
	field.SetBuffer(m.inputs[m.focus].Value())
	if strings.TrimSpace(field.Buffer()) == "" {
		return
	}
	if _, err := field.Commit(); err != nil {
		m.notice = rejection(s.kind, err)
		return
	}
	m.inputs[m.focus].SetValue(field.Buffer())
	m.notice = ""
	m.refreshPlaceholders()
}

func (m *Model) moveSelection(key string) {
	n := m.form.Field(slots[m.focus].kind).Len()
	if n == 0 {
		m.selected = -1
		return
	}
	switch {
	case m.selected < 0:
		m.selected = n - 1
	case key == "left" && m.selected > 0:
		m.selected--
	case key == "right" && m.selected < n-1:
		m.selected++
	case key == "right":
		m.selected = -1 // back to the input
	}
}

func (m *Model) removeSelected() {
	field := m.form.Field(slots[m.focus].kind)
	items := field.Items()
	if m.selected >= len(items) {
		m.selected = -1
		return
	}
	field.Remove(items[m.selected])
	m.clampSelection()
	m.refreshPlaceholders()
}

func (m *Model) clampSelection() {
	if !slots[m.focus].tags {
		m.selected = -1
		return
	}
	n := m.form.Field(slots[m.focus].kind).Len()
	if m.selected >= n {
		m.selected = n - 1
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("A request is already in progress.", true)
		return m, nil
	}
	m.busy = true
	m.setStatus("Submitting…", false)
	ctx, sub, draft := m.ctx, m.submitter, m.form.Draft()
	return m, func() tea.Msg {
		res, err := sub.SubmitAboutMe(ctx, draft)
		return submittedMsg{result: res, err: err}
	}
}

func (m Model) invite() (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("A request is already in progress.", true)
		return m, nil
	}
	invitees := m.form.Invitees().Items()
	if len(invitees) == 0 {
		m.setStatus("Add at least one email to invite.", true)
		return m, nil
	}
	m.busy = true
	m.setStatus("Sending invitations…", false)
	ctx, sub := m.ctx, m.submitter
	return m, func() tea.Msg {
		res, err := sub.SendInvitations(ctx, invitees)
		return invitedMsg{invitees: invitees, result: res, err: err}
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// Placeholders only show while a list is empty.
func (m *Model) refreshPlaceholders() {
	for i, s := range slots {
		if !s.tags {
			continue
		}
		if m.form.Field(s.kind).Len() > 0 {
			m.inputs[i].Placeholder = ""
			continue
		}
		m.inputs[i].Placeholder = s.placeholder
	}
}

func rejection(kind aboutme.FieldKind, err error) string {
	switch {
	case errors.Is(err, aboutme.ErrDuplicateTag):
		return fmt.Sprintf("Already in %s.", kind)
	case errors.Is(err, aboutme.ErrInvalidEmail):
		return "That does not look like an email address."
	default:
		return err.Error()
	}
}

func describeError(err error) string {
	var se *aboutme.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("Submission failed: server responded %d.", se.StatusCode)
	case errors.Is(err, aboutme.ErrNoIdentity):
		return "Submission failed: not signed in (set ABOUTME_TOKEN or ABOUTME_EMAIL)."
	case errors.Is(err, aboutme.ErrSubmissionInFlight):
		return "A request is already in progress."
	case errors.Is(err, context.Canceled):
		return "Submission canceled."
	default:
		return "Submission failed: " + err.Error()
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
