package tui

import (
	"strings"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/charmbracelet/lipgloss"
)

// View renders the card.
func (m Model) View() string {
	var b strings.Builder

	chevron := "▸"
	if m.form.Expanded {
		chevron = "▾"
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("About Me"),
		m.styles.Subtitle.Render("Tell us about yourself"),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", m.styles.Chevron.Render(chevron)))

	if !m.form.Expanded {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("enter: expand • q: quit"))
		return m.styles.Card.Render(b.String())
	}

	for i, s := range slots {
		b.WriteString("\n\n")
		if s.tags && s.kind == aboutme.FieldInvitees {
			b.WriteString(m.inviteHeader())
		}
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.FocusedLabel
		}
		b.WriteString(label.Render(s.label))
		b.WriteString("\n")
		if s.tags {
			if tiles := m.renderTiles(i); tiles != "" {
				b.WriteString(tiles)
				b.WriteString("\n")
			}
		}
		b.WriteString(m.inputView(i))
	}

	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(
		"tab/shift+tab: move • enter: add (new line in the bio) • ←/→ then del: remove tile • ctrl+s: submit • ctrl+n: send invites • esc: collapse • ctrl+c: quit"))

	return m.styles.Card.Render(b.String())
}

func (m Model) inviteHeader() string {
	return m.styles.Section.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("✉ Invite others?"),
		m.styles.Subtitle.Render("Invite outside organizational individuals to upload resume/credential information"),
	)) + "\n"
}

func (m Model) renderTiles(i int) string {
	items := m.form.Field(slots[i].kind).Items()
	if len(items) == 0 {
		return ""
	}
	tiles := make([]string, len(items))
	for j, item := range items {
		style := m.styles.Tile
		if i == m.focus && j == m.selected {
			style = m.styles.SelectedTile
		}
		tiles[j] = style.Render(item + " ×")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
