package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alipala/ai-fantasy-rpg/pkg/session"
)

var titleCaser = cases.Title(language.English)

type listItem struct {
	title    string
	desc     string
	disabled bool
	badge    string
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	switch m.screen {
	case session.ScreenStart:
		return m.renderStart()
	case session.ScreenWorldSelect:
		return m.renderSelection("Choose Your World", m.worldItems())
	case session.ScreenKingdomSelect:
		return m.renderSelection("Choose Your Kingdom", m.kingdomItems())
	case session.ScreenTownSelect:
		return m.renderSelection("Choose Your Town", m.townItems())
	case session.ScreenCharacterSelect:
		return m.renderSelection("Choose Your Character", m.characterItems())
	case session.ScreenPlaying:
		return m.renderPlaying()
	case session.ScreenCompleted:
		return m.renderCompletion()
	}
	return ""
}

func (m Model) renderStart() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("AI FANTASY RPG"))
	content.WriteString("\n\n")
	content.WriteString("An adventure written as you play.\n")
	content.WriteString("Choose a world, a kingdom, a town and a hero,\n")
	content.WriteString("then tell the story what you do next.\n\n")
	content.WriteString(promptStyle.Render("Press Enter to begin, Ctrl+C to quit"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

func (m Model) worldItems() []listItem {
	items := make([]listItem, 0, len(m.worlds))
	for _, w := range m.worlds {
		items = append(items, listItem{title: w.Name, desc: w.Description})
	}
	return items
}

func (m Model) kingdomItems() []listItem {
	items := make([]listItem, 0, len(m.kingdoms))
	for _, k := range m.kingdoms {
		items = append(items, listItem{title: k.Name, desc: k.Description})
	}
	return items
}

func (m Model) townItems() []listItem {
	items := make([]listItem, 0, len(m.towns))
	for _, t := range m.towns {
		items = append(items, listItem{title: t.Name, desc: t.Description})
	}
	return items
}

func (m Model) characterItems() []listItem {
	items := make([]listItem, 0, len(m.characters))
	for _, c := range m.characters {
		item := listItem{title: c.Name, desc: c.Description}
		if !c.HasPuzzle {
			item.disabled = true
			item.badge = "No Available Quests"
		}
		items = append(items, item)
	}
	return items
}

func (m Model) renderSelection(title string, items []listItem) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n\n")

	switch {
	case m.screenErr != "":
		// A failed entry fetch renders an error state in place of the
		// option list; the screen itself stays active.
		content.WriteString(errorStyle.Render(m.screenErr))
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Esc to go back, Ctrl+C to quit"))

	case m.loadingList:
		content.WriteString(m.spinner.View())
		content.WriteString(loadingStyle.Render(" Loading..."))

	case m.loading:
		content.WriteString(m.spinner.View())
		content.WriteString(loadingStyle.Render(" Setting up your adventure..."))

	case len(items) == 0:
		content.WriteString(promptStyle.Render("Nothing to choose from here."))
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Esc to go back, Ctrl+C to quit"))

	default:
		for i, item := range items {
			label := item.title
			if item.desc != "" {
				label += " — " + truncate(item.desc, 70)
			}
			switch {
			case item.disabled:
				content.WriteString(listDisabledStyle.Render("  "+label) + " " + badgeStyle.Render(item.badge))
			case i == m.cursor:
				content.WriteString(listSelectedStyle.Render("▶ " + label))
			default:
				content.WriteString(listItemStyle.Render("  " + label))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("↑/↓ navigate · Enter select · Esc back · Ctrl+C quit"))
	}

	if m.notice != "" {
		content.WriteString("\n\n")
		content.WriteString(badgeStyle.Render(m.notice))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

// renderTranscript reformats the whole transcript for the current
// viewport width and scrolls to the latest entry.
func (m *Model) renderTranscript() {
	width := m.chatViewport.Width - 4
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	for _, l := range m.transcript {
		switch l.kind {
		case lineUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(l.text, width-5))
		case lineBot:
			content.WriteString(narratorStyle.Render(wordwrap.String(l.text, width)))
		case lineError:
			content.WriteString(errorStyle.Render(wordwrap.String(l.text, width)))
		case lineImage:
			content.WriteString(imageStyle.Render(wordwrap.String(l.text, width)))
		}
		content.WriteString("\n\n")
	}

	if m.loading {
		content.WriteString(m.spinner.View() + loadingStyle.Render(" The story unfolds..."))
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m Model) renderPlaying() string {
	chatWidth := m.chatViewport.Width + 2
	metaWidth := m.width - chatWidth - 6
	if metaWidth < 20 {
		metaWidth = 20
	}

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(m.renderMeta(metaWidth - 2))

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

func (m Model) renderMeta(width int) string {
	var content strings.Builder

	if m.heroName != "" {
		content.WriteString(titleStyle.Render(m.heroName))
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("of "+m.worldName) + "\n\n")
	}

	if p := m.progress; p != nil {
		content.WriteString(titleStyle.Render("QUEST") + "\n")
		content.WriteString(wordwrap.String(p.MainPuzzle, width) + "\n")
		content.WriteString(renderQuestSteps(p.CompletedTasks, p.TotalTasks) + "\n\n")
	}

	content.WriteString(titleStyle.Render("INVENTORY") + "\n")
	if len(m.inventory) == 0 {
		content.WriteString(promptStyle.Render("Empty") + "\n")
	} else {
		for _, entry := range m.inventory {
			content.WriteString(fmt.Sprintf("• %s ×%d\n", titleCaser.String(entry.name), entry.count))
		}
	}
	content.WriteString("\n")

	if len(m.examples) > 0 {
		content.WriteString(titleStyle.Render("POSSIBLE ACTIONS") + "\n")
		for i, example := range m.examples {
			content.WriteString(fmt.Sprintf("%d. %s\n", i+1, truncate(example, width-4)))
		}
		content.WriteString(promptStyle.Render("press a number to prefill") + "\n")
	}

	return content.String()
}

// renderQuestSteps draws the step bar from the original quest progress
// widget: completed steps filled, remaining hollow.
func renderQuestSteps(completed, total int) string {
	var bar strings.Builder
	for i := 0; i < total; i++ {
		if i < completed {
			bar.WriteString(progressDoneStyle.Render("●"))
		} else {
			bar.WriteString(progressTodoStyle.Render("○"))
		}
		if i < total-1 {
			bar.WriteString(progressTodoStyle.Render("─"))
		}
	}
	return bar.String()
}

func (m Model) renderCompletion() string {
	var content strings.Builder

	if m.completionView == nil {
		content.WriteString(m.spinner.View())
		content.WriteString(loadingStyle.Render(" Creating your legendary victory scene..."))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
	}

	v := m.completionView
	content.WriteString(titleStyle.Render(fmt.Sprintf("Victory in %s!", v.WorldName)))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("The realm has been saved by %s\n\n", v.CharacterName))

	if v.Image != nil {
		content.WriteString(imageStyle.Render("Victory scene: "+v.Image.URL) + "\n\n")
	}
	if len(v.Achievements) > 0 {
		for _, a := range v.Achievements {
			content.WriteString(badgeStyle.Render("★ "+a) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(wordwrap.String(v.Summary, 70))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("R play again · S copy share link"))
	if v.Image != nil {
		content.WriteString(promptStyle.Render(" · D download image"))
	}
	content.WriteString(promptStyle.Render(" · Ctrl+C quit"))

	if m.notice != "" {
		content.WriteString("\n\n")
		content.WriteString(badgeStyle.Render(m.notice))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

func truncate(s string, n int) string {
	if n <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
