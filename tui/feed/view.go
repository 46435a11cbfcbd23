package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/tripshare/domain"
	core "github.com/CrestNiraj12/tripshare/feed"
	"github.com/CrestNiraj12/tripshare/tui/common"
)

const (
	emptyTitle    = "No trips shared yet."
	emptySubtitle = "Be the first to share your adventure!"
)

// View renders the feed as a string.
func (m Model) View() string {
	var b strings.Builder

	title := common.AppTitleStyle.Render("✈ " + domain.AppTitle)
	tagline := common.TaglineStyle.Render("<Discover trips from fellow travelers>")
	b.WriteString(title + tagline + "\n\n")

	switch {
	case m.view.Loading():
		b.WriteString(fmt.Sprintf("  %s Loading trips...\n", m.spinner.View()))
	case m.view.Phase() == core.PhaseError:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.view.Err())))
		b.WriteString("\n\n  Press r to retry.\n")
	case m.view.Empty():
		b.WriteString("  " + common.TitleStyle.Render(emptyTitle) + "\n")
		b.WriteString("  " + common.ContentStyle.Render(emptySubtitle) + "\n")
	case m.view.Phase() == core.PhaseReady:
		b.WriteString(m.renderList())
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + common.NoticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) renderList() string {
	trips := m.view.Trips()
	start := min(max(m.startIndex, 0), len(trips)-1)
	end := min(start+m.visibleCount(), len(trips))
	cardWidth := max(min(m.width-6, 90), 24)

	var list strings.Builder
	for i := start; i < end; i++ {
		card := m.renderCard(trips[i], cardWidth)
		if i == m.cursor {
			card = common.SelectedStyle.Render(card)
		} else {
			card = common.UnselectedStyle.Render(card)
		}
		list.WriteString(card + "\n")
	}

	out := strings.TrimSuffix(list.String(), "\n")
	if len(trips) > end-start {
		pos := common.TimestampStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(trips)))
		out += "\n" + pos
	}
	return out
}

func (m Model) renderCard(t domain.Trip, width int) string {
	heading := common.TitleStyle.Render(common.Truncate(t.Title, width/2))
	if t.Destination != "" {
		heading += common.DestinationStyle.Render("  📍 " + common.Truncate(t.Destination, width/3))
	}

	author := common.AuthorStyle.Render(authorLabel(t))
	if m.user != nil && t.AuthorID == m.user.ID {
		author += common.SuccessStyle.Render(" (you)")
	}
	byline := author
	if !t.CreatedAt.IsZero() {
		byline += "  " + common.TimestampStyle.Render(t.CreatedAt.Local().Format("Jan 02 2006"))
	}

	icon, style := "♡", common.MetadataStyle
	if m.isLiked(t.ID) {
		icon, style = "♥", common.LikeActiveStyle
	}
	meta := style.Render(icon) + common.MetadataStyle.Render(fmt.Sprintf(" %d", m.likesCount(t)))
	if m.pending[t.ID] {
		meta += common.MetadataStyle.Render("  saving...")
	}

	body := common.ContentStyle.Render(truncateToTwoLines(t.Content, width))
	return strings.Join([]string{heading, byline, body, meta}, "\n")
}

func authorLabel(t domain.Trip) string {
	switch {
	case t.AuthorUsername != "" && t.AuthorName != "":
		return t.AuthorName + " @" + t.AuthorUsername
	case t.AuthorUsername != "":
		return "@" + t.AuthorUsername
	case t.AuthorName != "":
		return t.AuthorName
	default:
		return "Anonymous traveler"
	}
}

// truncateToTwoLines wraps and truncates text to at most 2 lines.
func truncateToTwoLines(text string, width int) string {
	if width < 12 {
		width = 12
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(text))
	lines := strings.Split(wrapped, "\n")
	if len(lines) <= 2 {
		return wrapped
	}
	return strings.Join(lines[:2], "\n") + "..."
}

func (m Model) helpView() string {
	var items []string
	if len(m.view.Trips()) > 0 {
		items = []string{"j/k: move", "l: like", "o: profile", "r: refresh", "q: quit"}
	} else {
		items = []string{"r: refresh", "q: quit"}
	}
	wrapWidth := max(m.width-2, 16)
	return common.StatusBarStyle.
		Width(wrapWidth).
		Render("  " + strings.Join(items, " • "))
}
