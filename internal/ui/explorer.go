package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/docgen/internal/types"
)

// SectionItem is one crawled section in the explorer list
type SectionItem struct {
	section types.Section
}

// FilterValue implements list.Item interface
func (i SectionItem) FilterValue() string { return i.section.Name }

// Title returns the section name
func (i SectionItem) Title() string {
	if i.section.Failed() {
		return i.section.Name + " (failed)"
	}
	return i.section.Name
}

// Description summarises the section contents
func (i SectionItem) Description() string {
	if i.section.Failed() {
		return i.section.Error
	}
	return fmt.Sprintf("%d endpoints | %d params | %d examples",
		len(i.section.Endpoints), i.section.Parameters.Len(), len(i.section.Examples))
}

// Explorer is a two pane view: sections on the left, details of the selected one on the right
type Explorer struct {
	list     list.Model
	detail   viewport.Model
	focus    int
	width    int
	height   int
	selected int
}

const (
	focusList = iota
	focusDetail
)

// NewExplorer builds an explorer over the sections of agg
func NewExplorer(title string, agg *types.Aggregate) *Explorer {
	var items []list.Item
	agg.Each(func(s types.Section) {
		items = append(items, SectionItem{section: s})
	})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("170"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("244"))

	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = l.Styles.Title.Foreground(lipgloss.Color("240"))
	l.SetShowHelp(false)

	e := &Explorer{list: l, detail: viewport.New(0, 0), selected: -1}
	e.refresh()
	return e
}

// Init implements tea.Model
func (e *Explorer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.SetSize(msg.Width, msg.Height)
		return e, nil
	case tea.KeyMsg:
		if e.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return e, tea.Quit
		case "tab":
			e.focus = (e.focus + 1) % 2
			return e, nil
		}
		if e.focus == focusDetail {
			var cmd tea.Cmd
			e.detail, cmd = e.detail.Update(msg)
			return e, cmd
		}
	}

	var cmd tea.Cmd
	e.list, cmd = e.list.Update(msg)
	e.refresh()
	return e, cmd
}

// View implements tea.Model
func (e *Explorer) View() string {
	listStyle := borderStyle
	detailStyle := borderStyle
	if e.focus == focusList {
		listStyle = listStyle.BorderForeground(lipgloss.Color("99"))
	} else {
		detailStyle = detailStyle.BorderForeground(lipgloss.Color("99"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Render(e.list.View()),
		detailStyle.Render(e.detail.View()),
	)
	help := infoStyle.Render("↑/↓ select • tab switch pane • / filter • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

// SetSize lays out both panes
func (e *Explorer) SetSize(width, height int) {
	e.width = width
	e.height = height

	listWidth := width / 3
	paneHeight := height - 3
	e.list.SetSize(listWidth-2, paneHeight)
	e.detail.Width = width - listWidth - 4
	e.detail.Height = paneHeight
	e.selected = -1
	e.refresh()
}

// Selected returns the section under the cursor
func (e *Explorer) Selected() (types.Section, bool) {
	item, ok := e.list.SelectedItem().(SectionItem)
	if !ok {
		return types.Section{}, false
	}
	return item.section, true
}

func (e *Explorer) refresh() {
	idx := e.list.Index()
	if idx == e.selected {
		return
	}
	e.selected = idx
	s, ok := e.Selected()
	if !ok {
		e.detail.SetContent(infoStyle.Render("No sections crawled"))
		return
	}
	e.detail.SetContent(SectionDetail(s, e.detail.Width))
	e.detail.GotoTop()
}

// SectionDetail renders the endpoints and parameters of s
func SectionDetail(s types.Section, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Name) + "\n")
	b.WriteString(infoStyle.Render(s.URL) + "\n\n")

	if s.Failed() {
		b.WriteString(errorStyle.Render("Error: "+s.Error) + "\n")
		return b.String()
	}
	if s.Description != "" {
		b.WriteString(s.Description + "\n\n")
	}

	pathWidth := 40
	if width > 0 {
		pathWidth = max(20, width-12)
	}

	b.WriteString(labelStyle.Render("Endpoints") + "\n")
	if len(s.Endpoints) == 0 {
		b.WriteString(warningStyle.Render("  none found") + "\n")
	}
	for _, ep := range s.Endpoints {
		fmt.Fprintf(&b, "  %-7s %s\n", valueStyle.Render(ep.Method), truncate(ep.Path, pathWidth))
	}

	b.WriteString("\n" + labelStyle.Render("Parameters") + "\n")
	if s.Parameters.Len() == 0 {
		b.WriteString(warningStyle.Render("  none found") + "\n")
	}
	for pair := s.Parameters.Oldest(); pair != nil; pair = pair.Next() {
		required := ""
		if pair.Value.Required {
			required = " *"
		}
		fmt.Fprintf(&b, "  %s%s (%s)\n", pair.Key, required, pair.Value.Type)
	}

	fmt.Fprintf(&b, "\n%s %d\n", labelStyle.Render("Examples:"), len(s.Examples))
	return b.String()
}
