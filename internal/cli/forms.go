package cli

import (
	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func roadmapHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func runConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(roadmapHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

var statusOptions = []huh.Option[string]{
	huh.NewOption(domain.StatusNone+"  not applicable", domain.StatusNone),
	huh.NewOption(domain.StatusNotDone+"  not done", domain.StatusNotDone),
	huh.NewOption(domain.StatusPartial+"  partial", domain.StatusPartial),
	huh.NewOption(domain.StatusDone+"  done", domain.StatusDone),
}

// itemForm collects a title plus every status column into values.
func itemForm(schema domain.Schema, values map[string]*string) *huh.Form {
	var fields []huh.Field
	for _, c := range schema {
		v := values[c.Key]
		switch c.Type {
		case domain.ColumnStatus:
			if *v == "" {
				*v = domain.StatusNone
			}
			fields = append(fields, huh.NewSelect[string]().Title(c.Label).Options(statusOptions...).Value(v))
		default:
			in := huh.NewInput().Title(c.Label).Value(v)
			if title, ok := schema.TitleColumn(); ok && title.Key == c.Key {
				in = in.Validate(requiredText)
			}
			fields = append(fields, in)
		}
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(roadmapHuhTheme()).WithShowHelp(false)
}

func requiredText(s string) error {
	if len(s) == 0 {
		return domain.ErrTitleRequired
	}
	return nil
}
