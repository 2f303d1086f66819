package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Sentinel errors for interactive prompts.
var (
	// ErrHeadless indicates a prompt was requested without a terminal.
	ErrHeadless = errors.New("ui: prompt requires an interactive terminal")

	// ErrCancelled indicates the user aborted a prompt.
	ErrCancelled = errors.New("ui: cancelled by user")
)

// Prompter asks the user for input with huh forms.
type Prompter struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewPrompter creates a Prompter backed by the given theme and headless manager.
func NewPrompter(theme *Theme, hm *HeadlessManager) *Prompter {
	return &Prompter{theme: theme, headless: hm}
}

// AskName prompts for a habit name. Blank input is refused in the form.
func (p *Prompter) AskName(ctx context.Context) (string, error) {
	if p.headless.IsHeadless() {
		return "", ErrHeadless
	}

	var name string
	input := huh.NewInput().
		Title("New habit").
		Description("What do you want to do every day?").
		Placeholder("Read 20 pages").
		Value(&name).
		Validate(func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.New("name must not be empty")
			}
			return nil
		})

	if err := p.run(ctx, huh.NewGroup(input)); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// Confirm asks a yes/no question. The default answer is no.
func (p *Prompter) Confirm(ctx context.Context, title string) (bool, error) {
	if p.headless.IsHeadless() {
		return false, ErrHeadless
	}

	var ok bool
	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Keep").
		Value(&ok)

	if err := p.run(ctx, huh.NewGroup(confirm)); err != nil {
		return false, err
	}
	return ok, nil
}

func (p *Prompter) run(ctx context.Context, g *huh.Group) error {
	form := huh.NewForm(g).WithAccessible(false)
	if !p.theme.NoColor {
		form = form.WithTheme(newHuhTheme())
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// newHuhTheme maps the brand palette onto a huh theme.
func newHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(colorBorder)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(colorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(colorMuted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(colorError)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(colorError)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(colorPrimary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(colorMuted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(colorPrimary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(colorPrimary)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(colorText).
		Background(lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"})

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base

	return t
}
