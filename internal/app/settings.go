package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"instagen/internal/types"
)

// SettingsController edits the stored remote-operation credentials.
type SettingsController struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

func NewSettingsController(width int) *SettingsController {
	labels := []string{
		"Gemini API key",
		"Cloudinary cloud name",
		"Cloudinary API key",
		"Cloudinary API secret",
		"Instagram user ID",
		"Instagram access token",
	}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		input := textinput.New()
		input.CharLimit = 256
		input.Width = width
		inputs[i] = input
	}
	inputs[0].Focus()
	return &SettingsController{inputs: inputs, labels: labels}
}

func (c *SettingsController) SetCredentials(creds types.Credentials) {
	values := []string{
		creds.GeminiAPIKey,
		creds.CloudinaryCloudName,
		creds.CloudinaryAPIKey,
		creds.CloudinaryAPISecret,
		creds.InstagramUserID,
		creds.InstagramAccessToken,
	}
	for i := range c.inputs {
		c.inputs[i].SetValue(values[i])
	}
}

func (c *SettingsController) Credentials() types.Credentials {
	value := func(i int) string { return strings.TrimSpace(c.inputs[i].Value()) }
	return types.Credentials{
		GeminiAPIKey:         value(0),
		CloudinaryCloudName:  value(1),
		CloudinaryAPIKey:     value(2),
		CloudinaryAPISecret:  value(3),
		InstagramUserID:      value(4),
		InstagramAccessToken: value(5),
	}
}

func (c *SettingsController) Focus(index int) {
	if index < 0 || index >= len(c.inputs) {
		return
	}
	c.inputs[c.focus].Blur()
	c.focus = index
	c.inputs[c.focus].Focus()
}

func (c *SettingsController) Next() { c.Focus((c.focus + 1) % len(c.inputs)) }

func (c *SettingsController) Prev() { c.Focus((c.focus - 1 + len(c.inputs)) % len(c.inputs)) }

func (c *SettingsController) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return cmd
}

func (c *SettingsController) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Credentials"))
	b.WriteString("\n\n")
	for i := range c.inputs {
		label := labelStyle.Render(c.labels[i])
		if i == c.focus {
			label = focusedStyle.Render(c.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(c.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	creds := c.Credentials()
	switch {
	case creds.Ready() && creds.PublishReady():
		b.WriteString(statusStyle.Render("generation and publishing configured"))
	case creds.Ready():
		b.WriteString(warningStyle.Render("generation configured; publish keys incomplete"))
	default:
		b.WriteString(warningStyle.Render("Gemini API key missing; generation unavailable"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab/shift+tab field · ctrl+s save · esc cancel"))
	return b.String()
}
