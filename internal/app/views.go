package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"

	"instagen/internal/types"
	"instagen/internal/wizard"
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case uiModeSettings:
		b.WriteString(m.settings.View())
	case uiModeHistory:
		b.WriteString(m.viewHistory())
	case uiModeEdit:
		b.WriteString(m.viewEditor())
	default:
		b.WriteString(m.viewStage())
	}

	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}

func (m *Model) viewHeader() string {
	title := titleStyle.Render("instagen")
	stage := stageStyle.Render(string(m.session.Stage))
	return title + "  " + stage
}

func (m *Model) viewStage() string {
	switch m.session.Stage {
	case wizard.StageIdle:
		return m.viewIdle()
	case wizard.StageLoadingMedia:
		return m.viewLoading("Generating images")
	case wizard.StageSelectingImage:
		return m.viewSelecting()
	case wizard.StageLoadingText:
		return m.viewLoading("Writing captions")
	case wizard.StagePreview:
		return m.viewPreview()
	case wizard.StagePublishing:
		return m.viewLoading("Publishing")
	case wizard.StagePublished:
		return m.viewPublished()
	case wizard.StageError:
		return m.viewError()
	}
	return ""
}

func (m *Model) viewIdle() string {
	var b strings.Builder
	b.WriteString(m.formLabel(rowPrompt, "Prompt"))
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\n")
	b.WriteString(m.formLabel(rowPostType, "Format"))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(m.postOptions[m.typeIdx].Name + " (" + m.postOptions[m.typeIdx].Dimensions + ")"))
	b.WriteString("\n")
	b.WriteString(m.formLabel(rowTone, "Tone"))
	b.WriteString("    ")
	b.WriteString(valueStyle.Render(string(m.toneOptions[m.toneIdx])))
	b.WriteString("\n")
	b.WriteString(m.formLabel(rowLength, "Length"))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(string(m.lengthOptions[m.lenIdx])))
	b.WriteString("\n\n")

	if m.readyKnown && !m.ready {
		b.WriteString(warningStyle.Render("No Gemini API key configured. Press ctrl+o to add credentials."))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("enter generate · up/down field · left/right value · ctrl+o credentials · ctrl+g history · ctrl+c quit"))
	return b.String()
}

func (m *Model) viewLoading(verb string) string {
	return m.loader.View() + " " + statusStyle.Render(verb+"...")
}

func (m *Model) viewSelecting() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Pick an image"))
	b.WriteString("\n\n")

	boxes := make([]string, 0, len(m.session.Media))
	for i, image := range m.session.Media {
		body := fmt.Sprintf("image %d\n%s\n%s", i+1, m.session.Form.PostType, payloadSize(image))
		style := candidateStyle
		if i == m.cursor {
			style = candidateHotStyle
		}
		boxes = append(boxes, style.Render(body))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("left/right pick · enter select · esc start over · q quit"))
	return b.String()
}

func (m *Model) viewPreview() string {
	text := m.session.Text
	var b strings.Builder
	b.WriteString(labelStyle.Render("Preview"))
	b.WriteString("\n\n")

	if m.session.Form.PostType == types.PostTypeCarousel {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Publishing image %d of %d (left/right to change)", m.carousel+1, len(m.session.Media))))
		b.WriteString("\n\n")
	}

	if text != nil {
		for i, variation := range text.CaptionVariations {
			style := captionStyle
			if i == m.variant {
				style = captionHotStyle
			}
			b.WriteString(style.Render(variation.Caption + "\n\n" + variation.CallToAction))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(hashtagStyle.Render(text.Hashtags))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("tab variation · e caption · c call to action · t hashtags · p publish · esc start over"))
	return b.String()
}

func (m *Model) viewEditor() string {
	labels := map[editField]string{
		editCaption:      "Edit caption",
		editCallToAction: "Edit call to action",
		editHashtags:     "Edit hashtags",
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(labels[m.field]))
	b.WriteString("\n\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("ctrl+s save · esc cancel"))
	return b.String()
}

func (m *Model) viewPublished() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("Published!"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Post ID  "))
	b.WriteString(valueStyle.Render(m.session.PostID))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Image    "))
	b.WriteString(urlStyle.Render(m.session.PublishedURL))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("c copy url · n new post · v history · q quit"))
	return b.String()
}

func (m *Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(m.session.LastError))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("r retry · n start over · q quit"))
	return b.String()
}

func (m *Model) viewHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Post history"))
	b.WriteString("\n\n")

	if len(m.history) == 0 {
		b.WriteString(statusStyle.Render("No published posts yet."))
	}
	width := m.width - 4
	if width < minContentWidth {
		width = minContentWidth
	}
	for _, record := range m.history {
		when := record.Timestamp.Local().Format("2006-01-02 15:04")
		head := fmt.Sprintf("%s  %s", when, record.PostType)
		caption := strings.ReplaceAll(record.FullCaption, "\n", " ")
		b.WriteString(valueStyle.Render(head))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(runewidth.Truncate(caption, width, "...")))
		b.WriteString("\n")
		b.WriteString(urlStyle.Render(runewidth.Truncate(record.ImageURL, width, "...")))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("x clear · esc back"))
	return b.String()
}

func (m *Model) formLabel(row formRow, name string) string {
	if m.row == row && m.mode == uiModeWizard && m.session.Stage == wizard.StageIdle {
		return focusedStyle.Render("> " + name)
	}
	return labelStyle.Render("  " + name)
}

// payloadSize reports the approximate decoded size of a base64 image.
func payloadSize(encoded string) string {
	size := len(encoded) * 3 / 4
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
