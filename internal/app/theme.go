package app

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	stageStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
	urlStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	hashtagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Bold(true)
	candidateStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	candidateHotStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("75")).Padding(0, 1)
	captionStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	captionHotStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1)
)
