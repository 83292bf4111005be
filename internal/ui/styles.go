// Package ui provides terminal styling for CLI output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderAccent styles informational markers.
func RenderAccent(s string) string {
	return accentStyle.Render(s)
}

// RenderPass styles success markers.
func RenderPass(s string) string {
	return passStyle.Render(s)
}

// RenderWarn styles warning markers.
func RenderWarn(s string) string {
	return warnStyle.Render(s)
}

// RenderErr styles error markers.
func RenderErr(s string) string {
	return errStyle.Render(s)
}

// RenderDim styles secondary detail text.
func RenderDim(s string) string {
	return dimStyle.Render(s)
}
