package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/centavo-dev/centavo/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00B86C"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	descStyle = lipgloss.NewStyle().
			Bold(true)

	chosenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	expenseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	incomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00B86C"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1D3")).
			Padding(1, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 2)
)

// amountStyle picks red for expenses, green for income.
func amountStyle(txn model.Transaction) lipgloss.Style {
	if txn.IsExpense() {
		return expenseStyle
	}
	return incomeStyle
}
