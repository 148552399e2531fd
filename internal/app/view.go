package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/chaindemo/internal/flags"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/keys"
	"github.com/zjrosen/chaindemo/internal/ui/overlay"
	"github.com/zjrosen/chaindemo/internal/ui/shared/panes"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

// Zone IDs for clickable elements.
const (
	zoneGenerate     = "demo-generate"
	zoneDeploy       = "demo-deploy"
	zoneRestart      = "demo-restart"
	zoneContractLink = "demo-contract-link"
	zoneTxLink       = "demo-tx-link"
	zoneInput        = "demo-input"
)

const (
	minWidth  = 60
	minHeight = 12
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		return styles.WarningStyle.Render("Terminal too small, resize to at least 60x12")
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderAssistant(bodyHeight),
		m.renderOnchainOS(bodyHeight),
		m.renderResults(bodyHeight),
	)
	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.showTips {
		view = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   m.height,
			Position: overlay.Center,
		}, m.renderTips(), view)
	}

	// Overlay toaster on top of the board
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	// Overlay log viewer on top (only in debug mode when visible)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// panelWidth is the width of the first two panels; the last takes the rest.
func (m Model) panelWidth() int {
	return m.width / 3
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.HighlightColor).Render("chaindemo")
	subtitle := styles.MutedStyle.Render(" · generate, secure, deploy")
	network := styles.MutedStyle.Render(m.ctrl.Payload().Network)

	left := title + subtitle
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(network), 1)
	return left + strings.Repeat(" ", gap) + network
}

func (m Model) renderFooter() string {
	helpView := m.help.ShortHelpView(keys.Demo.ShortHelp())
	if m.inputFocused {
		helpView = m.help.ShortHelpView([]key.Binding{keys.Demo.Submit, keys.Demo.Focus, keys.Demo.ForceQuit})
	}

	var badges []string
	if m.flags.Enabled(flags.FlagLegacyReset) {
		badges = append(badges, styles.WarningStyle.Render("legacy reset"))
	}
	if m.autoplay {
		badges = append(badges, styles.SuccessStyle.Render("autoplay"))
	}
	if m.debugMode {
		badges = append(badges, styles.KeyHintStyle.Render("ctrl+x logs"))
	}
	right := strings.Join(badges, styles.MutedStyle.Render(" · "))

	gap := max(m.width-lipgloss.Width(helpView)-lipgloss.Width(right), 1)
	return styles.StatusBarStyle.Render(helpView + strings.Repeat(" ", gap) + right)
}

func (m Model) renderAssistant(height int) string {
	width := m.panelWidth()
	return panes.ScrollablePane(width, height, panes.ScrollableConfig{
		Viewport:   m.chat,
		Title:      "AI Assistant",
		RightTitle: restartHint,
		Follow:     true,
	}, m.assistantContent)
}

func (m Model) assistantContent(wrapWidth int) string {
	var b []string
	b = append(b, styles.AssistantStyle.Render("AI ›")+" "+panes.WrapText(assistantGreeting, wrapWidth-5))

	if m.board.Visible(flow.RegionUserMessage) {
		b = append(b, "", styles.UserMessageStyle.Render("You ›")+" "+panes.WrapText(m.board.Text(flow.RegionUserMessage), wrapWidth-6))
	}

	if m.board.Visible(flow.RegionTypingIndicator) {
		b = append(b, "", m.spinner.View()+" "+styles.MutedStyle.Render(typingText))
	}

	if m.board.Visible(flow.RegionGeneratedCode) {
		b = append(b, "", styles.AssistantStyle.Render(codeIntro), m.code.Render(m.ctx, wrapWidth))
	}

	if m.board.Visible(flow.RegionProblemAlert) {
		alert := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(styles.StatusWarningColor).
			PaddingLeft(1).
			Width(wrapWidth - 1)
		b = append(b, "", alert.Render(styles.WarningStyle.Render(problemTitle)+"\n"+problemText))
	}

	if m.board.Visible(flow.RegionInputArea) {
		b = append(b, "", zone.Mark(zoneInput, m.input.View()))
	}

	if m.board.Visible(flow.RegionGenerateAction) {
		b = append(b, "", zone.Mark(zoneGenerate,
			button(m.board.Text(flow.RegionGenerateAction), m.board.Style(flow.RegionGenerateAction))))
	}

	return strings.Join(b, "\n")
}

func (m Model) renderOnchainOS(height int) string {
	width := m.panelWidth()
	inner := width - 2

	var b []string
	b = append(b, panes.WrapText(onchainOSIntro, inner))

	if m.board.Visible(flow.RegionSessionSection) {
		b = append(b, "", styles.SuccessStyle.Render(sessionTitle))
		for _, line := range sessionLines {
			b = append(b, styles.MutedStyle.Render(styles.TruncateString(line, inner)))
		}
	} else if !m.ctrl.Session().ContractGenerated {
		b = append(b, "", styles.MutedStyle.Render(waitingText))
	}

	if m.board.Visible(flow.RegionDeployAction) {
		b = append(b, "", zone.Mark(zoneDeploy,
			button(m.board.Text(flow.RegionDeployAction), m.board.Style(flow.RegionDeployAction))))
	}

	if m.board.Visible(flow.RegionProcessing) {
		b = append(b, "", styles.MutedStyle.Render(processTitle),
			m.spinner.View()+" "+panes.WrapText(m.board.Text(flow.RegionProcessText), inner-2))
	}

	return panes.BorderedPane(panes.BorderConfig{
		Content: strings.Join(b, "\n"),
		Width:   width,
		Height:  height,
		TopLeft: "OnchainOS",
		Style:   m.board.Style(flow.RegionOnchainOSPanel),
	})
}

func (m Model) renderResults(height int) string {
	width := m.width - 2*m.panelWidth()
	inner := width - 2

	var b []string
	if m.board.Visible(flow.RegionResultsPlace) {
		b = append(b, styles.MutedStyle.Render(resultsLegend+" "+m.board.Text(flow.RegionResultsPlace)))
	}

	if m.board.Visible(flow.RegionSuccessResults) {
		b = append(b, styles.SuccessStyle.Render(resultsTitle), "")
		field := func(label string, r flow.Region, zoneID string) {
			if !m.board.Visible(r) {
				return
			}
			value := m.board.Text(r)
			if value == "" {
				return
			}
			rendered := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Render(panes.WrapText(value, inner))
			if zoneID != "" {
				rendered = zone.Mark(zoneID, styles.LinkStyle.Render(panes.WrapText(value, inner)))
			}
			b = append(b, styles.MutedStyle.Render(label), rendered)
		}
		field("Class hash", flow.RegionClassHash, "")
		field("Contract", flow.RegionContractLink, zoneContractLink)
		field("Transaction", flow.RegionTxLink, zoneTxLink)

		gas := styles.MutedStyle.Render("Gas ") + m.board.Text(flow.RegionGasUsed) +
			styles.MutedStyle.Render("  Cost ") + m.board.Text(flow.RegionGasCost)
		b = append(b, "", gas, "", styles.KeyHintStyle.Render(panes.WrapText(copyHint, inner)), "",
			zone.Mark(zoneRestart, button("Restart Demo", flow.StyleNormal)))
	}

	return panes.BorderedPane(panes.BorderConfig{
		Content:     strings.Join(b, "\n"),
		Width:       width,
		Height:      height,
		TopLeft:     "Deployment Results",
		BottomRight: m.ctrl.Payload().Explorer,
		Style:       m.board.Style(flow.RegionResultsPanel),
	})
}

func (m Model) renderTips() string {
	width := min(m.width-8, 72)

	var b []string
	for _, tip := range PresenterTips() {
		b = append(b, styles.KeyHintStyle.Render(tip.Step), panes.WrapText(tip.Text, width-4), "")
	}
	b = append(b, m.help.FullHelpView(keys.Demo.FullHelp()), "", styles.MutedStyle.Render("esc close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render("Presenter tips") +
			"\n\n" + strings.Join(b, "\n"))
}

func button(label string, style flow.Style) string {
	switch style {
	case flow.StyleDisabled:
		return styles.ButtonDisabledStyle.Render(label)
	case flow.StyleSuccess:
		return styles.ButtonSuccessStyle.Render(label)
	default:
		return styles.ButtonNormalStyle.Render(label)
	}
}
