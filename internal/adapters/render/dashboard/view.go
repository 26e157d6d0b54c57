package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/bizweb-cli/internal/application"
	"github.com/bnema/bizweb-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	planBarWidth  = 24
	usageBarWidth = 20
	dateLayout    = "02 Jan 2006"
)

const degradedNotice = "Some account data could not be read; figures below may be incomplete."

type RenderOptions struct {
	Now time.Time
	// Width truncates every line to the terminal width. Zero disables it.
	Width int
}

func renderView(d application.Dashboard, opts RenderOptions, s styles) string {
	now := opts.Now
	if now.IsZero() {
		now = d.GeneratedAt
	}

	blocks := []string{headerBlock(d, s)}
	if d.Degraded {
		blocks = append(blocks, s.warning.Render(degradedNotice))
	}

	blocks = append(blocks,
		s.section.Render(s.key.Render("Credits: ")+s.detail.Render(formatNumber(d.Credits))),
		s.section.Render(planBlock(d.Plan, now, s)),
		s.section.Render(usageBlock(d.Usage, d.UsageTotal, s)),
		s.section.Render(transactionsBlock(d.Transactions, s)),
	)

	return truncateLines(lipgloss.JoinVertical(lipgloss.Left, blocks...), opts.Width)
}

func headerBlock(d application.Dashboard, s styles) string {
	greeting := d.FirstName
	if strings.TrimSpace(greeting) == "" {
		greeting = d.Name
	}

	name := s.name.Render("Welcome back, " + greeting)
	if d.IsAdmin {
		name = lipgloss.JoinHorizontal(lipgloss.Top, name, " ", s.badge.Render("[admin]"))
	}

	lines := []string{s.title.Render("BizWeb Dashboard"), name}
	if d.Email != "" {
		lines = append(lines, s.header.Render(d.Email))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func planBlock(plan *application.PlanView, now time.Time, s styles) string {
	if plan == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.heading.Render("Subscription"),
			s.empty.Render("No active plan."),
		)
	}

	title := fmt.Sprintf("%s %s", plan.Name, priceLabel(plan))
	lines := []string{
		s.heading.Render("Subscription"),
		s.detail.Render(title) + " " + s.meta.Render("auto-renew: "+onOff(plan.AutoRenew)),
	}

	if plan.ActivatedAt.IsZero() || plan.ExpiresAt.IsZero() {
		lines = append(lines, s.empty.Render("Plan dates unavailable."))
	} else {
		bar := renderProgressBar(plan.TimeRemainingPercent, planBarWidth, s)
		lines = append(lines,
			lipgloss.JoinHorizontal(lipgloss.Top,
				s.key.Render("time left:"), " ", bar, " ",
				lipgloss.NewStyle().Foreground(interpolateColor(plan.TimeRemainingPercent, 0, 100)).
					Render(fmt.Sprintf("%2.0f%%", plan.TimeRemainingPercent)),
			),
			s.meta.Render(fmt.Sprintf("%s remaining, active for %s",
				pluralDays(plan.DaysRemaining), pluralDays(plan.DaysSinceActivation))),
			s.meta.Render(fmt.Sprintf("activated %s, %s %s",
				plan.ActivatedAt.Format(dateLayout), expiryVerb(plan.ExpiresAt, now), plan.ExpiresAt.Format(dateLayout))),
		)
	}

	if len(plan.Features) > 0 {
		lines = append(lines, s.meta.Render("features: "+strings.Join(plan.Features, ", ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func usageBlock(slices []domain.UsageSlice, total int64, s styles) string {
	lines := []string{s.heading.Render("Usage (total " + domain.CompactCount(total) + ")")}

	if len(slices) == 1 && slices[0].Placeholder {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render(slices[0].Label))...)
	}

	labelWidth := 0
	for _, slice := range slices {
		labelWidth = max(labelWidth, ansi.StringWidth(slice.Label))
	}

	for _, slice := range slices {
		share := 0.0
		if total > 0 {
			share = float64(slice.Value) / float64(total) * 100
		}
		label := slice.Label + strings.Repeat(" ", labelWidth-ansi.StringWidth(slice.Label))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.usageStyle(slice.ColorKey).Render("●"), " ",
			s.key.Render(label), " ",
			renderShareBar(share, usageBarWidth, s.usageStyle(slice.ColorKey), s), " ",
			s.detail.Render(fmt.Sprintf("%d", slice.Value)), " ",
			s.meta.Render(fmt.Sprintf("(%.0f%%)", share)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func transactionsBlock(transactions []application.TransactionView, s styles) string {
	lines := []string{s.heading.Render("Transactions")}
	if len(transactions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No transactions yet."))...)
	}

	for _, tx := range transactions {
		style := s.statusStyle(tx.StatusKind)
		fields := []string{
			style.Render(statusIcon(tx.StatusKind)),
			s.meta.Render(formatDate(tx.CreatedAt)),
			s.detail.Render(transactionLabel(tx)),
			s.detail.Render(formatAmount(tx.Amount, tx.Currency)),
		}
		if tx.CreditsPurchased != nil {
			fields = append(fields, s.meta.Render(fmt.Sprintf("+%d credits", *tx.CreditsPurchased)))
		}
		if tx.PaymentType != "" {
			fields = append(fields, s.meta.Render("via "+tx.PaymentType))
		}
		fields = append(fields, style.Render(statusText(tx)))
		lines = append(lines, strings.Join(fields, "  "))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	return renderShareBar(leftPercent, width, s.barFill, s)
}

func renderShareBar(percent float64, width int, fill lipgloss.Style, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func truncateLines(view string, width int) string {
	if width <= 0 {
		return view
	}

	lines := strings.Split(view, "\n")
	for i := range lines {
		lines[i] = ansi.Truncate(lines[i], width, "...")
	}
	return strings.Join(lines, "\n")
}

func priceLabel(plan *application.PlanView) string {
	switch plan.Cadence {
	case domain.CadenceAnnual:
		return fmt.Sprintf("(annual, %s/yr)", formatNumber(plan.Price))
	default:
		return fmt.Sprintf("(monthly, %s/mo)", formatNumber(plan.Price))
	}
}

func transactionLabel(tx application.TransactionView) string {
	parts := make([]string, 0, 2)
	if tx.PurchaseType != "" {
		parts = append(parts, tx.PurchaseType)
	}
	if tx.PlanName != "" {
		parts = append(parts, tx.PlanName)
	}
	if len(parts) == 0 {
		return "purchase"
	}
	return strings.Join(parts, " ")
}

func statusIcon(kind domain.TransactionStatus) string {
	switch kind {
	case domain.TransactionSuccess:
		return "✓"
	case domain.TransactionFailure:
		return "✗"
	case domain.TransactionPending:
		return "…"
	default:
		return "?"
	}
}

func statusText(tx application.TransactionView) string {
	if tx.Status == "" {
		return string(domain.TransactionUnknown)
	}
	return strings.ToLower(tx.Status)
}

func formatAmount(amount float64, currency string) string {
	value := strconv.FormatFloat(amount, 'f', 2, 64)
	if currency == "" {
		return value
	}
	return value + " " + strings.ToUpper(currency)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format(dateLayout)
}

func expiryVerb(expiresAt, now time.Time) string {
	if !now.IsZero() && expiresAt.Before(now) {
		return "expired"
	}
	return "expires"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// interpolateColor walks the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(strconv.Itoa(int(240 + 15*normalized)))
}
