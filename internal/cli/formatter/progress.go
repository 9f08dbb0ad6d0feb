package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/quorum/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  45%.
// The bar is colored by percentage: green from 66, yellow from 33, red below.
func RenderProgress(pct int, width int) string {
	pct = max(0, min(100, pct))
	width = max(2, width)

	filled := min(width, pct*width/100)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), pct)
}

// RenderQuota renders a subtask's approval quota as a bar plus counts,
// e.g. "[██░░] 50% 1/2 approvals".
func RenderQuota(p domain.Progress, width int) string {
	counts := fmt.Sprintf("%d/%d approvals", p.Completed, p.Required)
	if p.QuotaMet {
		counts = StyleGreen.Render(counts + " ✔")
	} else {
		counts = StyleFg.Render(counts)
	}
	return RenderProgress(p.Percent, width) + " " + counts
}
