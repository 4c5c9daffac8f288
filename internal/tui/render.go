package tui

import (
	"fmt"
	"strings"

	"github.com/wodwise/gateway/internal/client"
	"github.com/wodwise/gateway/internal/coach"
)

// renders a parsed workout as markdown for glamour
func workoutMarkdown(workout *coach.ParsedWorkout, remaining int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", workout.WorkoutType)

	if workout.Rounds != nil {
		fmt.Fprintf(&b, "**Rounds:** %d\n\n", *workout.Rounds)
	}

	if workout.TimeCap != nil {
		fmt.Fprintf(&b, "**Time cap:** %.0f min\n\n", *workout.TimeCap)
	}

	for _, mv := range workout.Movements {
		fmt.Fprintf(&b, "- **%s** %s", mv.Name, mv.Reps)
		if mv.WeightRx != nil {
			fmt.Fprintf(&b, " (%s / %s)", mv.WeightRx.Male, mv.WeightRx.Female)
		}
		if mv.Notes != "" {
			fmt.Fprintf(&b, " _%s_", mv.Notes)
		}
		b.WriteString("\n")
	}

	if workout.Notes != "" {
		fmt.Fprintf(&b, "\n> %s\n", workout.Notes)
	}

	fmt.Fprintf(&b, "\nconfidence: %s | requests left today: %d\n", workout.Confidence, remaining)

	return b.String()
}

func strategyMarkdown(strategy *coach.WodStrategy, remaining int) string {
	var b strings.Builder

	b.WriteString("# Strategy\n\n")
	fmt.Fprintf(&b, "**Pacing:** %s\n\n", strategy.Pacing)
	fmt.Fprintf(&b, "**Estimated time:** %.0f-%.0f min\n\n", strategy.EstimatedTime.Min, strategy.EstimatedTime.Max)

	if len(strategy.Scaling) > 0 {
		b.WriteString("## Scaling\n\n")
		for _, s := range strategy.Scaling {
			fmt.Fprintf(&b, "- **%s**: %s instead of %s (%s)\n", s.Movement, s.Scaled, s.Original, s.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Set breakdowns\n\n")
	for _, sb := range strategy.SetBreakdowns {
		fmt.Fprintf(&b, "- **%s**: %s\n", sb.Movement, sb.Strategy)
	}

	if len(strategy.Tips) > 0 {
		b.WriteString("\n## Tips\n\n")
		for _, tip := range strategy.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}

	if len(strategy.Cautions) > 0 {
		b.WriteString("\n## Cautions\n\n")
		for _, caution := range strategy.Cautions {
			fmt.Fprintf(&b, "- %s\n", caution)
		}
	}

	if len(strategy.Substitutions) > 0 {
		b.WriteString("\n## Substitutions\n\n")
		for _, sub := range strategy.Substitutions {
			fmt.Fprintf(&b, "- **%s**:", sub.Movement)
			for _, opt := range sub.Options {
				fmt.Fprintf(&b, " %s (%s);", opt.Name, opt.Reason)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nrequests left today: %d\n", remaining)

	return b.String()
}

func usageMarkdown(info *client.UsageInfo) string {
	return fmt.Sprintf("# Usage\n\n**Tier:** %s\n\n**Today:** %d of %d used, %d remaining\n",
		info.Tier, info.Used, info.Limit, info.Remaining)
}
