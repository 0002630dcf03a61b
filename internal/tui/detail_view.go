package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/confirmvotes/internal/record"
	"github.com/rshade/confirmvotes/internal/views"
)

const (
	barRune        = "█"
	minBarWidth    = 10
	maxLinkHotkeys = 9
)

// barSegments splits width cells among ayes, nays, absent, and excused in
// proportion to the tally. Rounding remainders go to the largest fractions
// so the segments always fill width exactly.
func barSegments(t record.Tally, width int) [4]int {
	var out [4]int
	total := t.Total()
	if total == 0 || width <= 0 {
		return out
	}

	counts := [4]int{t.Ayes, t.Nays, t.Absent, t.Excused}
	var rem [4]int
	used := 0
	for i, c := range counts {
		out[i] = c * width / total
		rem[i] = c * width % total
		used += out[i]
	}
	for ; used < width; used++ {
		best := 0
		for i := range rem {
			if rem[i] > rem[best] {
				best = i
			}
		}
		out[best]++
		rem[best] = -1
	}
	return out
}

// VoteBar renders a tally as a colored horizontal bar with a legend.
func VoteBar(t record.Tally, width int) string {
	if t.Total() == 0 {
		return SubtleStyle.Render("No votes recorded.")
	}
	width = max(width, minBarWidth)
	seg := barSegments(t, width)
	styles := [4]func(...string) string{AyeStyle.Render, NayStyle.Render, AbsentStyle.Render, ExcusedStyle.Render}

	var bar strings.Builder
	for i, n := range seg {
		if n > 0 {
			bar.WriteString(styles[i](strings.Repeat(barRune, n)))
		}
	}

	legend := fmt.Sprintf("%s %d (%.0f%%)  %s %d (%.0f%%)  %s %d  %s %d",
		AyeStyle.Render("Aye"), t.Ayes, t.Percent(t.Ayes),
		NayStyle.Render("Nay"), t.Nays, t.Percent(t.Nays),
		AbsentStyle.Render("Absent"), t.Absent,
		ExcusedStyle.Render("Excused"), t.Excused)

	return bar.String() + "\n" + legend
}

// renderDetailCard renders the header card of an entity page: title,
// photo link, resolved links with their hotkeys, and the vote bar.
func renderDetailCard(d *views.Detail, width int) string {
	if d == nil || !d.Found {
		return CriticalStyle.Render("Record not found.")
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(d.Title))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render(string(d.Kind) + " " + d.Record.ID))
	content.WriteString("\n")

	if d.PhotoURL != "" {
		content.WriteString(LabelStyle.Render("Photo: "))
		content.WriteString(LinkStyle.Render(d.PhotoURL))
		content.WriteString("\n")
	}
	writeLinks(&content, d.Links)

	if d.Tally != nil {
		content.WriteString("\n")
		content.WriteString(VoteBar(*d.Tally, width-borderPadding*2))
		content.WriteString("\n")
	}

	return BoxStyle.Width(max(width-borderPadding, minBarWidth)).Render(strings.TrimRight(content.String(), "\n"))
}

func writeLinks(b *strings.Builder, links []views.LinkSummary) {
	for i, l := range links {
		hotkey := "   "
		if i < maxLinkHotkeys {
			hotkey = fmt.Sprintf("[%d]", i+1)
		}
		b.WriteString(SubtleStyle.Render(hotkey) + " ")
		b.WriteString(LabelStyle.Render(l.Label + ": "))
		b.WriteString(LinkStyle.Render(l.Text))
		b.WriteString("\n")
	}
}

// recordLinks flattens the link targets of a record page in field order.
func recordLinks(p *views.RecordPage) []views.LinkSummary {
	var out []views.LinkSummary
	for _, f := range p.Fields {
		out = append(out, f.Links...)
	}
	return out
}

// renderRecordPage renders every field of a generic record.
func renderRecordPage(p *views.RecordPage, width int) string {
	if p == nil || !p.Found {
		return CriticalStyle.Render("Record not found.")
	}

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(p.Title))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render(p.Table + " " + p.ID))
	content.WriteString("\n\n")

	labelWidth := 0
	for _, f := range p.Fields {
		labelWidth = max(labelWidth, len(f.Name))
	}

	hotkey := 0
	for _, f := range p.Fields {
		content.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s  ", labelWidth, f.Name)))
		if len(f.Links) == 0 {
			content.WriteString(ValueStyle.Render(truncate(f.Value.Text(), width-labelWidth-borderPadding*2)))
			content.WriteString("\n")
			continue
		}
		parts := make([]string, len(f.Links))
		for i, l := range f.Links {
			hotkey++
			parts[i] = LinkStyle.Render(l.Text)
			if hotkey <= maxLinkHotkeys {
				parts[i] = SubtleStyle.Render(fmt.Sprintf("[%d]", hotkey)) + " " + parts[i]
			}
		}
		content.WriteString(strings.Join(parts, ", "))
		content.WriteString("\n")
	}
	return strings.TrimRight(content.String(), "\n")
}
