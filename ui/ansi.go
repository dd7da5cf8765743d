package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ANSI renders s for a terminal: SGR sequences for its styles and OSC 8
// sequences around its hyperlinks.
func (s StyledString) ANSI() string {
	var hyperlinks []Link
	cuts := []int{0, len(s.string)}
	for _, rs := range s.styles {
		cuts = append(cuts, rs.Start)
	}
	for _, l := range s.links {
		if l.Kind == SpanHyperlink {
			hyperlinks = append(hyperlinks, l)
			cuts = append(cuts, l.Start, l.End)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	var sb strings.Builder
	current := tcell.StyleDefault
	var link *Link
	for i, cut := range cuts {
		if link != nil && link.End <= cut {
			sb.WriteString(osc8(""))
			link = nil
		}
		if cut == len(s.string) {
			break
		}

		if st := s.StyleAt(cut); st != current {
			sb.WriteString(sgr(st))
			current = st
		}
		if link == nil {
			for j := range hyperlinks {
				if hyperlinks[j].Start == cut {
					link = &hyperlinks[j]
					sb.WriteString(osc8(link.Target))
					break
				}
			}
		}
		sb.WriteString(s.string[cut:cuts[i+1]])
	}
	if current != tcell.StyleDefault {
		sb.WriteString(sgr(tcell.StyleDefault))
	}
	return sb.String()
}

func sgr(st tcell.Style) string {
	fg, bg, attrs := st.Decompose()
	params := []string{"0"}
	if attrs&tcell.AttrBold != 0 {
		params = append(params, "1")
	}
	if attrs&tcell.AttrItalic != 0 {
		params = append(params, "3")
	}
	if attrs&tcell.AttrUnderline != 0 {
		params = append(params, "4")
	}
	if fg != tcell.ColorDefault {
		r, g, b := fg.RGB()
		params = append(params, fmt.Sprintf("38;2;%d;%d;%d", r, g, b))
	}
	if bg != tcell.ColorDefault {
		r, g, b := bg.RGB()
		params = append(params, fmt.Sprintf("48;2;%d;%d;%d", r, g, b))
	}
	if len(params) == 1 {
		return "\x1b[0m"
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

func osc8(url string) string {
	return "\x1b]8;;" + url + "\x1b\\"
}
