package highlight

import "sort"

// BuildLegend returns one entry per distinct representative label across
// highlights, ordered by descending frequency and then label. It must run
// after every highlight of the document exists.
func BuildLegend(highlights []Highlight, palette *Palette) ([]LegendEntry, error) {
	counts := make(map[string]int)
	for _, h := range highlights {
		counts[h.Label]++
	}

	legend := make([]LegendEntry, 0, len(counts))
	for label, n := range counts {
		swatch, err := palette.Lookup(label)
		if err != nil {
			return nil, err
		}
		legend = append(legend, LegendEntry{
			Label:       label,
			Color:       swatch.Color,
			Description: swatch.Description,
			Count:       n,
		})
	}

	sort.Slice(legend, func(i, j int) bool {
		if legend[i].Count != legend[j].Count {
			return legend[i].Count > legend[j].Count
		}
		return legend[i].Label < legend[j].Label
	})
	return legend, nil
}

//Personal.AI order the ending
