package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/repforge/internal/domain"
)

// FormatCatalog renders variants grouped by pattern in difficulty order.
func FormatCatalog(byPattern map[domain.MovementPattern][]domain.ExerciseVariant) string {
	var b strings.Builder
	headers := []string{"ID", "NAME", "DIFF", "WHERE", "EQUIPMENT", "STRESSES"}
	first := true
	for _, p := range domain.AllPatterns {
		variants, ok := byPattern[p]
		if !ok {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		b.WriteString(Header(string(p)) + "\n")
		rows := make([][]string, 0, len(variants))
		for _, v := range variants {
			eq := make([]string, 0, len(v.Equipment))
			for _, e := range v.Equipment {
				eq = append(eq, string(e))
			}
			rows = append(rows, []string{
				Dim(v.ID),
				v.Name,
				strconv.Itoa(v.Difficulty),
				string(v.Location),
				strings.Join(eq, ","),
				Dim(strings.Join(v.Stresses, ",")),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return b.String()
}
