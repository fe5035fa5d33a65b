// Package menu builds the button grids offered to the user and the typed
// tokens behind each button.
package menu

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rcliao/tracker-agent/internal/model"
	"github.com/rcliao/tracker-agent/internal/timecalc"
)

const (
	// DatePickerDays is how many days, counting today, the date picker offers.
	DatePickerDays = 7
	// MaxRecentDisciplines caps the recent-discipline picker.
	MaxRecentDisciplines = 5

	CancelLabel        = "Cancel"
	NewDisciplineLabel = "Type a new one"
)

// Button is a labeled choice.
type Button struct {
	Label string
	Token Token
}

// Grid is a set of button rows.
type Grid [][]Button

// Buttons returns the buttons of g in reading order.
func (g Grid) Buttons() []Button {
	var out []Button
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// Scoped returns a copy of g whose tokens are bound to session.
func (g Grid) Scoped(session uint64) Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]Button, len(row))
		for j, b := range row {
			b.Token.Session = session
			out[i][j] = b
		}
	}
	return out
}

// Build lays items out in rows of at most width buttons and appends a row
// holding the cancel button.
func Build(items []Button, width int) Grid {
	return append(layout(items, width), cancelRow())
}

func layout(items []Button, width int) Grid {
	if width < 1 {
		width = 1
	}
	var grid Grid
	for start := 0; start < len(items); start += width {
		end := min(start+width, len(items))
		row := make([]Button, end-start)
		copy(row, items[start:end])
		grid = append(grid, row)
	}
	return grid
}

func cancelRow() []Button {
	return []Button{{Label: CancelLabel, Token: Cancel}}
}

// DatePicker offers today and the six days before it, three per row.
func DatePicker(now time.Time) Grid {
	var items []Button
	for _, d := range timecalc.RecentDays(now, DatePickerDays) {
		items = append(items, Button{
			Label: d.Format("02/01/2006"),
			Token: Token{Kind: KindDate, Payload: d.Format(timecalc.DateFormat)},
		})
	}
	return Build(items, 3)
}

// PerformancePicker offers the study performance percentages, three per row.
func PerformancePicker() Grid {
	items := make([]Button, 0, len(model.Performances))
	for _, p := range model.Performances {
		items = append(items, Button{
			Label: fmt.Sprintf("%d%%", p),
			Token: Token{Kind: KindPerformance, Payload: strconv.Itoa(p)},
		})
	}
	return Build(items, 3)
}

// QualityPicker offers the sleep quality levels, two per row.
func QualityPicker() Grid {
	items := make([]Button, 0, len(model.Qualities))
	for _, q := range model.Qualities {
		items = append(items, Button{
			Label: q.Label(),
			Token: Token{Kind: KindQuality, Payload: string(q)},
		})
	}
	return Build(items, 2)
}

// DisciplinePicker offers the given disciplines two per row, then a row to
// type a new one, then the cancel row. Tokens carry the index into
// disciplines; callers keep the slice to resolve the selection.
func DisciplinePicker(disciplines []string) Grid {
	if len(disciplines) > MaxRecentDisciplines {
		disciplines = disciplines[:MaxRecentDisciplines]
	}
	items := make([]Button, 0, len(disciplines))
	for i, d := range disciplines {
		items = append(items, Button{
			Label: d,
			Token: Token{Kind: KindDiscipline, Payload: strconv.Itoa(i)},
		})
	}
	grid := layout(items, 2)
	grid = append(grid, []Button{{Label: NewDisciplineLabel, Token: Token{Kind: KindNewDiscipline}}})
	return append(grid, cancelRow())
}
