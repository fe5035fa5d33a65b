package menu

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tracker-agent/internal/model"
)

func rowSizes(g Grid) []int {
	sizes := make([]int, len(g))
	for i, row := range g {
		sizes[i] = len(row)
	}
	return sizes
}

func TestBuild_RowWidth(t *testing.T) {
	items := make([]Button, 7)
	for i := range items {
		items[i] = Button{Label: "x", Token: Token{Kind: KindDate, Payload: "2024-01-01"}}
	}
	g := Build(items, 3)
	assert.Equal(t, []int{3, 3, 1, 1}, rowSizes(g))
	assert.Equal(t, Cancel, g[len(g)-1][0].Token)
	assert.Equal(t, CancelLabel, g[len(g)-1][0].Label)
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil, 3)
	require.Len(t, g, 1)
	assert.Equal(t, Cancel, g[0][0].Token)
}

func TestBuild_ZeroWidth(t *testing.T) {
	g := Build([]Button{{Label: "a"}, {Label: "b"}}, 0)
	assert.Equal(t, []int{1, 1, 1}, rowSizes(g))
}

func TestDatePicker(t *testing.T) {
	now := time.Date(2024, 1, 3, 22, 10, 0, 0, time.UTC)
	g := DatePicker(now)
	assert.Equal(t, []int{3, 3, 1, 1}, rowSizes(g))

	first := g[0][0]
	assert.Equal(t, "03/01/2024", first.Label)
	assert.Equal(t, Token{Kind: KindDate, Payload: "2024-01-03"}, first.Token)

	last := g[2][0]
	assert.Equal(t, "2023-12-28", last.Token.Payload)
}

func TestPerformancePicker(t *testing.T) {
	g := PerformancePicker()
	assert.Equal(t, []int{3, 3, 3, 3, 2, 1}, rowSizes(g))

	var got []int
	for _, b := range g.Buttons() {
		if b.Token.Kind != KindPerformance {
			continue
		}
		p, err := b.Token.Performance()
		require.NoError(t, err)
		got = append(got, p)
	}
	assert.Equal(t, model.Performances, got)
	assert.Equal(t, "25%", g[1][0].Label)
}

func TestQualityPicker(t *testing.T) {
	g := QualityPicker()
	assert.Equal(t, []int{2, 2, 1, 1}, rowSizes(g))
	assert.Equal(t, "Very Bad", g[0][0].Label)
	assert.Equal(t, "Very Good", g[2][0].Label)

	q, err := g[1][1].Token.Quality()
	require.NoError(t, err)
	assert.Equal(t, model.QualityGood, q)
}

func TestDisciplinePicker(t *testing.T) {
	g := DisciplinePicker([]string{"Math", "Physics", "Biology"})
	assert.Equal(t, []int{2, 1, 1, 1}, rowSizes(g))
	assert.Equal(t, KindNewDiscipline, g[2][0].Token.Kind)
	assert.Equal(t, Cancel, g[3][0].Token)

	i, err := g[1][0].Token.Index()
	require.NoError(t, err)
	assert.Equal(t, 2, i)
}

func TestDisciplinePicker_CapsAtFive(t *testing.T) {
	g := DisciplinePicker([]string{"a", "b", "c", "d", "e", "f", "g"})
	n := 0
	for _, b := range g.Buttons() {
		if b.Token.Kind == KindDiscipline {
			n++
		}
	}
	assert.Equal(t, MaxRecentDisciplines, n)
}

func TestToken_RoundTrip(t *testing.T) {
	grids := []Grid{
		DatePicker(time.Now()),
		PerformancePicker(),
		QualityPicker(),
		DisciplinePicker([]string{"Math"}),
	}
	for _, g := range grids {
		for _, b := range g.Buttons() {
			got, err := ParseToken(b.Token.Encode())
			require.NoError(t, err, b.Token.Encode())
			assert.Equal(t, b.Token, got)
		}
	}
}

func TestParseToken_Rejects(t *testing.T) {
	for _, s := range []string{"", "bogus", "bogus:1", "date", "perf:", "cancel:now", "disc_new:x", "disc:0@", "disc:0@x", "cancel@0"} {
		_, err := ParseToken(s)
		if !errors.Is(err, ErrUnknownToken) {
			t.Errorf("ParseToken(%q) error = %v, want ErrUnknownToken", s, err)
		}
	}
}

func TestToken_TypedAccessors(t *testing.T) {
	_, err := Token{Kind: KindPerformance, Payload: "33"}.Performance()
	assert.Error(t, err)

	_, err = Token{Kind: KindQuality, Payload: "awful"}.Quality()
	assert.Error(t, err)

	_, err = Token{Kind: KindDate, Payload: "01/01/2024"}.Date()
	assert.Error(t, err)

	_, err = Token{Kind: KindDate, Payload: "2024-01-01"}.Performance()
	assert.Error(t, err)

	d, err := Token{Kind: KindDate, Payload: "2024-01-01"}.Date()
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
}

func TestGrid_Scoped(t *testing.T) {
	g := DisciplinePicker([]string{"Math", "Physics"})
	scoped := g.Scoped(17)

	for _, b := range scoped.Buttons() {
		assert.Equal(t, uint64(17), b.Token.Session)

		got, err := ParseToken(b.Token.Encode())
		require.NoError(t, err, b.Token.Encode())
		assert.Equal(t, b.Token, got)
	}
	assert.Equal(t, "disc:1@17", scoped[0][1].Token.Encode())
	assert.Equal(t, "cancel@17", scoped[len(scoped)-1][0].Token.Encode())

	// the source grid is left untouched
	assert.Zero(t, g[0][0].Token.Session)
	assert.Nil(t, Grid(nil).Scoped(3))
}
