package odds

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in       string
		expected float64
		ok       bool
	}{
		{in: "1.25", expected: 1.25, ok: true},
		{in: "1,25", expected: 1.25, ok: true},
		{in: " 2.10 ", expected: 2.10, ok: true},
		{in: "221,5", expected: 221.5, ok: true},
		{in: "abc", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		v, ok := ParseDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.expected, v, 1e-9)
		}
	}
}

func TestParseMatchOddsFromCells(t *testing.T) {
	html := `<html><body>
		<table><tr>
			<td class="odds-cell">1,22</td>
			<td class="odds-cell">4.50</td>
		</tr></table>
		<div>O/U 224.5</div>
	</body></html>`

	odds := ParseMatchOdds(docFromHTML(t, html), "Lakers", "Celtics")
	require.NotNil(t, odds)

	assert.InDelta(t, 1.22, odds.HomeOdds, 1e-9)
	assert.InDelta(t, 4.50, odds.AwayOdds, 1e-9)
	assert.InDelta(t, 1.22, odds.FavoriteOdds(), 1e-9)

	require.NotNil(t, odds.Total)
	assert.InDelta(t, 224.5, *odds.Total, 1e-9)
}

func TestParseMatchOddsTextFallback(t *testing.T) {
	html := `<html><body>
		<p>Lakers to win 1.35, Celtics to win 3.20</p>
	</body></html>`

	odds := ParseMatchOdds(docFromHTML(t, html), "Lakers", "Celtics")
	require.NotNil(t, odds)
	assert.InDelta(t, 1.35, odds.HomeOdds, 1e-9)
	assert.InDelta(t, 3.20, odds.AwayOdds, 1e-9)
	assert.Nil(t, odds.Total)
}

func TestParseMatchOddsNothingFound(t *testing.T) {
	html := `<html><body><p>no sports content here</p></body></html>`
	assert.Nil(t, ParseMatchOdds(docFromHTML(t, html), "Lakers", "Celtics"))
}

func TestFavoriteOdds(t *testing.T) {
	assert.InDelta(t, 1.5, (&MatchOdds{HomeOdds: 2.4, AwayOdds: 1.5}).FavoriteOdds(), 1e-9)
	assert.InDelta(t, 1.9, (&MatchOdds{HomeOdds: 1.9}).FavoriteOdds(), 1e-9)
	assert.InDelta(t, 2.1, (&MatchOdds{AwayOdds: 2.1}).FavoriteOdds(), 1e-9)
	assert.Zero(t, (&MatchOdds{}).FavoriteOdds())
}
