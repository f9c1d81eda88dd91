package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gridironlab/nflstats/internal/stats"
)

// tableSelector identifies the single data table on an advanced-stats page.
const tableSelector = "table#data"

// Table is the raw extraction result: an ordered header and string-only rows
// aligned to it. Row order is the page's ranking order and is preserved.
type Table struct {
	Header []string
	Rows   [][]string
}

// Extract locates the stats table in the fetched markup and returns its
// header and data rows as strings. The first two page columns expand into
// three logical columns: Rank, Player and Team (the player cell carries the
// team code in a <small> tag).
func Extract(markup string, category stats.Category) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &stats.ParseError{Category: category, Reason: "invalid markup: " + err.Error()}
	}

	tables := doc.Find(tableSelector)
	switch tables.Length() {
	case 0:
		return nil, &stats.ParseError{Category: category, Reason: "no stats table found"}
	case 1:
	default:
		return nil, &stats.ParseError{Category: category, Reason: "multiple stats tables found"}
	}
	table := tables.First()

	header, err := extractHeader(table, category)
	if err != nil {
		return nil, err
	}

	rows, err := extractRows(table, header, category)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &stats.ParseError{Category: category, Reason: "table has no data rows"}
	}

	return &Table{Header: header, Rows: rows}, nil
}

// extractHeader reads column names from the second <thead> row. The first
// row only carries category groupings. Stat columns are named by the
// abbreviation in their <small> tag, falling back to the <th> text.
func extractHeader(table *goquery.Selection, category stats.Category) ([]string, error) {
	headerRows := table.Find("thead tr")
	if headerRows.Length() < 2 {
		return nil, &stats.ParseError{Category: category, Reason: "unexpected header structure"}
	}

	header := []string{"Rank", "Player", "Team"}
	headerRows.Eq(1).Find("th").Each(func(i int, th *goquery.Selection) {
		if i < 2 {
			return // rank and player columns already covered
		}
		name := th.Find("small").First().Text()
		if name == "" {
			name = th.Text()
		}
		header = append(header, collapseSpace(name))
	})

	return header, nil
}

// extractRows reads the <tbody> rows, splitting the player-label cell into
// player name and team code.
func extractRows(table *goquery.Selection, header []string, category stats.Category) ([][]string, error) {
	var rows [][]string
	var arityErr error

	table.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			arityErr = &stats.ParseError{Category: category, Reason: "data row with fewer than two cells"}
			return false
		}

		row := make([]string, 0, cells.Length()+1)
		row = append(row, strings.TrimSpace(cells.Eq(0).Text()))
		row = append(row, splitPlayerCell(cells.Eq(1))...)
		cells.Slice(2, cells.Length()).Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})

		if len(row) != len(header) {
			arityErr = &stats.ParseError{Category: category, Reason: "row cell count does not match header"}
			return false
		}
		rows = append(rows, row)
		return true
	})

	if arityErr != nil {
		return nil, arityErr
	}
	return rows, nil
}

// splitPlayerCell returns the player name and team code from the combined
// player-label cell. The team code sits in a <small> tag wrapped in
// parentheses.
func splitPlayerCell(cell *goquery.Selection) []string {
	if !cell.HasClass("player-label") {
		return []string{"", ""}
	}
	player := strings.TrimSpace(cell.Find("a").First().Text())
	team := strings.TrimSpace(cell.Find("small").First().Text())
	team = strings.Trim(team, "()")
	return []string{player, team}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
