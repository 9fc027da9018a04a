package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var ErrYieldNotFound = errors.New("yield not found")

// cell positions of the dividend yield on the two page layouts
const (
	stockYieldRow = 7
	stockYieldCol = 1
	etfYieldRow   = 5
	etfYieldCol   = 1
)

// parseStockYield extracts the yield from a stock info page. The target
// cell reads like "$0.96 (0.52%)"; the parenthesised percentage is the
// annualized yield.
func parseStockYield(body []byte) (float64, error) {
	cell, err := tableCell(body, stockYieldRow, stockYieldCol)
	if err != nil {
		return 0, err
	}

	for _, field := range strings.Fields(cell) {
		if !strings.HasSuffix(field, "%)") {
			continue
		}

		raw := strings.TrimSuffix(strings.TrimPrefix(field, "("), "%)")
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad percentage token %q", ErrYieldNotFound, field)
		}

		return pct / 100, nil
	}

	return 0, fmt.Errorf("%w: no percentage token in %q", ErrYieldNotFound, cell)
}

// parseETFYield extracts the yield from an ETF info page, where the cell is
// a bare percentage like "1.32%".
func parseETFYield(body []byte) (float64, error) {
	cell, err := tableCell(body, etfYieldRow, etfYieldCol)
	if err != nil {
		return 0, err
	}

	cell = strings.TrimSpace(cell)
	if !strings.HasSuffix(cell, "%") {
		return 0, fmt.Errorf("%w: cell %q is not a percentage", ErrYieldNotFound, cell)
	}

	pct, err := strconv.ParseFloat(strings.TrimSuffix(cell, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad percentage %q", ErrYieldNotFound, cell)
	}

	return pct / 100, nil
}

// tableCell parses the document and returns the text of the given cell of
// its first table.
func tableCell(body []byte, row, col int) (string, error) {
	tables, err := extractTables(body)
	if err != nil {
		return "", err
	}

	if len(tables) == 0 {
		return "", fmt.Errorf("%w: no tables in page", ErrYieldNotFound)
	}

	rows := tables[0]
	if row >= len(rows) {
		return "", fmt.Errorf("%w: table has %d rows, want row %d", ErrYieldNotFound, len(rows), row)
	}

	if col >= len(rows[row]) {
		return "", fmt.Errorf("%w: row %d has %d cells, want cell %d", ErrYieldNotFound, row, len(rows[row]), col)
	}

	return rows[row][col], nil
}

// extractTables walks the document and returns every <table> as rows of
// cell text.
func extractTables(body []byte) ([][][]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %v", err)
	}

	var tables [][][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, extractRows(n))
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tables, nil
}

func extractRows(table *html.Node) [][]string {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, nodeText(c))
				}
			}
			rows = append(rows, cells)
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return rows
}

func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}
