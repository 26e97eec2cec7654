// Package report renders hit point statistics as text tables, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hpdist/internal/game/hitpoints"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Options controls rendering.
type Options struct {
	// Format is one of FormatTable, FormatJSON, FormatYAML.
	Format string
	// Locale is a BCP 47 tag used for digit grouping in tables. Empty means en-US.
	Locale string
	// Title heads the report, typically the character name.
	Title string
	// Percentile, when non-nil, adds the smallest total reaching that
	// cumulative percentage to the report.
	Percentile *decimal.Decimal
}

// Row is the serialized form of hitpoints.Row. Exact values are strings so
// nothing is lost to floating point.
type Row struct {
	Total             int    `json:"total" yaml:"total"`
	Count             string `json:"count" yaml:"count"`
	CumulativePercent string `json:"cumulative_percent" yaml:"cumulative_percent"`
	TailPercent       string `json:"tail_percent" yaml:"tail_percent"`
	TailChance        string `json:"tail_chance" yaml:"tail_chance"`
}

// Percentile is the serialized answer to a percentile query.
type Percentile struct {
	Percent string `json:"percent" yaml:"percent"`
	Total   int    `json:"total" yaml:"total"`
}

// Document is the serialized form of hitpoints.Statistics.
type Document struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	MaxLevel      int    `json:"max_level" yaml:"max_level"`
	Worst         int    `json:"worst" yaml:"worst"`
	Best          int    `json:"best" yaml:"best"`
	Mean          string `json:"mean" yaml:"mean"`
	MeanDecimal   string `json:"mean_decimal" yaml:"mean_decimal"`
	TotalCount    string `json:"total_count" yaml:"total_count"`
	DecimalPlaces int32  `json:"decimal_places" yaml:"decimal_places"`
	Rows          []Row  `json:"rows" yaml:"rows"`

	Percentile *Percentile `json:"percentile,omitempty" yaml:"percentile,omitempty"`
}

// NewDocument converts s into its serialized form.
//
// Postcondition: len(result.Rows) == len(s.Rows), in the same order.
func NewDocument(title string, s hitpoints.Statistics) Document {
	places := s.DecimalPlaces
	rows := make([]Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, Row{
			Total:             r.Total,
			Count:             r.Count.String(),
			CumulativePercent: r.CumulativePercent.StringFixed(places),
			TailPercent:       r.TailPercent.StringFixed(places),
			TailChance:        r.TailChance.String(),
		})
	}
	return Document{
		Title:         title,
		MaxLevel:      s.MaxLevel,
		Worst:         s.Worst,
		Best:          s.Best,
		Mean:          s.Mean.String(),
		MeanDecimal:   s.MeanDecimal(places).StringFixed(places),
		TotalCount:    s.TotalCount.String(),
		DecimalPlaces: places,
		Rows:          rows,
	}
}

// Render writes s to w in the format selected by opts.
//
// Precondition: s must come from hitpoints.Distribution.Statistics.
// Postcondition: Returns nil after writing the full report, or a non-nil error.
func Render(w io.Writer, s hitpoints.Statistics, opts Options) error {
	doc := NewDocument(opts.Title, s)
	if opts.Percentile != nil {
		total, err := s.Percentile(*opts.Percentile)
		if err != nil {
			return fmt.Errorf("computing percentile: %w", err)
		}
		doc.Percentile = &Percentile{Percent: opts.Percentile.String(), Total: total}
	}
	switch opts.Format {
	case FormatTable, "":
		return renderTable(w, doc, s, opts.Locale)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

func renderTable(w io.Writer, doc Document, s hitpoints.Statistics, locale string) error {
	if locale == "" {
		locale = "en-US"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	p := message.NewPrinter(tag)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if doc.Title != "" {
		p.Fprintf(tw, "%s (levels 1-%d)\n", doc.Title, doc.MaxLevel)
	}
	p.Fprintf(tw, "Worst case:\t%d\n", doc.Worst)
	p.Fprintf(tw, "Best case:\t%d\n", doc.Best)
	p.Fprintf(tw, "Average:\t%s (%s)\n", doc.Mean, doc.MeanDecimal)
	p.Fprintf(tw, "Combinations:\t%s\n", groupInt(p, s.TotalCount))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "HP\tCount\tCumulative %\tChance >= HP %\tChance >= HP\t\n")
	for i, r := range doc.Rows {
		p.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			r.Total,
			groupInt(p, s.Rows[i].Count),
			r.CumulativePercent,
			r.TailPercent,
			r.TailChance,
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing report table: %w", err)
	}
	if doc.Percentile != nil {
		if _, err := p.Fprintf(w, "\n%s percentile: %d HP\n", doc.Percentile.Percent, doc.Percentile.Total); err != nil {
			return fmt.Errorf("writing report percentile: %w", err)
		}
	}
	return nil
}

// groupInt formats n with the locale's digit grouping when it fits in an int64.
func groupInt(p *message.Printer, n *big.Int) string {
	if n.IsInt64() {
		return p.Sprintf("%d", n.Int64())
	}
	return n.String()
}
