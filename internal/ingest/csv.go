// Package ingest loads player season statistics from FBref-style CSV
// exports into a record store.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/scout/internal/domain/player"
)

// RowError describes a CSV line that could not be read.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// ErrMissingHeader is returned when the CSV lacks a required column.
var ErrMissingHeader = errors.New("csv header is missing a required column")

var requiredColumns = []string{"Player", "Pos"}

// row reads cells by header name.
type row struct {
	index  map[string]int
	fields []string
}

func (r row) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func clean(v string) (string, bool) {
	if v == "" || v == "," {
		return "", false
	}
	return strings.ReplaceAll(v, ",", ""), true
}

func (r row) float(col string) float64 {
	v, ok := clean(r.str(col))
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func (r row) integer(col string) int {
	return int(r.float(col))
}

// ParseCSV reads every row of src. Rows without a player name or position
// are skipped silently; malformed lines are reported as RowErrors. The
// returned error is set only when the input cannot be read at all.
func ParseCSV(src io.Reader) ([]*player.Record, []RowError, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingHeader, c)
		}
	}

	var (
		recs   []*player.Record
		errs   []RowError
		folder = newFolder()
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				errs = append(errs, RowError{Line: pe.Line, Err: pe.Err})
				continue
			}
			return recs, errs, fmt.Errorf("read csv: %w", err)
		}
		if rec := toRecord(row{index: index, fields: fields}, folder); rec != nil {
			recs = append(recs, rec)
		}
	}
	return recs, errs, nil
}

func toRecord(r row, folder *folder) *player.Record {
	name := r.str("Player")
	pos := r.str("Pos")
	if name == "" || pos == "" {
		return nil
	}
	rec := &player.Record{
		Rank:        r.integer("Rk"),
		Name:        name,
		LastName:    folder.lastName(name),
		Nation:      r.str("Nation"),
		Position:    pos,
		Squad:       r.str("Squad"),
		Competition: r.str("Comp"),
		Age:         r.float("Age"),
		BornYear:    r.integer("Born"),

		MatchesPlayed: r.integer("MP"),
		Starts:        r.integer("Starts"),
		Minutes:       r.integer("Min"),
		MinutesPer90:  r.float("90s"),

		Goals:               r.integer("Gls"),
		Assists:             r.integer("Ast"),
		GoalsAssists:        r.integer("G+A"),
		GoalsMinusPenalties: r.integer("G-PK"),
		PenaltiesScored:     r.integer("PK"),
		PenaltiesAttempted:  r.integer("PKatt"),

		YellowCards: r.integer("CrdY"),
		RedCards:    r.integer("CrdR"),

		ExpectedGoals:           r.float("xG"),
		ExpectedGoalsNonPenalty: r.float("npxG"),
		ExpectedAssists:         r.float("xAG"),

		Shots:                   r.integer("Sh"),
		ShotsOnTarget:           r.integer("SoT"),
		ShotsOnTargetPercentage: r.float("SoT%"),
		ShotsPer90:              r.float("Sh/90"),
		ShotsOnTargetPer90:      r.float("SoT/90"),

		PassesCompleted:          r.integer("Cmp"),
		PassesAttempted:          r.integer("Att"),
		PassCompletionPercentage: r.float("Cmp%"),
		KeyPasses:                r.integer("KP"),

		Tackles:       r.integer("Tkl"),
		TacklesWon:    r.integer("TklW"),
		Interceptions: r.integer("Int"),
		Blocks:        r.integer("Sh_stats_defense"),
		Clearances:    r.integer("Clr"),

		Touches:                  r.integer("Touches"),
		DribblesAttempted:        r.integer("Att_stats_possession"),
		DribblesSuccessful:       r.integer("Succ"),
		DribbleSuccessPercentage: r.float("Succ%"),
		ProgressiveCarries:       r.integer("PrgC"),
		ProgressivePasses:        r.integer("PrgP"),
		ProgressiveReceptions:    r.integer("PrgR"),
	}
	if strings.EqualFold(pos, "GK") {
		ga, ga90, sota := r.float("GA"), r.float("GA90"), r.integer("SoTA")
		saves, savePct, cs := r.integer("Saves"), r.float("Save%"), r.integer("CS")
		rec.GoalsAgainst = &ga
		rec.GoalsAgainstPer90 = &ga90
		rec.ShotsFaced = &sota
		rec.Saves = &saves
		rec.SavePercentage = &savePct
		rec.CleanSheets = &cs
	}
	return rec
}

// folder strips accents and any remaining non-ASCII runes.
type folder struct {
	t transform.Transformer
}

func newFolder() *folder {
	return &folder{t: transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)}
}

func (f *folder) lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return ""
	}
	out, _, err := transform.String(f.t, parts[len(parts)-1])
	if err != nil {
		return strings.ToLower(parts[len(parts)-1])
	}
	return strings.ToLower(out)
}

// FoldLastName returns the ascii-folded, lower-cased last word of a full
// name, used as the alphabetical sort key.
func FoldLastName(full string) string {
	return newFolder().lastName(full)
}
