package marketdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"StratForge/internal/model"
)

// CSVSource reads bars from a CSV file with columns
// timestamp,open,high,low,close,volume. The timestamp is either a Unix epoch
// in seconds or milliseconds, or an RFC 3339 string. A header row is skipped
// when the first field does not parse as a timestamp.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (s *CSVSource) Name() string { return "csv:" + s.Path }

// Bars loads the whole file, sorts by timestamp and returns the trailing
// limit bars (all of them when limit <= 0). Symbol and timeframe are recorded
// by the caller; the file is assumed to already match them.
func (s *CSVSource) Bars(_, _ string, limit int) ([]model.Bar, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	bars := make([]model.Bar, 0, len(records))
	for i, rec := range records {
		ts, err := parseTimestamp(rec[0])
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		bar := model.Bar{Time: ts}
		fields := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i+1, j+2, err)
			}
			*dst = v
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(a, b int) bool { return bars[a].Time.Before(bars[b].Time) })
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		if epoch > 1e12 { // milliseconds
			return time.UnixMilli(epoch).UTC(), nil
		}
		return time.Unix(epoch, 0).UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return ts.UTC(), nil
}
