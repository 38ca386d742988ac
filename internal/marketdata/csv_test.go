package marketdata

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVSource_ParsesHeaderAndEpochs(t *testing.T) {
	path := writeFixture(t, "timestamp,open,high,low,close,volume\n"+
		"1700000000,100,101,99,100.5,1234\n"+
		"1700003600,100.5,102,100,101.5,2345\n")

	bars, err := NewCSVSource(path).Bars("BTCUSDT", "1h", 0)
	if err != nil {
		t.Fatalf("Bars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 100.5 || bars[1].High != 102 {
		t.Errorf("unexpected bar values: %+v", bars)
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars not in ascending order")
	}
}

func TestCSVSource_SortsAndLimits(t *testing.T) {
	path := writeFixture(t, "1700007200,103,104,102,103.5,1\n"+
		"1700000000,100,101,99,100.5,1\n"+
		"1700003600,100.5,102,100,101.5,1\n")

	bars, err := NewCSVSource(path).Bars("BTCUSDT", "1h", 2)
	if err != nil {
		t.Fatalf("Bars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 101.5 || bars[1].Close != 103.5 {
		t.Errorf("expected the trailing two bars in order, got %+v", bars)
	}
}

func TestCSVSource_RFC3339Timestamps(t *testing.T) {
	path := writeFixture(t, "2024-01-01T00:00:00Z,100,101,99,100.5,1\n")

	bars, err := NewCSVSource(path).Bars("BTCUSDT", "1h", 0)
	if err != nil {
		t.Fatalf("Bars: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
}

func TestCSVSource_BadRowIsAnError(t *testing.T) {
	path := writeFixture(t, "1700000000,100,101,99,not-a-number,1\n")
	if _, err := NewCSVSource(path).Bars("BTCUSDT", "1h", 0); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSyntheticSource_Deterministic(t *testing.T) {
	a, err := NewSyntheticSource(100, 42).Bars("BTCUSDT", "1h", 300)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSyntheticSource(100, 42).Bars("BTCUSDT", "1h", 300)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 300 || len(b) != 300 {
		t.Fatalf("expected 300 bars, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Close != b[i].Close {
			t.Fatalf("bar %d differs between identical seeds", i)
		}
	}
	for i := range a {
		if a[i].High < a[i].Low || a[i].High < a[i].Close || a[i].Low > a[i].Close {
			t.Fatalf("bar %d has inconsistent OHLC: %+v", i, a[i])
		}
		if i > 0 && !a[i].Time.After(a[i-1].Time) {
			t.Fatalf("bar %d timestamp not increasing", i)
		}
	}
}
