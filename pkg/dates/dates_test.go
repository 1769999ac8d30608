package dates_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/dates"
)

var base = time.Date(2024, time.March, 9, 7, 5, 3, 0, time.UTC)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"":                    "2024-03-09",
		"YYYY/MM/DD HH:mm:ss": "2024/03/09 07:05:03",
		"YY.MM.DD":            "24.03.09",
		"DD MM":               "09 03",
	}
	for layout, want := range cases {
		if got := dates.Format(base, layout); got != want {
			t.Fatalf("Format(%q) = %q, want %q", layout, got, want)
		}
	}

	early := map[int]string{5: "05-01-02", 10: "10-01-02", 1905: "05-01-02", -3: "03-01-02"}
	got := make(map[int]string, len(early))
	for year := range early {
		got[year] = dates.Format(time.Date(year, time.January, 2, 0, 0, 0, 0, time.UTC), "YY-MM-DD")
	}
	if diff := cmp.Diff(early, got); diff != "" {
		t.Fatalf("short year mismatch (-want +got):\n%s", diff)
	}

	if got := dates.Format(time.Time{}, ""); got != "" {
		t.Fatalf("zero time must format empty, got %q", got)
	}
}

func TestRelative(t *testing.T) {
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "刚刚"},
		{5 * time.Minute, "5分钟前"},
		{3 * time.Hour, "3小时前"},
		{2 * 24 * time.Hour, "2天前"},
		{65 * 24 * time.Hour, "2个月前"},
		{800 * 24 * time.Hour, "2年前"},
		{-time.Hour, "刚刚"},
	}
	for _, tc := range cases {
		if got := dates.Relative(base.Add(-tc.ago), base); got != tc.want {
			t.Fatalf("Relative(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
	if got := dates.RelativeWith(base.Add(-90*time.Minute), base, dates.EnglishLabels()); got != "1 hours ago" {
		t.Fatalf("got %q", got)
	}
}

func TestIsTodayAndYesterday(t *testing.T) {
	if !dates.IsToday(base.Add(-time.Hour), base) {
		t.Fatalf("expected today")
	}
	if dates.IsToday(base.AddDate(0, 0, -1), base) {
		t.Fatalf("yesterday is not today")
	}
	if !dates.IsYesterday(base.AddDate(0, 0, -1), base) {
		t.Fatalf("expected yesterday")
	}
	if dates.IsToday(time.Time{}, base) || dates.IsYesterday(time.Time{}, base) {
		t.Fatalf("zero time is neither today nor yesterday")
	}
}

func TestRange(t *testing.T) {
	got := dates.Range(base, base.AddDate(0, 0, 2))
	want := []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
	if dates.Range(base, base.AddDate(0, 0, -1)) != nil {
		t.Fatalf("expected nil for inverted range")
	}
}

func TestMonthBounds(t *testing.T) {
	leap := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	if got := dates.FirstDayOfMonth(leap); !got.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first day: %v", got)
	}
	if got := dates.LastDayOfMonth(leap); !got.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last day: %v", got)
	}
	if got := dates.AddDays(leap, 20); got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("add days: %v", got)
	}
}
