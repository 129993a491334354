package anime_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Venipa/taiga/internal/anime"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		want  anime.Date
	}{
		{"", anime.Date{}},
		{"2018", anime.Date{Year: 2018}},
		{"2018-04", anime.Date{Year: 2018, Month: 4}},
		{"2018-04-07", anime.Date{Year: 2018, Month: 4, Day: 7}},
		{"2018-00-00", anime.Date{Year: 2018}},
	}
	for _, tc := range cases {
		got, err := anime.ParseDate(tc.input)
		if err != nil {
			t.Fatalf("ParseDate(%q) returned error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
	for _, input := range []string{"18-13", "2018-04-07-01", "abcd", "2018-04-40"} {
		if _, err := anime.ParseDate(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestItemIsMature(t *testing.T) {
	if (&anime.Item{AgeRating: "PG-13"}).IsMature() {
		t.Fatal("PG-13 should not be mature")
	}
	if !(&anime.Item{AgeRating: "rx"}).IsMature() {
		t.Fatal("Rx should be mature")
	}
	if !(&anime.Item{Genres: []string{"Comedy", "Hentai"}}).IsMature() {
		t.Fatal("hentai genre should be mature")
	}
}

func TestItemHasSynopsis(t *testing.T) {
	empty := ""
	text := "A story."
	if (&anime.Item{}).HasSynopsis() {
		t.Fatal("unset synopsis reported as present")
	}
	if (&anime.Item{Synopsis: &empty}).HasSynopsis() {
		t.Fatal("empty synopsis reported as present")
	}
	if !(&anime.Item{Synopsis: &text}).HasSynopsis() {
		t.Fatal("synopsis not reported")
	}
}

func TestProducers(t *testing.T) {
	got := anime.SplitProducers("Sunrise, Bones ,, ")
	if diff := cmp.Diff([]string{"Sunrise", "Bones"}, got); diff != "" {
		t.Fatalf("SplitProducers mismatch (-want +got):\n%s", diff)
	}
	if joined := anime.JoinProducers(got); joined != "Sunrise, Bones" {
		t.Fatalf("unexpected join: %q", joined)
	}
}
