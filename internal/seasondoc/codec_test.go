package seasondoc_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding/unicode"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/seasondoc"
	"github.com/Venipa/taiga/internal/service"
)

const winterDoc = `<?xml version="1.0" encoding="UTF-8"?>
<season>
	<info>
		<name>Winter 2018</name>
		<modified>1516406400</modified>
	</info>
	<anime>
		<id name="myanimelist">33352</id>
		<id name="kitsu">12230</id>
		<title>Violet Evergarden</title>
		<type>1</type>
		<image>https://img.example/violet.jpg</image>
		<trailer></trailer>
		<producers>Kyoto Animation, Pony Canyon</producers>
	</anime>
	<anime>
		<id name="kitsu">13600</id>
		<title>Pop Team Epic</title>
		<type>x</type>
	</anime>
</season>
`

func TestParseReadsHeaderAndEntries(t *testing.T) {
	doc, err := seasondoc.Parse([]byte(winterDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Season(); got != (anime.Season{Name: anime.SeasonWinter, Year: 2018}) {
		t.Fatalf("unexpected season %v", got)
	}
	if got := doc.ModifiedAt(); !got.Equal(time.Unix(1516406400, 0)) {
		t.Fatalf("unexpected modified %v", got)
	}
	if len(doc.Anime) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Anime))
	}

	first := doc.Anime[0]
	wantIDs := []seasondoc.ID{
		{Service: "myanimelist", Value: "33352"},
		{Service: "kitsu", Value: "12230"},
	}
	if diff := cmp.Diff(wantIDs, first.IDs); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if first.MediaType() != anime.TypeTV {
		t.Fatalf("expected TV type, got %v", first.MediaType())
	}
	if diff := cmp.Diff([]string{"Kyoto Animation", "Pony Canyon"}, first.ProducerList()); diff != "" {
		t.Fatalf("producers mismatch (-want +got):\n%s", diff)
	}
	if doc.Anime[1].MediaType() != anime.TypeUnknown {
		t.Fatalf("expected unreadable type to map to unknown")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"truncated":  "<season><info><name>Winter 2018</name>",
		"wrong root": "<catalog></catalog>",
		"not xml":    "hello",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := seasondoc.Parse([]byte(input)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestParseHandlesByteOrderMarks(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, winterDoc...)
	if _, err := seasondoc.Parse(withBOM); err != nil {
		t.Fatalf("Parse with UTF-8 BOM failed: %v", err)
	}

	utf16 := strings.Replace(winterDoc, `encoding="UTF-8"`, `encoding="UTF-16"`, 1)
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(utf16))
	if err != nil {
		t.Fatalf("encode utf16: %v", err)
	}
	doc, err := seasondoc.Parse(encoded)
	if err != nil {
		t.Fatalf("Parse with UTF-16 BOM failed: %v", err)
	}
	if doc.Anime[0].TrimmedTitle() != "Violet Evergarden" {
		t.Fatalf("unexpected title %q", doc.Anime[0].Title)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2018, 1, 20, 0, 0, 0, 0, time.UTC)
	for _, value := range []string{"1516406400", "2018-01-20T00:00:00Z", "2018-01-20 00:00:00", "2018-01-20"} {
		got, err := seasondoc.ParseTimestamp(value)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) failed: %v", value, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", value, got, want)
		}
	}
	if got, err := seasondoc.ParseTimestamp(""); err != nil || !got.IsZero() {
		t.Fatalf("expected zero time for empty value, got %v, %v", got, err)
	}
	if _, err := seasondoc.ParseTimestamp("yesterday"); err == nil {
		t.Fatal("expected error for unreadable timestamp")
	}
}

func TestParseTimestampDropsFractionalSeconds(t *testing.T) {
	got, err := seasondoc.ParseTimestamp("2018-01-01T00:00:00.5Z")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	want := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Nanosecond() != 0 {
		t.Fatalf("ParseTimestamp = %v, want %v", got, want)
	}
	negative, err := seasondoc.ParseTimestamp("-5")
	if err != nil || negative.Unix() != -5 {
		t.Fatalf("ParseTimestamp(-5) = %v, %v", negative, err)
	}
}

func TestEncodeWritesBOMAndTabs(t *testing.T) {
	doc, err := seasondoc.Parse([]byte(winterDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	data, err := seasondoc.Encode(doc)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("expected UTF-8 byte-order mark")
	}
	if !bytes.Contains(data, []byte("\n\t<info>")) || !bytes.Contains(data, []byte("\n\t\t<id name=\"myanimelist\">33352</id>")) {
		t.Fatalf("expected tab indentation, got:\n%s", data)
	}

	again, err := seasondoc.Parse(data)
	if err != nil {
		t.Fatalf("Parse of encoded document failed: %v", err)
	}
	if diff := cmp.Diff(doc.Anime, again.Anime); diff != "" {
		t.Fatalf("entries changed after encode (-want +got):\n%s", diff)
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2018_winter.xml")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	doc := &seasondoc.Document{Info: seasondoc.Info{Name: "Winter 2018"}}
	if err := seasondoc.WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Contains(data, []byte("<name>Winter 2018</name>")) {
		t.Fatalf("unexpected content:\n%s", data)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestFromItemsOrdersIDsByService(t *testing.T) {
	registry, err := service.NewRegistry("myanimelist")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	item := &anime.Item{
		Title:     "Laid-Back Camp",
		Type:      anime.TypeTV,
		Producers: []string{"C-Station"},
		IDs: map[anime.ServiceID]string{
			service.AniList:     "98444",
			service.MyAnimeList: "34798",
			99:                  "ignored",
		},
	}
	season := anime.Season{Name: anime.SeasonWinter, Year: 2018}
	doc := seasondoc.FromItems(season, time.Unix(1516406400, 0), []*anime.Item{item, nil}, registry)

	if doc.Info.Name != "Winter 2018" || doc.Info.Modified != "1516406400" {
		t.Fatalf("unexpected header %#v", doc.Info)
	}
	want := []seasondoc.Entry{{
		IDs: []seasondoc.ID{
			{Service: "myanimelist", Value: "34798"},
			{Service: "anilist", Value: "98444"},
		},
		Title:     "Laid-Back Camp",
		TypeCode:  "1",
		Producers: "C-Station",
	}}
	if diff := cmp.Diff(want, doc.Anime); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
