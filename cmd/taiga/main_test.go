package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Venipa/taiga/internal/seasondoc"
	"github.com/Venipa/taiga/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting an existing file")
	}
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithActiveService("kitsu"))

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "active_service = 'kitsu'")
	requireContains(t, out, env.cfg.Paths.LibraryDB)
}

func TestSeasonLoadAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteSeasonFile(t, env.cfg, "2018_winter.xml", winter2018XML)

	out, _, err := runCLI(t, []string{"season", "load", "Winter 2018"}, env.configPath)
	if err != nil {
		t.Fatalf("season load: %v", err)
	}
	requireContains(t, out, "Loaded 2 titles for Winter 2018")

	// The library-only fallback is not used when the file exists, and the
	// show command reloads the same records without duplicating them.
	out, _, err = runCLI(t, []string{"--json", "library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	var records []recordView
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode library list: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 library records, got %d", len(records))
	}
	if records[0].IDs["kitsu"] != "13600" || records[0].IDs["myanimelist"] != "35062" {
		t.Fatalf("unexpected ids for first record: %v", records[0].IDs)
	}

	if _, _, err := runCLI(t, []string{"season", "load", "2018_winter"}, env.configPath); err != nil {
		t.Fatalf("second season load: %v", err)
	}
	out, _, err = runCLI(t, []string{"library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n"); lines != 2 {
		t.Fatalf("expected header plus 2 rows after reload, got:\n%s", out)
	}
	requireContains(t, out, "Yuru Camp")
}

func TestSeasonLoadMissingFileWithoutRemote(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"season", "load", "Spring 2018"}, env.configPath)
	if err != nil {
		t.Fatalf("season load: %v", err)
	}
	requireContains(t, out, "not available locally")
}

func TestSeasonShowFallsBackToLibrary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"season", "show", "Spring 2018"}, env.configPath)
	if err != nil {
		t.Fatalf("season show: %v", err)
	}
	requireContains(t, out, "No titles for Spring 2018")
}

func TestSeasonRefreshCheck(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteSeasonFile(t, env.cfg, "2018_winter.xml", winter2018XML)

	out, _, err := runCLI(t, []string{"season", "refresh-check", "Winter 2018"}, env.configPath)
	if err != nil {
		t.Fatalf("refresh-check: %v", err)
	}
	requireContains(t, out, "Refresh required: no")
}

func TestSeasonExportWritesDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteSeasonFile(t, env.cfg, "2018_winter.xml", winter2018XML)

	target := filepath.Join(t.TempDir(), "out.xml")
	out, _, err := runCLI(t, []string{"season", "export", "Winter 2018", target}, env.configPath)
	if err != nil {
		t.Fatalf("season export: %v", err)
	}
	requireContains(t, out, "Exported 2 titles")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	doc, err := seasondoc.Parse(data)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if doc.Info.Name != "Winter 2018" || len(doc.Anime) != 2 {
		t.Fatalf("unexpected export header %q with %d entries", doc.Info.Name, len(doc.Anime))
	}
}

func TestLibrarySetAndRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteSeasonFile(t, env.cfg, "2018_winter.xml", winter2018XML)
	if _, _, err := runCLI(t, []string{"season", "load", "Winter 2018"}, env.configPath); err != nil {
		t.Fatalf("season load: %v", err)
	}

	out, _, err := runCLI(t, []string{"library", "set", "1", "--start", "2017-10-07", "--rating", "PG-13", "--genres", "Fantasy, Drama"}, env.configPath)
	if err != nil {
		t.Fatalf("library set: %v", err)
	}
	requireContains(t, out, "Updated record 1")

	out, _, err = runCLI(t, []string{"--json", "library", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("library list: %v", err)
	}
	var records []recordView
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode library list: %v", err)
	}
	if records[0].DateStart != "2017-10-07" || records[0].AgeRating != "PG-13" || len(records[0].Genres) != 2 {
		t.Fatalf("unexpected record after set: %+v", records[0])
	}

	if _, _, err := runCLI(t, []string{"library", "set", "1"}, env.configPath); err == nil {
		t.Fatal("expected set without flags to fail")
	}

	out, _, err = runCLI(t, []string{"library", "remove", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("library remove: %v", err)
	}
	requireContains(t, out, "Removed record 2")

	if _, _, err := runCLI(t, []string{"library", "remove", "2"}, env.configPath); err == nil {
		t.Fatal("expected second remove to fail")
	}
}

func TestSeasonsListsAvailableRange(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSeasonRange("Fall 2017", "Spring 2018"))
	testsupport.WriteSeasonFile(t, env.cfg, "2018_winter.xml", winter2018XML)

	out, _, err := runCLI(t, []string{"--json", "seasons"}, env.configPath)
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	var list []availableSeason
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode seasons: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 seasons, got %+v", list)
	}
	if list[1].Season != "Winter 2018" || !list[1].Local || list[0].Local {
		t.Fatalf("unexpected season listing: %+v", list)
	}
}

func TestStatusReportsLibraryAndChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if report.ActiveService != "myanimelist" || report.Records != 0 {
		t.Fatalf("unexpected status report: %+v", report)
	}
	if report.ConfigPath != env.configPath {
		t.Fatalf("config path = %q, want %q", report.ConfigPath, env.configPath)
	}
	if len(report.Checks) != 3 {
		t.Fatalf("expected 3 checks, got %+v", report.Checks)
	}
}
