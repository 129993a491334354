package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/Venipa/taiga/internal/config"
	"github.com/Venipa/taiga/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("TAIGA_ACTIVE_SERVICE", "")
	cfg := testsupport.NewConfig(t, opts...)
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "taiga.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const winter2018XML = `<?xml version="1.0" encoding="UTF-8"?>
<season>
	<info>
		<name>Winter 2018</name>
		<modified>1514764800</modified>
	</info>
	<anime>
		<id name="myanimelist">35062</id>
		<id name="kitsu">13600</id>
		<title>Mahou Tsukai no Yome</title>
		<type>1</type>
		<image>https://img.example/35062.jpg</image>
		<trailer></trailer>
		<producers>Wit Studio, Production I.G</producers>
	</anime>
	<anime>
		<id name="myanimelist">35790</id>
		<title>Yuru Camp</title>
		<type>1</type>
		<producers>C-Station</producers>
	</anime>
	<anime>
		<id name="kitsu">99999</id>
		<title>Kitsu Only</title>
		<type>2</type>
	</anime>
</season>
`
