package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"standuphub/internal/config"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.OutDir = filepath.Join(base, "out")
	cfg.Paths.SiteDir = filepath.Join(base, "site")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CachePath = filepath.Join(base, "cache", "videos.db")
	cfg.YouTube.APIKey = "test"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfg)

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}

func TestRootShowsHelp(t *testing.T) {
	out, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	requireContains(t, out, "standuphub")
	requireContains(t, out, "fetch")
	requireContains(t, out, "rate")
}

func TestRateCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	performers := "Іван Петренко | Ваня\n"
	if err := os.WriteFile(filepath.Join(env.baseDir, "data", "performers.txt"), []byte(performers), 0o644); err != nil {
		t.Fatal(err)
	}

	raw := strings.Join([]string{
		"video_id,title,view_count,like_count,duration_sec,published_at",
		"aaaaaaaaaaa,Стендап Ваня сольний,1000,100,1800,2023-03-01T00:00:00Z",
		"bbbbbbbbbbb,Просто влог,500,5,1800,2023-03-01T00:00:00Z",
	}, "\n") + "\n"
	rawPath := filepath.Join(env.baseDir, "raw.csv")
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"rate", "--input", rawPath}, env.configPath)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	requireContains(t, out, "accepted 1")
	requireContains(t, out, "Іван Петренко")

	for _, name := range []string{"rating.csv", "videos_clean.csv", "videos_dropped.csv", "run_summary.json"} {
		if _, err := os.Stat(filepath.Join(env.baseDir, "out", name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestRateCommandJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.WriteFile(filepath.Join(env.baseDir, "data", "performers.txt"), []byte("Іван Петренко | Ваня\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	raw := "video_id,title,view_count,like_count,duration_sec,published_at\n" +
		"aaaaaaaaaaa,Стендап Ваня,1000,100,1800,2023-03-01T00:00:00Z\n"
	rawPath := filepath.Join(env.baseDir, "raw.csv")
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"rate", "--input", rawPath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("rate --json: %v", err)
	}
	requireContains(t, out, `"run_id"`)
	requireContains(t, out, `"criteria_order"`)
}

func TestRateCommandMissingPerformers(t *testing.T) {
	env := setupCLITestEnv(t)

	rawPath := filepath.Join(env.baseDir, "raw.csv")
	raw := "video_id,title,view_count,like_count,duration_sec,published_at\n" +
		"aaaaaaaaaaa,Стендап,1,1,1800,2023-03-01T00:00:00Z\n"
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"rate", "--input", rawPath}, env.configPath); err == nil {
		t.Fatal("expected error when performers file is missing")
	}
}

func TestSitemapCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	siteDir := filepath.Join(env.baseDir, "site")
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"sitemap", "--base", "https://example.com"}, env.configPath)
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	if _, err := os.Stat(filepath.Join(siteDir, "sitemap.xml")); err != nil {
		t.Errorf("missing sitemap.xml: %v", err)
	}
	if _, err := os.Stat(filepath.Join(siteDir, "robots.txt")); err != nil {
		t.Errorf("missing robots.txt: %v", err)
	}
}
