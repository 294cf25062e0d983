package sitemap_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"standuphub/internal/sitemap"
)

func buildSite(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, rel := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<html></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestGenerateMapsURLs(t *testing.T) {
	dir := buildSite(t, "index.html", "about.html", "rating/index.html", "style.css")

	if err := sitemap.Generate(dir, "https://standuphub.com.ua/", nil, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	content := readFile(t, filepath.Join(dir, "sitemap.xml"))
	for _, want := range []string{
		"<loc>https://standuphub.com.ua/</loc>",
		"<loc>https://standuphub.com.ua/about.html</loc>",
		"<loc>https://standuphub.com.ua/rating/</loc>",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("sitemap missing %s\n%s", want, content)
		}
	}
	if strings.Contains(content, "style.css") {
		t.Error("non-html file listed in sitemap")
	}
	if !strings.Contains(content, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("sitemap missing namespace")
	}
}

func TestGenerateSkipsHiddenAndExcluded(t *testing.T) {
	dir := buildSite(t, "index.html", "404.html", ".git/info.html")

	if err := sitemap.Generate(dir, "https://example.com", []string{"404.html"}, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	content := readFile(t, filepath.Join(dir, "sitemap.xml"))
	if strings.Contains(content, "404.html") {
		t.Error("excluded page listed in sitemap")
	}
	if strings.Contains(content, "info.html") {
		t.Error("hidden directory page listed in sitemap")
	}
}

func TestGenerateWritesRobots(t *testing.T) {
	dir := buildSite(t, "index.html")

	if err := sitemap.Generate(dir, "https://example.com", nil, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	robots := readFile(t, filepath.Join(dir, "robots.txt"))
	if !strings.Contains(robots, "User-agent: *") {
		t.Error("robots.txt missing user-agent")
	}
	if !strings.Contains(robots, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt missing sitemap pointer:\n%s", robots)
	}
}

func TestGenerateMissingSiteDir(t *testing.T) {
	if err := sitemap.Generate(filepath.Join(t.TempDir(), "missing"), "https://example.com", nil, nil); err == nil {
		t.Fatal("expected error for missing site directory")
	}
}

func TestGenerateEmptyBaseURL(t *testing.T) {
	if err := sitemap.Generate(t.TempDir(), "  ", nil, nil); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
