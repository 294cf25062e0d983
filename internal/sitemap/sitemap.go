// Package sitemap generates sitemap.xml and robots.txt from the built
// static site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"standuphub/internal/logging"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlEntry struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Generate walks siteDir for *.html files and writes sitemap.xml and
// robots.txt into it. Files in hidden directories and excluded names are
// skipped; index.html maps to its directory URL.
func Generate(siteDir, baseURL string, exclude []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "sitemap")

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return fmt.Errorf("sitemap base url must not be empty")
	}
	if _, err := os.Stat(siteDir); err != nil {
		return fmt.Errorf("site directory: %w", err)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	var pages []string
	err := filepath.WalkDir(siteDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != siteDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		if _, skip := excluded[d.Name()]; skip {
			return nil
		}
		rel, err := filepath.Rel(siteDir, path)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk site directory: %w", err)
	}
	sort.Strings(pages)

	set := urlSet{Xmlns: sitemapNS, URLs: make([]urlEntry, 0, len(pages))}
	for _, rel := range pages {
		set.URLs = append(set.URLs, urlEntry{Loc: pageURL(baseURL, rel)})
	}

	payload, err := xml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal sitemap: %w", err)
	}
	sitemapXML := []byte(xml.Header + string(payload) + "\n")
	if err := os.WriteFile(filepath.Join(siteDir, "sitemap.xml"), sitemapXML, 0o644); err != nil {
		return fmt.Errorf("write sitemap.xml: %w", err)
	}

	robots := strings.Join([]string{
		"User-agent: *",
		"Allow: /",
		"",
		"Sitemap: " + baseURL + "/sitemap.xml",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(siteDir, "robots.txt"), []byte(robots), 0o644); err != nil {
		return fmt.Errorf("write robots.txt: %w", err)
	}

	logger.Info("sitemap generated",
		logging.Int("pages", len(pages)),
		logging.String("site_dir", siteDir))
	return nil
}

// pageURL maps a site-relative html path to its public URL. index.html
// collapses to the directory URL.
func pageURL(baseURL, rel string) string {
	if rel == "index.html" {
		return baseURL + "/"
	}
	if strings.HasSuffix(rel, "/index.html") {
		return baseURL + "/" + strings.TrimSuffix(rel, "index.html")
	}
	return baseURL + "/" + rel
}
