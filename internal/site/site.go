package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/taqueria-landing/internal/config"
	"github.com/fairyhunter13/taqueria-landing/internal/link"
)

const (
	includesDir = "_includes"
	dataFile    = "_data/site.json"
)

// PassthroughDirs are copied to the output unchanged.
var PassthroughDirs = []string{"css", "js", "assets", "images"}

var nonDigits = regexp.MustCompile(`\D`)

// Result summarizes a build.
type Result struct {
	Pages  int
	Copied []string
}

// FormatPhone renders a 10 digit phone number as (XXX) XXX-XXXX.
// Any other input is returned unchanged.
func FormatPhone(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if len(digits) != 10 {
		return number
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// Funcs returns the template functions available to pages.
func Funcs(prefix string) template.FuncMap {
	return template.FuncMap{
		"formatPhone": FormatPhone,
		// Already-escaped text must not be escaped again inside an href.
		"waText": func(s string) template.URL {
			return template.URL(link.EncodeComponent(s))
		},
		"url": func(p string) string {
			return joinPrefix(prefix, p)
		},
	}
}

func joinPrefix(prefix, p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	out := path.Join("/", prefix, p)
	if strings.HasSuffix(p, "/") && out != "/" {
		out += "/"
	}
	return out
}

// Build renders every page below cfg.SourceDir into cfg.OutputDir and copies the
// passthrough directories. The output directory is recreated on every build.
func Build(cfg config.SiteConfig) (*Result, error) {
	src, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if out == src || out == filepath.Dir(out) || strings.HasPrefix(src, out+string(filepath.Separator)) {
		return nil, fmt.Errorf("refusing to build into %s", out)
	}

	data, err := loadData(src)
	if err != nil {
		return nil, err
	}
	base, err := loadIncludes(src, cfg.PathPrefix)
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(out); err != nil {
		return nil, fmt.Errorf("clean output: %w", err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	res := &Result{}
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), "_") || isPassthrough(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".html") || strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		if err := renderPage(base, p, filepath.Join(out, rel), pageData(data, cfg.PathPrefix, rel)); err != nil {
			return fmt.Errorf("render %s: %w", rel, err)
		}
		res.Pages++
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, dir := range PassthroughDirs {
		from := filepath.Join(src, dir)
		if _, err := os.Stat(from); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.CopyFS(filepath.Join(out, dir), os.DirFS(from)); err != nil {
			return nil, fmt.Errorf("copy %s: %w", dir, err)
		}
		res.Copied = append(res.Copied, dir)
	}

	log.Info().
		Str("source", src).
		Str("output", out).
		Int("pages", res.Pages).
		Strs("copied", res.Copied).
		Msg("site built")
	return res, nil
}

func isPassthrough(rel string) bool {
	for _, d := range PassthroughDirs {
		if filepath.ToSlash(rel) == d {
			return true
		}
	}
	return false
}

func loadData(src string) (map[string]any, error) {
	data := make(map[string]any)
	b, err := os.ReadFile(filepath.Join(src, filepath.FromSlash(dataFile)))
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", dataFile, err)
	}
	return data, nil
}

// loadIncludes parses the layouts and partials every page may reference.
func loadIncludes(src, prefix string) (*template.Template, error) {
	base := template.New("site").Funcs(Funcs(prefix))
	matches, err := filepath.Glob(filepath.Join(src, includesDir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return base, nil
	}
	base, err = base.ParseFiles(matches...)
	if err != nil {
		return nil, fmt.Errorf("parse includes: %w", err)
	}
	return base, nil
}

func pageData(data map[string]any, prefix, rel string) map[string]any {
	return map[string]any{
		"site":       data,
		"pathPrefix": prefix,
		"page":       filepath.ToSlash(rel),
	}
}

func renderPage(base *template.Template, src, dst string, data map[string]any) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t, err = t.New(filepath.Base(src)).Parse(string(b))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}
