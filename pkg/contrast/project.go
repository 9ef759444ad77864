package contrast

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/css"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/html"
)

// findHTMLFiles returns every .html file under root, sorted so specificity
// tie-breaking is reproducible across runs.
func findHTMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("contrast: walking project %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// HasAnyCSSSources reports whether the document links an external stylesheet
// or carries a non-empty style tag in its head. A style tag with nothing but
// whitespace doesn't count; neither does a document with no head at all.
func HasAnyCSSSources(doc html.Document) bool {
	head := doc.Head()
	if head == nil {
		return false
	}
	for _, child := range head.Children() {
		switch child.TagName() {
		case "link":
			if strings.HasSuffix(child.Attributes()["href"], ".css") {
				return true
			}
		case "style":
			if strings.TrimSpace(child.Text()) != "" {
				return true
			}
		}
	}
	return false
}

// documentSheets collects the document's stylesheets in head source order,
// external files and style tags interleaved exactly as written. External
// sheets are read through the per-run cache so a file shared by several
// pages parses once.
func (a *Analyzer) documentSheets(doc html.Document, htmlPath, projectRoot string, cache map[string]*css.Stylesheet) ([]*css.Stylesheet, error) {
	head := doc.Head()
	if head == nil {
		return nil, nil
	}
	var sheets []*css.Stylesheet
	styleTagCount := 0
	for _, child := range head.Children() {
		switch child.TagName() {
		case "link":
			href := child.Attributes()["href"]
			if !strings.HasSuffix(href, ".css") {
				continue
			}
			sheet, err := a.loadExternalSheet(href, htmlPath, projectRoot, cache)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, sheet)
		case "style":
			raw := child.Text()
			if strings.TrimSpace(raw) == "" {
				continue
			}
			styleTagCount++
			name := fmt.Sprintf("style_tag--%s", filepath.Base(htmlPath))
			if styleTagCount > 1 {
				name = fmt.Sprintf("%s--%d", name, styleTagCount)
			}
			sheet, err := a.cssParser.Parse(name, "tag", raw)
			if err != nil {
				a.logger.Warn("style tag could not be parsed",
					zap.String("file", htmlPath), zap.Error(err))
				continue
			}
			sheets = append(sheets, sheet)
		}
	}
	return sheets, nil
}

// loadExternalSheet resolves an href against the HTML file's directory and
// then the project root, parses it, and memoizes the parse by href. A
// missing file is surfaced to the caller; a sheet with broken comment or
// brace structure is skipped with a warning, matching how browsers shrug
// off a dead stylesheet.
func (a *Analyzer) loadExternalSheet(href, htmlPath, projectRoot string, cache map[string]*css.Stylesheet) (*css.Stylesheet, error) {
	if sheet, ok := cache[href]; ok {
		return sheet, nil
	}
	cssPath := filepath.Join(filepath.Dir(htmlPath), href)
	raw, err := os.ReadFile(cssPath)
	if err != nil {
		fallback := filepath.Join(projectRoot, href)
		raw, err = os.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("contrast: stylesheet %s referenced by %s: %w", href, htmlPath, err)
		}
		cssPath = fallback
	}
	sheet, err := a.cssParser.Parse(href, "file", string(raw))
	if err != nil {
		a.logger.Warn("stylesheet could not be parsed",
			zap.String("path", cssPath), zap.Error(err))
		sheet = &css.Stylesheet{Href: href, Type: "file"}
	}
	if sheet.HasRepeatSelectors {
		a.logger.Info("stylesheet repeats selectors",
			zap.String("path", cssPath),
			zap.Strings("selectors", sheet.RepeatedSelectors))
	}
	cache[href] = sheet
	return sheet, nil
}
