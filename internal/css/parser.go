package css

import (
	"fmt"
	"regexp"
	"strings"
)

// nestedAtRules lists every at-rule that nests its own rulesets.
// From MDN's At-rules reference.
var nestedAtRules = []string{
	"@supports",
	"@document",
	"@page",
	"@font-face",
	"@keyframes",
	"@media",
	"@viewport",
	"@counter-style",
	"@font-feature-values",
	"@property",
}

// Parser turns raw CSS text into Stylesheet objects. All regexes are
// compiled once per parser instance.
type Parser struct {
	externalImportRe *regexp.Regexp

	idRe          *regexp.Regexp
	classRe       *regexp.Regexp
	attrRe        *regexp.Regexp
	pseudoClassRe *regexp.Regexp
	typeRe        *regexp.Regexp
}

// NewParser creates a CSS parser with compiled regexes.
func NewParser() *Parser {
	return &Parser{
		// Only imports of remote stylesheets are stripped. Local @import
		// paths are left in place; resolving them is a known limitation.
		externalImportRe: regexp.MustCompile(`@import\s+(?:url\(\s*)?["']?https?://[^;]*;`),

		idRe:    regexp.MustCompile(`#[\w-]+`),
		classRe: regexp.MustCompile(`\.[\w-]+`),
		attrRe:  regexp.MustCompile(`\[[^\]]*\]`),
		// Both colons of a pseudo-element must land inside the match so
		// the class-weight scorer can tell ::before from :hover.
		pseudoClassRe: regexp.MustCompile(`::?[\w-]+`),
		typeRe:        regexp.MustCompile(`[a-zA-Z][\w-]*`),
	}
}

// defaultParser backs the package-level helpers.
var defaultParser = NewParser()

// Parse parses one CSS source (a file's contents or a style tag's text) into
// a Stylesheet. Unbalanced comments or braces return an error; every lesser
// problem is recorded on the ruleset or declaration it belongs to and parsing
// continues.
func (p *Parser) Parse(sourceName, sourceType, raw string) (*Stylesheet, error) {
	sheet := &Stylesheet{Href: sourceName, Type: sourceType}

	text := minify(raw)

	var err error
	text, sheet.Comments, err = stripComments(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sourceName, err)
	}

	if strings.Count(text, "{") != strings.Count(text, "}") {
		return nil, fmt.Errorf("parsing %s: %w", sourceName, ErrUnbalancedBraces)
	}

	text = p.externalImportRe.ReplaceAllString(text, "")

	text = p.extractNestedAtRules(text, sheet)

	for _, chunk := range strings.Split(text, "}") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		sheet.Rulesets = append(sheet.Rulesets, p.parseRuleset(chunk+"}"))
	}

	p.recordSelectors(sheet)
	return sheet, nil
}

// extractNestedAtRules splits nested at-rules (which close with a double
// brace) away from the flat rulesets. It returns the remaining flat CSS and
// appends the extracted at-rules to the sheet.
func (p *Parser) extractNestedAtRules(text string, sheet *Stylesheet) string {
	if !strings.Contains(text, "}}") {
		return text
	}

	var flat strings.Builder
	for _, chunk := range strings.Split(text, "}}") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		name := containedAtRule(chunk)
		if name == "" {
			flat.WriteString(chunk)
			continue
		}

		before, body, _ := strings.Cut(chunk, name)
		// CSS ahead of the at-rule belongs to the flat rulesets.
		flat.WriteString(before)

		open := strings.Index(body, "{")
		if open < 0 {
			continue
		}
		header := strings.TrimSpace(name + body[:open])
		var rules []Ruleset
		for _, rc := range strings.Split(body[open+1:], "}") {
			if strings.TrimSpace(rc) == "" {
				continue
			}
			rules = append(rules, p.parseRuleset(rc+"}"))
		}
		sheet.NestedAtRules = append(sheet.NestedAtRules, NestedAtRule{
			AtRule:   header,
			Rulesets: rules,
		})
	}
	return flat.String()
}

func containedAtRule(chunk string) string {
	for _, name := range nestedAtRules {
		if strings.Contains(chunk, name) {
			return name
		}
	}
	return ""
}

// parseRuleset parses "selector { declarations }" text. A chunk with no
// opening brace, or with } ahead of {, is marked invalid and carries no
// declarations.
func (p *Parser) parseRuleset(text string) Ruleset {
	open := strings.Index(text, "{")
	close := strings.Index(text, "}")
	if open < 0 || close < 0 || open > close {
		return Ruleset{Selector: strings.TrimSpace(text), Invalid: true}
	}

	rs := Ruleset{Selector: strings.TrimSpace(text[:open])}
	if rs.Selector == "" {
		rs.Invalid = true
		return rs
	}
	block := text[open+1 : close]
	for _, decl := range strings.Split(block, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		rs.Declarations = append(rs.Declarations, NewDeclaration(decl))
	}
	return rs
}

// NewDeclaration parses a single "property: value" fragment, validating as it
// goes. Invalid declarations carry one of three messages: missing colon,
// missing value, or trailing text after the declaration's own terminator.
func NewDeclaration(text string) Declaration {
	prop, value, found := strings.Cut(text, ":")
	if !found {
		return Declaration{Invalid: true, Error: errNoColon}
	}

	d := Declaration{Property: strings.TrimSpace(prop)}

	value = strings.TrimSpace(value)
	if rest, after, terminated := strings.Cut(value, ";"); terminated {
		if strings.TrimSpace(after) != "" {
			d.Invalid = true
			d.Error = errTrailingText
			return d
		}
		value = strings.TrimSpace(rest)
	}
	if value == "" {
		d.Invalid = true
		d.Error = errEmptyValue
		return d
	}

	d.Value = value
	return d
}

// ParseInline parses a style="" attribute's contents as a bare declaration
// block.
func (p *Parser) ParseInline(styleAttr string) []Declaration {
	var out []Declaration
	for _, decl := range strings.Split(styleAttr, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		out = append(out, NewDeclaration(decl))
	}
	return out
}

// ParseInline parses a style="" attribute's contents with the shared
// default parser.
func ParseInline(styleAttr string) []Declaration {
	return defaultParser.ParseInline(styleAttr)
}

// GetSpecificity computes the specificity score of a selector: ids, then
// class-equivalents (classes, attribute selectors, single-colon
// pseudo-classes), then bare type names.
func GetSpecificity(selector string) Specificity {
	return defaultParser.Specificity(selector)
}

// Specificity computes the selector's specificity score.
func (p *Parser) Specificity(selector string) Specificity {
	var s Specificity

	s.IDs = len(p.idRe.FindAllString(selector, -1))

	s.Classes = len(p.classRe.FindAllString(selector, -1))
	s.Classes += len(p.attrRe.FindAllString(selector, -1))
	for _, m := range p.pseudoClassRe.FindAllString(selector, -1) {
		// Double-colon pseudo-elements don't count at class weight.
		if !strings.HasPrefix(m, "::") {
			s.Classes++
		}
	}

	// Strip everything already counted, then what's left as bare word tokens
	// is the type count.
	remainder := p.attrRe.ReplaceAllString(selector, " ")
	remainder = p.idRe.ReplaceAllString(remainder, " ")
	remainder = p.classRe.ReplaceAllString(remainder, " ")
	remainder = regexp.MustCompile(`::?[\w-]+(\([^)]*\))?`).ReplaceAllString(remainder, " ")
	s.Types = len(p.typeRe.FindAllString(remainder, -1))

	return s
}

// minify removes line returns, tabs, and doubled spaces so the split-based
// parsing only has to deal with single-space-separated tokens.
func minify(text string) string {
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\t", "")
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	return text
}

// stripComments removes balanced /* */ pairs, returning the code without
// comments and the list of comments found. Mismatched delimiters are a
// syntax error.
func stripComments(text string) (string, []string, error) {
	if strings.Count(text, "/*") != strings.Count(text, "*/") {
		return "", nil, ErrUnbalancedComment
	}

	var comments []string
	var code strings.Builder
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			if strings.Contains(text, "*/") {
				return "", nil, ErrUnbalancedComment
			}
			code.WriteString(text)
			break
		}
		stop := strings.Index(text[start:], "*/")
		if stop < 0 {
			return "", nil, ErrUnbalancedComment
		}
		stop += start + 2
		code.WriteString(text[:start])
		comments = append(comments, text[start:stop])
		text = text[stop:]
	}
	return code.String(), comments, nil
}

func (p *Parser) recordSelectors(sheet *Stylesheet) {
	seen := make(map[string]bool)
	record := func(selector string) {
		if selector == "" {
			return
		}
		if seen[selector] {
			sheet.HasRepeatSelectors = true
			sheet.RepeatedSelectors = append(sheet.RepeatedSelectors, selector)
		}
		seen[selector] = true
		sheet.Selectors = append(sheet.Selectors, selector)
	}
	for _, r := range sheet.Rulesets {
		if !r.Invalid {
			record(r.Selector)
		}
	}
	for _, at := range sheet.NestedAtRules {
		for _, r := range at.Rulesets {
			if !r.Invalid {
				record(r.Selector)
			}
		}
	}
}
