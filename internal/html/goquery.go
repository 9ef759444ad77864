package html

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// GoQueryParser implements Parser using goquery over x/net/html.
type GoQueryParser struct {
	logger *zap.Logger
}

// NewParser creates a goquery-based HTML parser. A nil logger disables
// logging.
func NewParser(logger *zap.Logger) *GoQueryParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoQueryParser{logger: logger}
}

// Parse parses an HTML string into a Document.
func (p *GoQueryParser) Parse(htmlText string) (Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return newGoQueryDocument(gq, p.logger), nil
}

// ParseFile parses an HTML file into a Document. A missing file surfaces the
// underlying os error so callers can test with errors.Is(err, fs.ErrNotExist).
func (p *GoQueryParser) ParseFile(filename string) (Document, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return p.Parse(string(content))
}

// GoQueryDocument wraps a goquery.Document and an arena of element nodes
// keyed by stable NodeKeys assigned in document order.
type GoQueryDocument struct {
	doc    *goquery.Document
	logger *zap.Logger

	nodes []*html.Node           // arena, document order
	keys  map[*html.Node]NodeKey // reverse index
}

func newGoQueryDocument(gq *goquery.Document, logger *zap.Logger) *GoQueryDocument {
	d := &GoQueryDocument{
		doc:    gq,
		logger: logger,
		keys:   make(map[*html.Node]NodeKey),
	}
	for _, root := range gq.Nodes {
		d.index(root)
	}
	return d
}

// index assigns NodeKeys to element nodes depth-first, which is document
// order for HTML.
func (d *GoQueryDocument) index(n *html.Node) {
	if n.Type == html.ElementNode {
		d.keys[n] = NodeKey(len(d.nodes))
		d.nodes = append(d.nodes, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

func (d *GoQueryDocument) wrap(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return &goQueryNode{node: n, doc: d}
}

// Root returns the html element, or the document's first element.
func (d *GoQueryDocument) Root() Node {
	return d.first("html")
}

// Head returns the head element or nil.
func (d *GoQueryDocument) Head() Node {
	return d.first("head")
}

// Body returns the body element or nil.
func (d *GoQueryDocument) Body() Node {
	return d.first("body")
}

func (d *GoQueryDocument) first(tag string) Node {
	for _, n := range d.nodes {
		if n.Data == tag {
			return d.wrap(n)
		}
	}
	return nil
}

// Nodes returns every element in document order.
func (d *GoQueryDocument) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = d.wrap(n)
	}
	return out
}

// NodeByKey resolves a key assigned at parse time.
func (d *GoQueryDocument) NodeByKey(key NodeKey) (Node, bool) {
	if key < 0 || int(key) >= len(d.nodes) {
		return nil, false
	}
	return d.wrap(d.nodes[key]), true
}

// FindMatching returns all elements matching the selector in document order.
// The selector is checked against the supported grammar first; anything
// unsupported, malformed, or panicking inside the matcher resolves to an
// empty result.
func (d *GoQueryDocument) FindMatching(selector string) (matched []Node) {
	selector = strings.TrimSpace(selector)
	if !IsSupportedSelector(selector) {
		d.logger.Warn("selector not supported, matches nothing",
			zap.String("selector", selector))
		return nil
	}

	sel, err := cascadia.Compile(selector)
	if err != nil {
		d.logger.Warn("selector failed to compile, matches nothing",
			zap.String("selector", selector), zap.Error(err))
		return nil
	}

	// The matcher walks arbitrary author input; a panic inside it must not
	// take the document analysis down.
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("selector match panicked",
				zap.String("selector", selector), zap.Any("panic", r))
			matched = nil
		}
	}()

	found := d.doc.FindMatcher(sel)
	found.Each(func(_ int, s *goquery.Selection) {
		matched = append(matched, d.wrap(s.Get(0)))
	})
	return matched
}

// goQueryNode is the Node view over one *html.Node.
type goQueryNode struct {
	node *html.Node
	doc  *GoQueryDocument
}

func (n *goQueryNode) Key() NodeKey {
	return n.doc.keys[n.node]
}

func (n *goQueryNode) TagName() string {
	return n.node.Data
}

func (n *goQueryNode) ID() string {
	return n.attr("id")
}

func (n *goQueryNode) Classes() []string {
	return strings.Fields(n.attr("class"))
}

func (n *goQueryNode) Attributes() map[string]string {
	attrs := make(map[string]string, len(n.node.Attr))
	for _, a := range n.node.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

func (n *goQueryNode) InlineStyle() string {
	return n.attr("style")
}

func (n *goQueryNode) attr(name string) string {
	for _, a := range n.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func (n *goQueryNode) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.node)
	return sb.String()
}

// nonRenderedTags never contribute rendered text, no matter their contents.
var nonRenderedTags = map[string]bool{
	"head":     true,
	"title":    true,
	"meta":     true,
	"link":     true,
	"script":   true,
	"style":    true,
	"base":     true,
	"noscript": true,
}

func (n *goQueryNode) DirectText() string {
	if nonRenderedTags[n.node.Data] {
		return ""
	}
	var parts []string
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}

func (n *goQueryNode) Parent() Node {
	p := n.node.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	return n.doc.wrap(p)
}

func (n *goQueryNode) Children() []Node {
	var out []Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, n.doc.wrap(c))
		}
	}
	return out
}
