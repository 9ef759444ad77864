package html

// NodeKey is a stable, document-scoped element identity, assigned in document
// order at parse time. Computed-style maps key off NodeKey so no state is
// ever injected into the parsed tree itself.
type NodeKey int

// NoParent marks the absence of a donor element in provenance fields, and
// stands in for the document root wherever a parent key is expected.
const NoParent NodeKey = -1

// Node is a read-only view of one element in the DOM tree.
// Implementations wrap whatever parsing library backs the document; the
// cascade engine only ever reads through this interface.
type Node interface {
	// Key returns the node's stable identity within its document.
	Key() NodeKey

	TagName() string
	ID() string
	Classes() []string
	Attributes() map[string]string

	// Text returns the element's full text content, descendants included.
	Text() string

	// DirectText returns only the element's own text, excluding descendant
	// elements, trimmed of surrounding whitespace. Elements in the document
	// head (title, script, style, and the like) never render text and always
	// return "".
	DirectText() string

	// InlineStyle returns the raw style attribute contents, or "".
	InlineStyle() string

	Parent() Node // nil at the root
	Children() []Node
}

// Document is a parsed HTML document exposing ordered traversal and native
// selector matching over the supported grammar.
type Document interface {
	Root() Node
	Head() Node // nil when the document has no head
	Body() Node

	// Nodes returns every element node in document order.
	Nodes() []Node

	// NodeByKey resolves a NodeKey back to its node.
	NodeByKey(key NodeKey) (Node, bool)

	// FindMatching returns all elements matching the selector, in document
	// order. Unsupported or malformed selectors yield an empty slice, never
	// an error or panic.
	FindMatching(selector string) []Node
}

// Parser produces Documents from markup.
type Parser interface {
	Parse(htmlText string) (Document, error)
	ParseFile(filename string) (Document, error)
}
