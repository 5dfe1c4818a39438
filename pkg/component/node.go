package component

// Node is the opaque render output of a component. The pipeline carries
// nodes from Render to whatever renderer consumes them and never interprets
// their content.
type Node struct {
	// Name is the element or widget name. Empty for pure text nodes.
	Name string
	// Attrs holds the node's attributes.
	Attrs map[string]string
	// Text is the node's text content, if any.
	Text string
	// Children are the node's child nodes, in order.
	Children []Node
}

// TextNode returns a node holding only text.
func TextNode(text string) Node {
	return Node{Text: text}
}

// ElementNode returns a named node with the given children.
func ElementNode(name string, children ...Node) Node {
	return Node{Name: name, Children: children}
}
