package notetree

import (
	"fmt"
	"io"

	"github.com/jsphweid/notetree/model"
)

// VisitFunc is called once per node with its depth below the traversal
// root (the root itself is depth 0).
type VisitFunc func(depth int, n *Node)

type frame struct {
	node     *Node
	depth    int
	expanded bool
}

func InOrder(root *Node, visit VisitFunc) {
	var stack []frame
	cur := root
	depth := 0
	for cur != nil || len(stack) > 0 {
		for cur != nil {
			stack = append(stack, frame{node: cur, depth: depth})
			cur = cur.Left
			depth++
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(top.depth, top.node)
		cur = top.node.Right
		depth = top.depth + 1
	}
}

func PreOrder(root *Node, visit VisitFunc) {
	if root == nil {
		return
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(top.depth, top.node)
		if top.node.Right != nil {
			stack = append(stack, frame{node: top.node.Right, depth: top.depth + 1})
		}
		if top.node.Left != nil {
			stack = append(stack, frame{node: top.node.Left, depth: top.depth + 1})
		}
	}
}

// PostOrder visits both subtrees before the node. A node's links are not
// read again once it has been visited, so visit may clear them.
func PostOrder(root *Node, visit VisitFunc) {
	if root == nil {
		return
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.expanded {
			visit(top.depth, top.node)
			continue
		}
		top.expanded = true
		stack = append(stack, top)
		if top.node.Right != nil {
			stack = append(stack, frame{node: top.node.Right, depth: top.depth + 1})
		}
		if top.node.Left != nil {
			stack = append(stack, frame{node: top.node.Left, depth: top.depth + 1})
		}
	}
}

type Order int

const (
	OrderIn Order = iota
	OrderPre
	OrderPost
)

func (o Order) String() string {
	switch o {
	case OrderIn:
		return "in"
	case OrderPre:
		return "pre"
	case OrderPost:
		return "post"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

func ParseOrder(s string) (Order, error) {
	switch s {
	case "in", "inorder", "in-order":
		return OrderIn, nil
	case "pre", "preorder", "pre-order":
		return OrderPre, nil
	case "post", "postorder", "post-order":
		return OrderPost, nil
	}
	return OrderIn, fmt.Errorf("unknown traversal order %q", s)
}

func Walk(root *Node, order Order, visit VisitFunc) {
	switch order {
	case OrderPre:
		PreOrder(root, visit)
	case OrderPost:
		PostOrder(root, visit)
	default:
		InOrder(root, visit)
	}
}

// FormatLine renders one diagnostic line. Tooling downstream parses this
// exact layout.
func FormatLine(depth int, n model.Note) string {
	return fmt.Sprintf("Depth=%d, Bar:Index (%d:%f), F=%f Hz", depth, n.Bar, n.SubIndex, n.Frequency)
}

// Print writes one FormatLine per node in the given order.
func Print(w io.Writer, root *Node, order Order) error {
	var err error
	Walk(root, order, func(depth int, n *Node) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintln(w, FormatLine(depth, n.Note))
	})
	return err
}

// MakePlaylist copies the notes out in key order, which is playing order.
func MakePlaylist(root *Node) model.Playlist {
	playlist := make(model.Playlist, 0)
	InOrder(root, func(_ int, n *Node) {
		playlist = append(playlist, n.Note)
	})
	return playlist
}

func Height(root *Node) int {
	height := 0
	PreOrder(root, func(depth int, _ *Node) {
		if depth+1 > height {
			height = depth + 1
		}
	})
	return height
}

func Count(root *Node) int {
	n := 0
	PreOrder(root, func(int, *Node) { n++ })
	return n
}
