// Package notetree stores notes in an unbalanced binary search tree keyed
// by their position in the score.
//
// The functions in this package take a root and return the (possibly new)
// root. Callers must store the returned value; there are no parent links.
// Everything is iterative so a degenerate tree built from an already
// sorted score costs O(n) time per operation but no call stack.
package notetree

import (
	"github.com/jsphweid/notetree/model"
)

type Node struct {
	Key   float64
	Note  model.Note
	Left  *Node
	Right *Node
}

func newNode(n model.Note) *Node {
	return &Node{Key: n.Key(), Note: n}
}

// Insert adds n to the tree. If a note already occupies the same position
// the tree is left untouched and inserted is false.
func Insert(root *Node, n model.Note) (newRoot *Node, inserted bool) {
	node := newNode(n)
	if root == nil {
		return node, true
	}

	p := root
	for {
		switch {
		case node.Key == p.Key:
			return root, false
		case node.Key < p.Key:
			if p.Left == nil {
				p.Left = node
				return root, true
			}
			p = p.Left
		default:
			if p.Right == nil {
				p.Right = node
				return root, true
			}
			p = p.Right
		}
	}
}

func Search(root *Node, bar int, subIndex float64) (*Node, bool) {
	key := model.PositionKey(bar, subIndex)
	p := root
	for p != nil {
		if key == p.Key {
			return p, true
		}
		if key < p.Key {
			p = p.Left
		} else {
			p = p.Right
		}
	}
	return nil, false
}

// Successor returns the leftmost node of n's right subtree. n.Right must
// not be nil.
func Successor(n *Node) *Node {
	succ, _ := successor(n)
	return succ
}

func successor(n *Node) (succ, parent *Node) {
	parent = n
	succ = n.Right
	for succ.Left != nil {
		parent = succ
		succ = succ.Left
	}
	return succ, parent
}

// Delete removes the note at (bar, subIndex) and returns the new root.
// A node with two children takes over its in-order successor's key and
// note, and the successor node is unlinked instead. Every link that will
// change is located before anything is written.
func Delete(root *Node, bar int, subIndex float64) (newRoot *Node, deleted bool) {
	key := model.PositionKey(bar, subIndex)

	var parent *Node
	p := root
	for p != nil && p.Key != key {
		parent = p
		if key < p.Key {
			p = p.Left
		} else {
			p = p.Right
		}
	}
	if p == nil {
		return root, false
	}

	if p.Left != nil && p.Right != nil {
		succ, succParent := successor(p)
		// the successor has no left child, so only its right subtree moves up
		p.Key = succ.Key
		p.Note = succ.Note
		if succParent == p {
			p.Right = succ.Right
		} else {
			succParent.Left = succ.Right
		}
		succ.Right = nil
		return root, true
	}

	child := p.Left
	if child == nil {
		child = p.Right
	}
	p.Left = nil
	p.Right = nil

	if parent == nil {
		return child, true
	}
	if parent.Left == p {
		parent.Left = child
	} else {
		parent.Right = child
	}
	return root, true
}

// Teardown unlinks every node, children before their parent.
func Teardown(root *Node) {
	PostOrder(root, func(_ int, n *Node) {
		n.Left = nil
		n.Right = nil
	})
}
