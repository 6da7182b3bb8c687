package tree

import (
	"iter"

	"github.com/benz9527/xrbtree/lib/infra"
)

// Traverse returns a lazy sequence of (key, color) pairs. Every range over
// the sequence starts again from the current root. The explicit stack is
// bounded by the tree height.
func (tree *rbTree[K, V]) Traverse(order RBTraverseOrder) iter.Seq2[K, RBColor] {
	return func(yield func(K, RBColor) bool) {
		switch order {
		case PreOrder:
			preOrder[K, V](tree.root, yield)
		case InOrder:
			inOrder[K, V](tree.root, yield)
		case PostOrder:
			postOrder[K, V](tree.root, yield)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] unknown traverse order " + order.String())
		}
	}
}

// Node, left subtree, right subtree.
func preOrder[K infra.OrderedKey, V any](root *rbNode[K, V], yield func(K, RBColor) bool) {
	if root == nil {
		return
	}
	stack := make([]*rbNode[K, V], 0, 32)
	stack = append(stack, root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !yield(aux.key, aux.color) {
			return
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
}

func inOrder[K infra.OrderedKey, V any](root *rbNode[K, V], yield func(K, RBColor) bool) {
	stack := make([]*rbNode[K, V], 0, 32)
	for aux := root; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !yield(aux.key, aux.color) {
			return
		}
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Left subtree, right subtree, node.
func postOrder[K infra.OrderedKey, V any](root *rbNode[K, V], yield func(K, RBColor) bool) {
	var (
		stack = make([]*rbNode[K, V], 0, 32)
		last  *rbNode[K, V]
	)
	for aux := root; aux != nil || len(stack) > 0; {
		if aux != nil {
			stack = append(stack, aux)
			aux = aux.left
			continue
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != last {
			aux = top.right
			continue
		}
		if !yield(top.key, top.color) {
			return
		}
		last = top
		stack = stack[:len(stack)-1]
	}
}
