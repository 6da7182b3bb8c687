package tree

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/lib/infra"
)

// rbtree rule validation utilities.
// All of them read the tree through the RBNode interface and report
// ErrRBTreeInvariantViolation (errors.Is) on failure.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func violation(format string, args ...any) error {
	return infra.WrapErrorStackWithMessage(ErrRBTreeInvariantViolation, fmt.Sprintf(format, args...))
}

func RootColorValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); root != nil && root.Color() != Black {
		return violation("rbtree red root %v", root.Key())
	}
	return nil
}

// Preorder traversal, a red node must not have a red child.
func RedViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}

	stack := []RBNode[K, V]{root}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		l, r := aux.Left(), aux.Right()
		if aux.Color() == Red &&
			((l != nil && l.Color() == Red) || (r != nil && r.Color() == Red)) {
			return violation("rbtree red violation at %v", aux.Key())
		}
		if l != nil {
			stack = append(stack, l)
		}
		if r != nil {
			stack = append(stack, r)
		}
	}
	return nil
}

// blackHeight returns the black nodes number from node down to any NIL,
// excluding node itself, or -1 if the subtrees disagree.
func blackHeight[K infra.OrderedKey, V any](node RBNode[K, V]) int {
	if node == nil {
		return 0
	}
	l, r := node.Left(), node.Right()
	lh, rh := blackHeight[K, V](l), blackHeight[K, V](r)
	if lh < 0 || rh < 0 || lh+colorWeight[K, V](l) != rh+colorWeight[K, V](r) {
		return -1
	}
	return lh + colorWeight[K, V](l)
}

func colorWeight[K infra.OrderedKey, V any](node RBNode[K, V]) int {
	if node == nil || node.Color() == Black {
		return 1
	}
	return 0
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Each path from a node down to NIL has the same number of black nodes.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if blackHeight[K, V](tree.Root()) < 0 {
		return violation("rbtree black violation")
	}
	return nil
}

// Inorder keys must strictly follow the tree order, ascending unless the
// tree is built WithRBTreeDesc.
func OrderViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	var (
		cmp     infra.OrderedKeyComparator[K] = infra.AscOrderedKeyCompare[K]
		prev    K
		errRes  error
		started bool
	)
	if tree.IsDesc() {
		cmp = infra.DescOrderedKeyCompare[K]
	}
	tree.Foreach(func(idx int64, _ RBColor, key K, _ V) bool {
		if !started {
			prev, started = key, true
			return true
		}
		if res := cmp(prev, key); res == 0 {
			errRes = violation("rbtree duplicate key %v at %d", key, idx)
			return false
		} else if res > 0 {
			errRes = violation("rbtree order violation %v, %v at %d", prev, key, idx)
			return false
		}
		prev = key
		return true
	})
	return errRes
}

func ParentLinkValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return violation("rbtree root %v with parent", root.Key())
	}

	stack := []RBNode[K, V]{root}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		for _, c := range []RBNode[K, V]{aux.Left(), aux.Right()} {
			if c == nil {
				continue
			}
			if c.Parent() != aux {
				return violation("rbtree broken parent link %v -> %v", c.Key(), aux.Key())
			}
			stack = append(stack, c)
		}
	}
	return nil
}

// The height of n keys rbtree is at most 2 * log2(n+1).
func HeightValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	n, h := tree.Len(), tree.Height()
	if limit := 2 * math.Log2(float64(n)+1); float64(h) > limit+1e-9 {
		return violation("rbtree height %d exceeds %.2f for %d keys", h, limit, n)
	}
	return nil
}

// Validate runs all the rbtree rule validations and combines the failures.
func Validate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	return multierr.Combine(
		RootColorValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree),
		ParentLinkValidate[K, V](tree),
		HeightValidate[K, V](tree),
	)
}
