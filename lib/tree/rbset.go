package tree

import (
	"iter"

	"github.com/benz9527/xrbtree/lib/infra"
)

type rbSet[K infra.OrderedKey] struct {
	tree RBTree[K, struct{}]
}

func (s *rbSet[K]) Len() int64 {
	return s.tree.Len()
}

func (s *rbSet[K]) Insert(key K) error {
	return s.tree.Insert(key, struct{}{})
}

func (s *rbSet[K]) Delete(key K) error {
	return s.tree.Delete(key)
}

func (s *rbSet[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

func (s *rbSet[K]) Traverse(order RBTraverseOrder) iter.Seq2[K, RBColor] {
	return s.tree.Traverse(order)
}

// Keys returns the keys in tree order.
func (s *rbSet[K]) Keys() []K {
	keys := make([]K, 0, s.tree.Len())
	for key := range s.tree.Traverse(InOrder) {
		keys = append(keys, key)
	}
	return keys
}

// NewRBSet builds a set on the rbtree, isThreadSafe selects the locked tree.
func NewRBSet[K infra.OrderedKey](isThreadSafe bool, opts ...RBTreeOpt[K, struct{}]) RBSet[K] {
	if isThreadSafe {
		return &rbSet[K]{tree: NewThreadSafeRBTree[K, struct{}](opts...)}
	}
	return &rbSet[K]{tree: NewRBTree[K, struct{}](opts...)}
}
