package tree

import (
	"iter"
	"sync"

	"github.com/benz9527/xrbtree/lib/infra"
)

// threadSafeRBTree serializes the mutations with the write lock. Readers
// share the read lock, a traversal holds it until the range loop ends, so
// the loop body must not mutate the same tree.
type threadSafeRBTree[K infra.OrderedKey, V any] struct {
	lock sync.RWMutex
	tree *rbTree[K, V]
}

func (t *threadSafeRBTree[K, V]) Len() int64 {
	return t.tree.Len()
}

func (t *threadSafeRBTree[K, V]) IsDesc() bool {
	return t.tree.IsDesc()
}

func (t *threadSafeRBTree[K, V]) Height() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Height()
}

// Root escapes the lock, the node must be read only while no writer runs.
func (t *threadSafeRBTree[K, V]) Root() RBNode[K, V] {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Root()
}

func (t *threadSafeRBTree[K, V]) Insert(key K, val V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.Insert(key, val)
}

func (t *threadSafeRBTree[K, V]) Delete(key K) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.tree.Delete(key)
}

func (t *threadSafeRBTree[K, V]) Contains(key K) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Contains(key)
}

func (t *threadSafeRBTree[K, V]) Get(key K) (V, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Get(key)
}

func (t *threadSafeRBTree[K, V]) Traverse(order RBTraverseOrder) iter.Seq2[K, RBColor] {
	return func(yield func(K, RBColor) bool) {
		t.lock.RLock()
		defer t.lock.RUnlock()
		t.tree.Traverse(order)(yield)
	}
}

func (t *threadSafeRBTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	t.tree.Foreach(action)
}

func (t *threadSafeRBTree[K, V]) Release() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Release()
}

func NewThreadSafeRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return &threadSafeRBTree[K, V]{
		tree: newRBTree[K, V](opts...),
	}
}
