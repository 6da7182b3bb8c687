package tree

import (
	"errors"
	"iter"

	"github.com/benz9527/xrbtree/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

//go:generate stringer -type=RBTraverseOrder
type RBTraverseOrder uint8

const (
	PreOrder RBTraverseOrder = iota
	InOrder
	PostOrder
)

//go:generate stringer -type=RBDuplicatePolicy
type RBDuplicatePolicy uint8

const (
	// RejectDuplicate returns ErrRBTreeDuplicateKey and keeps the tree untouched.
	RejectDuplicate RBDuplicatePolicy = iota
	// IgnoreDuplicate drops the insertion silently.
	IgnoreDuplicate
	// ReplaceDuplicateVal overwrites the stored value, the key set is unchanged.
	ReplaceDuplicateVal
)

var (
	ErrRBTreeDuplicateKey       = errors.New("[rbtree] duplicate key")
	ErrRBTreeKeyNotFound        = errors.New("[rbtree] key not found")
	ErrRBTreeInvalidKey         = errors.New("[rbtree] invalid key")
	ErrRBTreeInvariantViolation = errors.New("[rbtree] invariant violation")
)

type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is not goroutine safe, see NewThreadSafeRBTree.
// Mutating a tree while ranging over one of its traversals is undefined.
type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Height() int
	IsDesc() bool
	Root() RBNode[K, V]
	Insert(key K, val V) error
	Delete(key K) error
	Contains(key K) bool
	Get(key K) (V, bool)
	Traverse(order RBTraverseOrder) iter.Seq2[K, RBColor]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Release()
}

type RBSet[K infra.OrderedKey] interface {
	Len() int64
	Insert(key K) error
	Delete(key K) error
	Contains(key K) bool
	Traverse(order RBTraverseOrder) iter.Seq2[K, RBColor]
	Keys() []K
}
