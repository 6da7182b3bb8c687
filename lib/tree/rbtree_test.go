package tree

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xrbtree/lib/infra"
)

type checkData[K infra.OrderedKey] struct {
	color RBColor
	key   K
}

func collect[K infra.OrderedKey, V any](tree RBTree[K, V], order RBTraverseOrder) []checkData[K] {
	res := make([]checkData[K], 0, tree.Len())
	for key, color := range tree.Traverse(order) {
		res = append(res, checkData[K]{color: color, key: key})
	}
	return res
}

func requireValid[K infra.OrderedKey, V any](t *testing.T, tree RBTree[K, V]) {
	t.Helper()
	require.NoError(t, RootColorValidate[K, V](tree))
	require.NoError(t, RedViolationValidate[K, V](tree))
	require.NoError(t, BlackViolationValidate[K, V](tree))
	require.NoError(t, OrderViolationValidate[K, V](tree))
	require.NoError(t, ParentLinkValidate[K, V](tree))
	require.NoError(t, HeightValidate[K, V](tree))
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64, uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64, uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.True(t, nilNode2.isBlack())
	require.False(t, nilNode2.isRed())
	require.Nil(t, nilNode2.Left())
	require.Nil(t, nilNode2.Right())
	require.Nil(t, nilNode2.Parent())

	tree := newRBTree[uint64, uint64]()
	require.Nil(t, tree.Root())
	require.Equal(t, 0, tree.Height())
}

func TestRBEnumsString(t *testing.T) {
	require.Equal(t, "Black", Black.String())
	require.Equal(t, "Red", Red.String())
	require.Equal(t, "RBColor(2)", RBColor(2).String())
	require.Equal(t, "Left", Left.String())
	require.Equal(t, "Root", Root.String())
	require.Equal(t, "Right", Right.String())
	require.Equal(t, "RBDirection(2)", RBDirection(2).String())
	require.Equal(t, "PreOrder", PreOrder.String())
	require.Equal(t, "InOrder", InOrder.String())
	require.Equal(t, "PostOrder", PostOrder.String())
	require.Equal(t, "RejectDuplicate", RejectDuplicate.String())
	require.Equal(t, "IgnoreDuplicate", IgnoreDuplicate.String())
	require.Equal(t, "ReplaceDuplicateVal", ReplaceDuplicateVal.String())
}

/*
	    [10]                    <20>
	    /  \                    /  \
	 [5]   <20>    l-rotate  [10]  [25]
	       /  \    ======>   /  \
	    [15]  [25]         [5] [15]
*/
func TestRbtreeLeftAndRightRotate(t *testing.T) {
	mk := func(key int, color RBColor) *rbNode[int, int] {
		return &rbNode[int, int]{key: key, val: key, color: color}
	}
	n10, n5, n20, n15, n25 := mk(10, Black), mk(5, Black), mk(20, Red), mk(15, Black), mk(25, Black)
	n10.setChild(Left, n5)
	n10.setChild(Right, n20)
	n20.setChild(Left, n15)
	n20.setChild(Right, n25)
	tree := newRBTree[int, int]()
	tree.root = n10
	tree.count = 5

	tree.leftRotate(n10)
	require.Equal(t, n20, tree.root)
	require.Nil(t, n20.parent)
	require.Equal(t, n10, n20.left)
	require.Equal(t, n25, n20.right)
	require.Equal(t, n20, n10.parent)
	require.Equal(t, n5, n10.left)
	require.Equal(t, n15, n10.right)
	require.Equal(t, n10, n15.parent)
	require.Equal(t, Red, n20.color)
	require.Equal(t, Black, n10.color)
	require.NoError(t, ParentLinkValidate[int, int](tree))
	require.NoError(t, OrderViolationValidate[int, int](tree))

	tree.rightRotate(n20)
	require.Equal(t, n10, tree.root)
	require.Nil(t, n10.parent)
	require.Equal(t, n5, n10.left)
	require.Equal(t, n20, n10.right)
	require.Equal(t, n15, n20.left)
	require.Equal(t, n25, n20.right)
	require.Equal(t, n20, n15.parent)
	require.NoError(t, ParentLinkValidate[int, int](tree))
	requireValid[int, int](t, tree)

	// Rotate a non-root node keeps the parent link side.
	tree.rightRotate(n20)
	require.Equal(t, n15, n10.right)
	require.Equal(t, n10, n15.parent)
	require.Equal(t, n20, n15.right)
	require.Nil(t, n20.left)
	require.NoError(t, ParentLinkValidate[int, int](tree))
	require.NoError(t, OrderViolationValidate[int, int](tree))

	require.Panics(t, func() { tree.leftRotate(n5) })
	require.Panics(t, func() { tree.rightRotate(n5) })
	require.Panics(t, func() { tree.rotate(nil, Left) })
	require.Panics(t, func() { tree.rotate(n10, Root) })
}

func TestRbtreeScenario_InsertAndDelete(t *testing.T) {
	type step struct {
		key      int
		expected []checkData[int]
	}
	steps := []step{
		{2, []checkData[int]{{Black, 2}}},
		{1, []checkData[int]{{Black, 2}, {Red, 1}}},
		{4, []checkData[int]{{Black, 2}, {Red, 1}, {Red, 4}}},
		{5, []checkData[int]{{Black, 2}, {Black, 1}, {Black, 4}, {Red, 5}}},
		{9, []checkData[int]{{Black, 2}, {Black, 1}, {Black, 5}, {Red, 4}, {Red, 9}}},
		{3, []checkData[int]{{Black, 2}, {Black, 1}, {Red, 5}, {Black, 4}, {Red, 3}, {Black, 9}}},
		{6, []checkData[int]{{Black, 2}, {Black, 1}, {Red, 5}, {Black, 4}, {Red, 3}, {Black, 9}, {Red, 6}}},
		{7, []checkData[int]{{Black, 2}, {Black, 1}, {Red, 5}, {Black, 4}, {Red, 3}, {Black, 7}, {Red, 6}, {Red, 9}}},
	}

	testcases := []struct {
		name     string
		opts     []RBTreeOpt[int, struct{}]
		expected []checkData[int]
	}{
		{
			name:     "rm by succ",
			expected: []checkData[int]{{Black, 2}, {Black, 1}, {Red, 6}, {Black, 4}, {Red, 3}, {Black, 7}, {Red, 9}},
		},
		{
			name:     "rm by pred",
			opts:     []RBTreeOpt[int, struct{}]{WithRBTreeRemoveBorrowPred[int, struct{}]()},
			expected: []checkData[int]{{Black, 2}, {Black, 1}, {Red, 4}, {Black, 3}, {Black, 7}, {Red, 6}, {Red, 9}},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewRBTree[int, struct{}](tc.opts...)
			for _, s := range steps {
				require.NoError(tt, tree.Insert(s.key, struct{}{}))
				require.Equal(tt, s.expected, collect[int, struct{}](tree, PreOrder))
				requireValid[int, struct{}](tt, tree)
			}
			require.Equal(tt,
				[]checkData[int]{{Black, 1}, {Red, 3}, {Black, 4}, {Red, 6}, {Red, 9}, {Black, 7}, {Red, 5}, {Black, 2}},
				collect[int, struct{}](tree, PostOrder),
			)

			require.NoError(tt, tree.Delete(5))
			require.False(tt, tree.Contains(5))
			require.Equal(tt, tc.expected, collect[int, struct{}](tree, PreOrder))
			requireValid[int, struct{}](tt, tree)
			keys := lo.Map(collect[int, struct{}](tree, InOrder), func(item checkData[int], _ int) int {
				return item.key
			})
			require.Equal(tt, []int{1, 2, 3, 4, 6, 7, 9}, keys)
			require.Equal(tt, int64(7), tree.Len())
		})
	}
}

func TestRbtreeSingleRoot(t *testing.T) {
	tree := NewRBTree[int, string]()
	require.NoError(t, tree.Insert(42, "answer"))
	root := tree.Root()
	require.NotNil(t, root)
	require.Equal(t, 42, root.Key())
	require.Equal(t, "answer", root.Val())
	require.Equal(t, Black, root.Color())
	require.Nil(t, root.Parent())
	require.Equal(t, 1, tree.Height())

	require.NoError(t, tree.Delete(42))
	require.Nil(t, tree.Root())
	require.Equal(t, int64(0), tree.Len())
	for _, k := range []int{42, 0, -1, 100} {
		require.False(t, tree.Contains(k))
	}
	_, ok := tree.Get(42)
	require.False(t, ok)
}

func TestRbtreeDeleteAbsent(t *testing.T) {
	tree := NewRBTree[int, int]()
	err := tree.Delete(1)
	require.ErrorIs(t, err, ErrRBTreeKeyNotFound)

	for _, k := range []int{2, 1, 4, 5, 9, 3, 6, 7} {
		require.NoError(t, tree.Insert(k, k))
	}
	before := collect[int, int](tree, PreOrder)
	for _, k := range []int{0, 8, 10, -5} {
		require.False(t, tree.Contains(k))
		require.ErrorIs(t, tree.Delete(k), ErrRBTreeKeyNotFound)
		require.Equal(t, before, collect[int, int](tree, PreOrder))
		require.Equal(t, int64(8), tree.Len())
	}
}

func TestRbtreeDuplicatePolicy(t *testing.T) {
	testcases := []struct {
		name        string
		policy      RBDuplicatePolicy
		expectedErr error
		expectedVal string
	}{
		{"reject", RejectDuplicate, ErrRBTreeDuplicateKey, "first"},
		{"ignore", IgnoreDuplicate, nil, "first"},
		{"replace", ReplaceDuplicateVal, nil, "second"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewRBTree[string, string](WithRBTreeDuplicatePolicy[string, string](tc.policy))
			for _, k := range []string{"m", "c", "x", "a"} {
				require.NoError(tt, tree.Insert(k, "first"))
			}
			before := collect[string, string](tree, PreOrder)

			err := tree.Insert("c", "second")
			if tc.expectedErr != nil {
				require.ErrorIs(tt, err, tc.expectedErr)
			} else {
				require.NoError(tt, err)
			}
			val, ok := tree.Get("c")
			require.True(tt, ok)
			require.Equal(tt, tc.expectedVal, val)
			require.Equal(tt, int64(4), tree.Len())
			require.Equal(tt, before, collect[string, string](tree, PreOrder))
			requireValid[string, string](tt, tree)
		})
	}
}

/*
Removal with pred borrowing, the same as:

	    [47]
	    /  \
	 [24]  [52]
	 /  \
	<3> <35>
*/
func TestRbtreeRemove_Pred(t *testing.T) {
	tree := NewRBTree[uint64, uint64](WithRBTreeRemoveBorrowPred[uint64, uint64]())
	for _, k := range []uint64{52, 47, 3, 35, 24} {
		require.NoError(t, tree.Insert(k, 1))
		requireValid[uint64, uint64](t, tree)
	}
	require.Equal(t, []checkData[uint64]{
		{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52},
	}, collect[uint64, uint64](tree, InOrder))

	testcases := []struct {
		key      uint64
		expected []checkData[uint64]
	}{
		{24, []checkData[uint64]{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}}},
		{47, []checkData[uint64]{{Black, 3}, {Black, 35}, {Black, 52}}},
		{52, []checkData[uint64]{{Red, 3}, {Black, 35}}},
		{3, []checkData[uint64]{{Black, 35}}},
		{35, []checkData[uint64]{}},
	}
	for _, tc := range testcases {
		require.NoError(t, tree.Delete(tc.key))
		require.Equal(t, tc.expected, collect[uint64, uint64](tree, InOrder))
		requireValid[uint64, uint64](t, tree)
	}
	require.Equal(t, int64(0), tree.Len())
}

func TestRbtreeRemove_Succ(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for _, k := range []uint64{52, 47, 3, 35, 24} {
		require.NoError(t, tree.Insert(k, k))
	}

	testcases := []struct {
		key      uint64
		expected []checkData[uint64]
	}{
		{24, []checkData[uint64]{{Red, 3}, {Black, 35}, {Black, 47}, {Black, 52}}},
		{47, []checkData[uint64]{{Black, 3}, {Black, 35}, {Black, 52}}},
		{52, []checkData[uint64]{{Red, 3}, {Black, 35}}},
		{3, []checkData[uint64]{{Black, 35}}},
		{35, []checkData[uint64]{}},
	}
	for _, tc := range testcases {
		require.NoError(t, tree.Delete(tc.key))
		require.Equal(t, tc.expected, collect[uint64, uint64](tree, InOrder))
		requireValid[uint64, uint64](t, tree)
		tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
			// The borrowed value travels with its key.
			require.Equal(t, key, val)
			return true
		})
	}
	require.Equal(t, int64(0), tree.Len())
}

func rbtreeInsertAndRemoveSequentialNumberRunCore(t *testing.T, opts ...RBTreeOpt[uint64, uint64]) {
	total := uint64(1000)
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	tree := newRBTree[uint64, uint64](opts...)
	for i := uint64(0); i < insertTotal+removeTotal; i++ {
		require.NoError(t, tree.Insert(i, i))
		require.NoError(t, Validate[uint64, uint64](tree))
	}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		require.NoError(t, tree.Delete(i))
		require.False(t, tree.Contains(i))
		require.NoError(t, Validate[uint64, uint64](tree))
	}
	require.Equal(t, int64(insertTotal), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
}

func TestRbtreeInsertAndRemove_SequentialNumber(t *testing.T) {
	testcases := []struct {
		name string
		opts []RBTreeOpt[uint64, uint64]
	}{
		{
			name: "rm by succ",
		},
		{
			name: "rm by pred",
			opts: []RBTreeOpt[uint64, uint64]{WithRBTreeRemoveBorrowPred[uint64, uint64]()},
		},
		{
			name: "invariant check",
			opts: []RBTreeOpt[uint64, uint64]{WithRBTreeInvariantCheck[uint64, uint64]()},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeInsertAndRemoveSequentialNumberRunCore(tt, tc.opts...)
		})
	}
}

func TestRbtreeInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := int64(10000)
	insertTotal := int64(float64(total) * 0.8)
	removeTotal := int64(float64(total) * 0.2)

	tree := NewRBTree[int64, uint64](WithRBTreeDesc[int64, uint64]())

	rand := int64(randv2.Uint32() % 1_000)
	for i := insertTotal + removeTotal - 1; i >= 0; i-- {
		require.NoError(t, tree.Insert(i, 1))
		if i%1000 == rand {
			require.NoError(t, Validate[int64, uint64](tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, removeTotal+insertTotal-1-idx, key)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		require.NoError(t, tree.Delete(i))
		if i%1000 == rand {
			require.NoError(t, Validate[int64, uint64](tree))
		}
	}
	require.NoError(t, Validate[int64, uint64](tree))
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, insertTotal-1-idx, key)
		return true
	})
}

func TestRbtreeRandomInsertAndRemove(t *testing.T) {
	total := 2000
	keys := lo.Shuffle(lo.Range(total))
	tree := NewRBTree[int, int]()
	for i, k := range keys {
		require.NoError(t, tree.Insert(k, i))
		requireValid[int, int](t, tree)
	}
	require.Equal(t, int64(total), tree.Len())
	require.LessOrEqual(t, float64(tree.Height()), 2*math.Log2(float64(total)+1))
	inorder := lo.Map(collect[int, int](tree, InOrder), func(item checkData[int], _ int) int {
		return item.key
	})
	require.Equal(t, lo.Range(total), inorder)

	removed := lo.Shuffle(lo.Range(total))[:total/2]
	for _, k := range removed {
		require.NoError(t, tree.Delete(k))
		require.False(t, tree.Contains(k))
		requireValid[int, int](t, tree)
	}
	present, absent := lo.Difference(lo.Range(total), removed)
	require.Empty(t, absent)
	for _, k := range present {
		require.True(t, tree.Contains(k))
	}
	require.Equal(t, int64(len(present)), tree.Len())

	// Remove the rest and drain.
	for _, k := range lo.Shuffle(present) {
		require.NoError(t, tree.Delete(k))
	}
	require.Nil(t, tree.Root())
	require.Equal(t, int64(0), tree.Len())
}

func TestRbtreeTraverse(t *testing.T) {
	tree := NewRBTree[int, struct{}]()
	require.Empty(t, collect[int, struct{}](tree, PreOrder))
	require.Empty(t, collect[int, struct{}](tree, InOrder))
	require.Empty(t, collect[int, struct{}](tree, PostOrder))

	for _, k := range []int{2, 1, 4, 5, 9, 3, 6, 7} {
		require.NoError(t, tree.Insert(k, struct{}{}))
	}

	seq := tree.Traverse(InOrder)
	first := make([]int, 0, 8)
	for k := range seq {
		first = append(first, k)
	}
	second := make([]int, 0, 8)
	for k := range seq {
		second = append(second, k)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 9}, first)
	require.Equal(t, first, second)

	for _, order := range []RBTraverseOrder{PreOrder, InOrder, PostOrder} {
		visited := 0
		for range tree.Traverse(order) {
			visited++
			if visited == 3 {
				break
			}
		}
		require.Equal(t, 3, visited, order.String())
	}

	visited := 0
	tree.Foreach(func(idx int64, color RBColor, key int, val struct{}) bool {
		visited++
		return idx < 1
	})
	require.Equal(t, 2, visited)

	require.Panics(t, func() {
		for range tree.Traverse(RBTraverseOrder(9)) {
		}
	})
}

func TestRBTreeInsert_SequentialNumber_Release(t *testing.T) {
	insertTotal := uint64(100_000)
	tree := NewRBTree[uint64, uint64]()

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		require.NoError(t, tree.Insert(i, 1))
		if i%10_000 == rand {
			require.NoError(t, Validate[uint64, uint64](tree))
		}
	}
	require.NoError(t, HeightValidate[uint64, uint64](tree))
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, uint64(idx), key)
		return true
	})
	root := tree.(*rbTree[uint64, uint64]).root
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.Nil(t, root.left)
	require.Nil(t, root.right)
	require.Nil(t, root.parent)
}

func TestRbtreeValidate_Violations(t *testing.T) {
	mk := func(key int, color RBColor) *rbNode[int, int] {
		return &rbNode[int, int]{key: key, color: color}
	}
	build := func(root *rbNode[int, int], count int64) *rbTree[int, int] {
		tree := newRBTree[int, int]()
		tree.root, tree.count = root, count
		return tree
	}

	testcases := []struct {
		name     string
		tree     func() *rbTree[int, int]
		validate func(RBTree[int, int]) error
	}{
		{
			name: "red root",
			tree: func() *rbTree[int, int] {
				return build(mk(1, Red), 1)
			},
			validate: RootColorValidate[int, int],
		},
		{
			name: "red red",
			tree: func() *rbTree[int, int] {
				r, l := mk(2, Black), mk(1, Red)
				r.setChild(Left, l)
				l.setChild(Left, mk(0, Red))
				return build(r, 3)
			},
			validate: RedViolationValidate[int, int],
		},
		{
			name: "black height",
			tree: func() *rbTree[int, int] {
				r := mk(2, Black)
				r.setChild(Left, mk(1, Black))
				return build(r, 2)
			},
			validate: BlackViolationValidate[int, int],
		},
		{
			name: "order",
			tree: func() *rbTree[int, int] {
				r := mk(2, Black)
				r.setChild(Left, mk(3, Red))
				r.setChild(Right, mk(4, Red))
				return build(r, 3)
			},
			validate: OrderViolationValidate[int, int],
		},
		{
			name: "duplicate",
			tree: func() *rbTree[int, int] {
				r := mk(2, Black)
				r.setChild(Left, mk(2, Red))
				return build(r, 2)
			},
			validate: OrderViolationValidate[int, int],
		},
		{
			name: "parent link",
			tree: func() *rbTree[int, int] {
				r, l := mk(2, Black), mk(1, Red)
				r.left = l
				return build(r, 2)
			},
			validate: ParentLinkValidate[int, int],
		},
		{
			name: "height",
			tree: func() *rbTree[int, int] {
				// A chain of 6 nodes, the bound is 2 * log2(7) ~ 5.61.
				r := mk(0, Black)
				for aux, i := r, 1; i < 6; i++ {
					next := mk(i, Black)
					aux.setChild(Right, next)
					aux = next
				}
				return build(r, 6)
			},
			validate: HeightValidate[int, int],
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := tc.tree()
			require.ErrorIs(tt, tc.validate(tree), ErrRBTreeInvariantViolation)
			require.ErrorIs(tt, Validate[int, int](tree), ErrRBTreeInvariantViolation)
		})
	}
}

func TestRbtreeInvariantCheck_Panic(t *testing.T) {
	tree := newRBTree[int, int](WithRBTreeInvariantCheck[int, int]())
	for _, k := range []int{1, 2, 3} {
		require.NoError(t, tree.Insert(k, k))
	}
	// Corrupt the black height on purpose.
	tree.root.left.color = Black
	require.Panics(t, func() {
		_ = tree.Insert(4, 4)
	})
}

func TestRbtreeUnorderedKey(t *testing.T) {
	nan := math.NaN()
	testcases := []struct {
		name string
		tree RBTree[float64, int]
	}{
		{"asc", NewRBTree[float64, int](WithRBTreeInvariantCheck[float64, int]())},
		{"desc", NewRBTree[float64, int](WithRBTreeDesc[float64, int](), WithRBTreeInvariantCheck[float64, int]())},
		{"thread safe", NewThreadSafeRBTree[float64, int](WithRBTreeInvariantCheck[float64, int]())},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := tc.tree
			require.NoError(tt, tree.Insert(5, 5))
			require.ErrorIs(tt, tree.Insert(nan, 0), ErrRBTreeInvalidKey)
			require.NoError(tt, tree.Insert(7, 7))
			require.ErrorIs(tt, tree.Insert(math.Copysign(nan, -1), 0), ErrRBTreeInvalidKey)
			require.Equal(tt, int64(2), tree.Len())
			requireValid[float64, int](tt, tree)

			for _, k := range []float64{5, 7} {
				require.True(tt, tree.Contains(k))
			}
			require.False(tt, tree.Contains(nan))
			_, ok := tree.Get(nan)
			require.False(tt, ok)
			require.ErrorIs(tt, tree.Delete(nan), ErrRBTreeKeyNotFound)
			require.Equal(tt, int64(2), tree.Len())

			require.NoError(tt, tree.Insert(math.Inf(1), 1))
			require.NoError(tt, tree.Insert(math.Inf(-1), -1))
			require.True(tt, tree.Contains(5))
			requireValid[float64, int](tt, tree)
		})
	}

	set := NewRBSet[float32](false)
	require.ErrorIs(t, set.Insert(float32(nan)), ErrRBTreeInvalidKey)
	require.Equal(t, int64(0), set.Len())
}

func TestRbtreeOrderViolationValidate_Direction(t *testing.T) {
	mk := func(key int, color RBColor) *rbNode[int, int] {
		return &rbNode[int, int]{key: key, color: color}
	}
	build := func(l, r int, opts ...RBTreeOpt[int, int]) *rbTree[int, int] {
		root := mk(2, Black)
		root.setChild(Left, mk(l, Red))
		root.setChild(Right, mk(r, Red))
		tree := newRBTree[int, int](opts...)
		tree.root, tree.count = root, 3
		return tree
	}

	// Mirrored keys, a consistent direction is not enough.
	require.ErrorIs(t, OrderViolationValidate[int, int](build(3, 1)), ErrRBTreeInvariantViolation)
	require.NoError(t, Validate[int, int](build(3, 1, WithRBTreeDesc[int, int]())))
	require.ErrorIs(t, OrderViolationValidate[int, int](build(1, 3, WithRBTreeDesc[int, int]())), ErrRBTreeInvariantViolation)
	require.NoError(t, Validate[int, int](build(1, 3)))

	ts := NewThreadSafeRBTree[int, int](WithRBTreeDesc[int, int]())
	for k := 0; k < 16; k++ {
		require.NoError(t, ts.Insert(k, k))
	}
	require.True(t, ts.IsDesc())
	require.NoError(t, OrderViolationValidate[int, int](ts))
	require.False(t, NewRBTree[int, int]().IsDesc())
}

func TestRbtreeHeight(t *testing.T) {
	var depth func(node *rbNode[int, int]) int
	depth = func(node *rbNode[int, int]) int {
		if node == nil {
			return 0
		}
		return 1 + max(depth(node.left), depth(node.right))
	}

	// Unbalanced shapes, a right chain and a zigzag.
	chain, zigzag := newRBTree[int, int](), newRBTree[int, int]()
	chain.root = &rbNode[int, int]{key: 0}
	zigzag.root = &rbNode[int, int]{key: 100}
	for c, z, i := chain.root, zigzag.root, 1; i < 6; i++ {
		next := &rbNode[int, int]{key: i}
		c.setChild(Right, next)
		c = next

		dir := Left
		if i%2 == 0 {
			dir = Right
		}
		zNext := &rbNode[int, int]{key: 100 + i}
		z.setChild(dir, zNext)
		z = zNext
	}
	require.Equal(t, 6, chain.Height())
	require.Equal(t, 6, zigzag.Height())

	tree := newRBTree[int, int]()
	keys := randv2.Perm(2048)
	for i, k := range keys {
		require.NoError(t, tree.Insert(k, k))
		if i%97 == 0 {
			require.Equal(t, depth(tree.root), tree.Height())
		}
	}
	require.Equal(t, depth(tree.root), tree.Height())
	for _, k := range keys[:1024] {
		require.NoError(t, tree.Delete(k))
	}
	require.Equal(t, depth(tree.root), tree.Height())
	requireValid[int, int](t, tree)
}
