package tree

import (
	"sync/atomic"

	"github.com/benz9527/xrbtree/lib/infra"
)

type rbNode[K infra.OrderedKey, V any] struct {
	parent *rbNode[K, V] // Back reference only, the parent owns us by left or right.
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

// Absent children are black.
func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) direction() RBDirection {
	if node.parent == nil {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) child(dir RBDirection) *rbNode[K, V] {
	switch dir {
	case Left:
		return node.left
	case Right:
		return node.right
	default:
	}
	// impossible run to here
	panic( /* debug assertion */ "[rbtree] child without direction")
}

// setChild links c under node at dir and repairs c's parent link.
func (node *rbNode[K, V]) setChild(dir RBDirection, c *rbNode[K, V]) {
	switch dir {
	case Left:
		node.left = c
	case Right:
		node.right = c
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] set child without direction")
	}
	if c != nil {
		c.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

func (node *rbNode[K, V]) unlink() {
	node.parent = nil
	node.left = nil
	node.right = nil
}

type rbTree[K infra.OrderedKey, V any] struct {
	root             *rbNode[K, V]
	count            int64
	cmp              infra.OrderedKeyComparator[K]
	dupPolicy        RBDuplicatePolicy
	isDesc           bool
	isRmBorrowPred   bool
	isInvariantCheck bool
	statsName        string
	stats            *rbTreeStats
}

func (tree *rbTree[K, V]) IsDesc() bool {
	return tree.isDesc
}

func (tree *rbTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// Height counts the nodes on the longest downward path from the root.
// The walk follows the parent links back up, so it needs no stack.
func (tree *rbTree[K, V]) Height() int {
	var prev *rbNode[K, V]
	height, depth := 0, 1
	for aux := tree.root; aux != nil; {
		var next *rbNode[K, V]
		switch prev {
		case aux.parent:
			height = max(height, depth)
			if aux.left != nil {
				next = aux.left
			} else {
				next = aux.right
			}
		case aux.left:
			next = aux.right
		}
		if next != nil {
			prev, aux = aux, next
			depth++
			continue
		}
		prev, aux = aux, aux.parent
		depth--
	}
	return height
}

// search returns the node holding key. Otherwise, it returns nil with the
// last visited node (the would-be parent) and the side to attach on.
func (tree *rbTree[K, V]) search(key K) (x, parent *rbNode[K, V], dir RBDirection) {
	dir = Root
	if infra.IsUnorderedKey(key) {
		return nil, nil, dir
	}
	for x = tree.root; x != nil; {
		res := tree.cmp(key, x.key)
		if /* equal */ res == 0 {
			return x, parent, dir
		}
		parent = x
		if /* less */ res < 0 {
			dir, x = Left, x.left
		} else /* greater */ {
			dir, x = Right, x.right
		}
	}
	return nil, parent, dir
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	x, _, _ := tree.search(key)
	return x != nil
}

func (tree *rbTree[K, V]) Get(key K) (val V, ok bool) {
	x, _, _ := tree.search(key)
	if x == nil {
		return val, false
	}
	return x.val, true
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest path nodes' number is at most 2 * shortest path nodes' number.

/*
rotate(X, Left), the left rotation:

		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc

rotate(X, Right) is the mirror, it promotes X.left.
Colors are never touched.
*/
func (tree *rbTree[K, V]) rotate(x *rbNode[K, V], dir RBDirection) {
	if x == nil || (dir != Left && dir != Right) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate nil node or without direction")
	}
	y := x.child(-dir)
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate node without the promoted child")
	}

	p, xDir := x.parent, x.direction()
	x.setChild(-dir, y.child(dir))
	y.setChild(dir, x)
	y.parent = p
	if xDir == Root {
		tree.root = y
	} else {
		p.setChild(xDir, y)
	}
	tree.stats.IncreaseRotationCount(dir)
}

func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	tree.rotate(x, Left)
}

func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	tree.rotate(x, Right)
}

// Insert
// i1: Empty rbtree, the new node becomes the root and is painted black.
// i2: Attach a red leaf under the node where the search stopped, then
// rebalance.
// A duplicate key is handled by the tree duplicate policy.
// A NaN key is rejected, it has no place in the order.
func (tree *rbTree[K, V]) Insert(key K, val V) error {
	if infra.IsUnorderedKey(key) {
		return infra.WrapErrorStack(ErrRBTreeInvalidKey)
	}
	x, parent, dir := tree.search(key)
	if /* duplicate */ x != nil {
		tree.stats.IncreaseDuplicateCount()
		switch tree.dupPolicy {
		case IgnoreDuplicate:
		case ReplaceDuplicateVal:
			x.val = val
		default:
			return infra.WrapErrorStack(ErrRBTreeDuplicateKey)
		}
		return nil
	}

	z := &rbNode[K, V]{
		key:   key,
		val:   val,
		color: Red,
	}
	if /* i1 */ parent == nil {
		z.color = Black
		tree.root = z
	} else /* i2 */ {
		parent.setChild(dir, z)
		tree.insertRebalance(z)
	}
	atomic.AddInt64(&tree.count, 1)
	tree.stats.IncreaseInsertCount()
	tree.validate()
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

Loop while X's parent P is red (red-violation). P can't be the root, so the
grandpa G exists and is black.

im1: The uncle U is red.
Repaint P and U into black, G into red.
G may be red-violation with its parent now, continue with G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: The uncle U is black, X is the inner grandchild (opposite direction
to P). Rotate P towards the outside, X and P swap their roles. Enter im3.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: The uncle U is black, X is the outer grandchild.
Repaint P into black, G into red and rotate G opposite to the lean.
No red-violation left.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

Finally, the root is painted into black.
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for x.parent.isRed() {
		p := x.parent
		g := p.parent
		if g == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] red parent without grandpa, violate (p5)")
		}
		pDir := p.direction()
		if u := g.child(-pDir); /* im1 */ u.isRed() {
			p.color, u.color, g.color = Black, Black, Red
			x = g
			continue
		}

		if /* im2 */ x.direction() == -pDir {
			tree.rotate(p, pDir)
			x, p = p, x
		}

		/* im3 */
		p.color, g.color = Black, Red
		tree.rotate(g, -pDir)
		break
	}
	tree.root.color = Black
}

func (tree *rbTree[K, V]) Delete(key K) error {
	z, _, _ := tree.search(key)
	if z == nil {
		tree.stats.IncreaseNotFoundCount()
		return infra.WrapErrorStack(ErrRBTreeKeyNotFound)
	}
	tree.removeNode(z)
	atomic.AddInt64(&tree.count, -1)
	tree.stats.IncreaseDeleteCount()
	tree.validate()
	return nil
}

/*
r1: Node Z has left and right children.
Copy the succ (or pred) key and value into Z, then remove the succ (or
pred) node Y instead. Y has one child at most.

Borrow succ:

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   copy(S, Z)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..               (Y) ..

r2: Y is red. Splice its child X (maybe NIL) into Y's place.

r3: Y is black and X is red. Splice X and repaint it into black.

r4: Y is black and X is black or NIL. Splice X and then X carries a black
deficit (doubly black), rebalance from X's position.

Y is unlinked from the tree at last.
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) {
	y := z
	if /* r1 */ z.left != nil && z.right != nil {
		if tree.isRmBorrowPred {
			y = z.left.maximum()
		} else {
			y = z.right.minimum()
		}
		z.key, z.val = y.key, y.val
	}

	x := y.left
	if x == nil {
		x = y.right
	}
	p, dir := y.parent, y.direction()
	if dir == Root {
		tree.root = x
		if x != nil {
			x.parent = nil
		}
	} else {
		p.setChild(dir, x)
	}

	if y.isBlack() {
		if /* r3 */ x.isRed() {
			x.color = Black
		} else /* r4 */ {
			tree.removeRebalance(x, p)
		}
	}
	y.unlink()
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the doubly black position and may be NIL, so its parent P is tracked
along with it. The sibling S always exists, otherwise p4 was broken before.
Sc is the S's child in the same direction as X (near).
Sd is the S's child in the opposite direction to X (far).

rm1: S is red, so P, Sc and Sd are black.
Repaint S into black, P into red and rotate P towards X.
X gets a black sibling, continue with rm2-rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black.
Repaint S into red, the deficit moves up to P.
A red P ends the loop and is painted into black.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black.
Repaint Sc into black, S into red and rotate S away from X.
Enter rm4.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: S is black and Sd is red.
S takes P's color, P and Sd are painted into black, rotate P towards X.
The deficit is repaired.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x, p *rbNode[K, V]) {
	for x != tree.root && x.isBlack() {
		dir := Left
		if x != p.left {
			dir = Right
		}
		s := p.child(-dir)
		if s == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] doubly black node without sibling, violate (p4)")
		}

		if /* rm1 */ s.isRed() {
			s.color, p.color = Black, Red
			tree.rotate(p, dir)
			s = p.child(-dir)
		}

		sc, sd := s.child(dir), s.child(-dir)
		if /* rm2 */ sc.isBlack() && sd.isBlack() {
			s.color = Red
			x, p = p, p.parent
			continue
		}

		if /* rm3 */ sd.isBlack() {
			sc.color, s.color = Black, Red
			tree.rotate(s, -dir)
			s = p.child(-dir)
			sd = s.child(-dir)
		}

		/* rm4 */
		s.color, p.color, sd.color = p.color, Black, Black
		tree.rotate(p, dir)
		x = tree.root
		break
	}
	if x != nil {
		x.color = Black
	}
}

// Foreach walks in order until the action returns false.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, 32)
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Release unlinks all nodes.
func (tree *rbTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, 64)
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.unlink()
		atomic.AddInt64(&tree.count, -1)
	}
}

// validate is enabled by WithRBTreeInvariantCheck. A violation is a defect
// of the balancing code, it is never returned to the caller.
func (tree *rbTree[K, V]) validate() {
	if !tree.isInvariantCheck {
		return
	}
	if err := Validate[K, V](tree); err != nil {
		panic(err)
	}
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeRemoveBorrowPred removes a node with two children by its
// in-order predecessor instead of the successor.
func WithRBTreeRemoveBorrowPred[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowPred = true
	}
}

func WithRBTreeDuplicatePolicy[K infra.OrderedKey, V any](policy RBDuplicatePolicy) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.dupPolicy = policy
	}
}

// WithRBTreeInvariantCheck validates the whole tree after every mutation
// and panics on violation. O(n) per mutation, for tests and debugging.
func WithRBTreeInvariantCheck[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isInvariantCheck = true
	}
}

func WithRBTreeStats[K infra.OrderedKey, V any](name string) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.statsName = name
	}
}

func newRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	tree := &rbTree[K, V]{
		dupPolicy: RejectDuplicate,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.isDesc {
		tree.cmp = infra.DescOrderedKeyCompare[K]
	} else {
		tree.cmp = infra.AscOrderedKeyCompare[K]
	}
	if len(tree.statsName) > 0 {
		tree.stats = newRBTreeStats(tree.statsName, tree.Len)
	}
	return tree
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](opts...)
}
