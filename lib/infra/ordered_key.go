package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey is the key constraint of the ordered containers.
// byte => ~uint8
// NaN float keys are not totally ordered, see IsUnorderedKey.
type OrderedKey interface {
	Integer | Float | ~string
}

// IsUnorderedKey reports a NaN key. NaN is neither less nor greater than
// any key, itself included, so the ordered containers reject it.
func IsUnorderedKey[K OrderedKey](key K) bool {
	return key != key
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j, return 0.
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

func AscOrderedKeyCompare[K OrderedKey](i, j K) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}

func DescOrderedKeyCompare[K OrderedKey](i, j K) int64 {
	return -AscOrderedKeyCompare[K](i, j)
}
