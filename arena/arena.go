// Package arena provides the bump allocator that owns every AST node
// and slice produced by a parse. Nodes are never freed individually;
// dropping the arena drops the whole forest at once.
package arena

import "reflect"

// minChunk 是每个 slab 块的元素数下限，maxChunk 是块大小倍增的上限
const (
	minChunk = 64
	maxChunk = 4096
)

// slab 是单一类型的块式分配器
type slab[T any] struct {
	chunks [][]T
	next   int // 预分配容量，倍增直到 maxChunk
}

func (s *slab[T]) alloc() *T {
	n := len(s.chunks)
	if n == 0 || len(s.chunks[n-1]) == cap(s.chunks[n-1]) {
		size := s.next
		if size < minChunk {
			size = minChunk
		}
		if s.next < maxChunk {
			s.next = size * 2
		}
		s.chunks = append(s.chunks, make([]T, 0, size))
		n++
	}
	c := s.chunks[n-1]
	c = c[:len(c)+1]
	s.chunks[n-1] = c
	return &c[len(c)-1]
}

func (s *slab[T]) appendSlice(xs []T) []T {
	n := len(s.chunks)
	if n == 0 || cap(s.chunks[n-1])-len(s.chunks[n-1]) < len(xs) {
		size := s.next
		if size < minChunk {
			size = minChunk
		}
		for size < len(xs) {
			size *= 2
		}
		if s.next < maxChunk {
			s.next = size * 2
		}
		s.chunks = append(s.chunks, make([]T, 0, size))
		n++
	}
	c := s.chunks[n-1]
	start := len(c)
	c = append(c, xs...)
	s.chunks[n-1] = c
	return c[start:len(c):len(c)]
}

// Arena 按类型维护 slab 的集合
type Arena struct {
	slabs map[reflect.Type]any
}

// NewArena 创建空的 Arena
func NewArena() *Arena {
	return &Arena{slabs: make(map[reflect.Type]any)}
}

func slabFor[T any](a *Arena) *slab[T] {
	key := reflect.TypeFor[T]()
	if s, ok := a.slabs[key]; ok {
		return s.(*slab[T])
	}
	s := &slab[T]{}
	a.slabs[key] = s
	return s
}

// New 在 Arena 中分配一个 T 并返回指针。返回的指针在 Arena 存活
// 期间有效。
func New[T any](a *Arena) *T {
	return slabFor[T](a).alloc()
}

// Slice 把 xs 复制进 Arena 拥有的后备存储并返回定长切片。
// 解析器用它把暂存列表封存为节点载荷；返回的切片容量等于长度，
// 追加不会越界写入后续分配。
func Slice[T any](a *Arena, xs []T) []T {
	if len(xs) == 0 {
		return nil
	}
	return slabFor[T](a).appendSlice(xs)
}
