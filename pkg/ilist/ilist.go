// Package ilist provides an intrusive doubly-linked list. Values embed
// an Entry and can then be linked into a List without any per-element
// allocation.
package ilist

type Element interface {
	Next() Element
	Prev() Element
	SetNext(Element)
	SetPrev(Element)
}

// Entry is embedded into values that participate in a List.
type Entry struct {
	next Element
	prev Element
}

func (e *Entry) Next() Element {
	return e.next
}

func (e *Entry) Prev() Element {
	return e.prev
}

func (e *Entry) SetNext(n Element) {
	e.next = n
}

func (e *Entry) SetPrev(p Element) {
	e.prev = p
}

type List struct {
	head Element
	tail Element
}

func (l *List) Empty() bool {
	return l.head == nil
}

func (l *List) Front() Element {
	return l.head
}

func (l *List) Back() Element {
	return l.tail
}

func (l *List) PushBack(e Element) {
	e.SetNext(nil)
	e.SetPrev(l.tail)

	if l.tail != nil {
		l.tail.SetNext(e)
	} else {
		l.head = e
	}

	l.tail = e
}

func (l *List) Remove(e Element) {
	prev := e.Prev()
	next := e.Next()

	if prev != nil {
		prev.SetNext(next)
	} else if l.head == e {
		l.head = next
	}

	if next != nil {
		next.SetPrev(prev)
	} else if l.tail == e {
		l.tail = prev
	}

	e.SetNext(nil)
	e.SetPrev(nil)
}
