// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package llist provides a minimal doubly-linked list, used as the ordering
// primitive for the LRU priority-queue variant and for the ARC engine's
// four recency/frequency lists.
//
// The list is threaded through a sentinel root entry (the same trick as the
// standard library's pre-generics container/list), so Oldest/Newest are the
// sentinel's neighbours and every splice is unconditional, with no
// end-of-list cases. Entries carry no back-reference to their owning List:
// every caller of this package maintains its own K-keyed index of *Entry
// and never touches an entry it hasn't looked up there first.
package llist

// Entry is an entry in a List.
type Entry[T any] struct {
	next, prev *Entry[T]
	Value      T
}

// List is a doubly-linked list threaded through a sentinel root entry.
//
// Rather than "head/tail", "front/back", or "next/prev", it has
// "oldest"/"newest"; this is meaningful because the list's sole purpose in
// this module is as an implementation detail of recency-ordered structures.
type List[T any] struct {
	root Entry[T]
	Len  int
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// IsEmpty returns whether the list is empty.
func (l *List[T]) IsEmpty() bool { return l.Len == 0 }

// Oldest returns the oldest (least-recently-touched) entry, or nil if the
// list is empty.
func (l *List[T]) Oldest() *Entry[T] {
	if l.Len == 0 {
		return nil
	}
	return l.root.next
}

// Newest returns the newest (most-recently-touched) entry, or nil if the
// list is empty.
func (l *List[T]) Newest() *Entry[T] {
	if l.Len == 0 {
		return nil
	}
	return l.root.prev
}

// splice unlinks entry from wherever it currently sits. The caller is
// responsible for knowing that entry is actually a member of l.
func (l *List[T]) splice(entry *Entry[T]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.next = nil
	entry.prev = nil
	l.Len--
}

// insertAfter splices entry into the list immediately after at.
func (l *List[T]) insertAfter(entry, at *Entry[T]) {
	entry.prev = at
	entry.next = at.next
	at.next.prev = entry
	at.next = entry
	l.Len++
}

// Delete removes entry from the list. The entry is invalid once Delete
// returns.
func (l *List[T]) Delete(entry *Entry[T]) {
	l.splice(entry)
}

// Store appends a value to the "newest" end of the list, returning the
// created entry.
func (l *List[T]) Store(value T) *Entry[T] {
	l.lazyInit()
	entry := &Entry[T]{Value: value}
	l.insertAfter(entry, l.root.prev)
	return entry
}

// MoveToNewest moves an entry from any position in the list to the
// "newest" end. If the entry is already newest, this is a no-op.
func (l *List[T]) MoveToNewest(entry *Entry[T]) {
	if l.root.prev == entry {
		return
	}
	l.splice(entry)
	l.insertAfter(entry, l.root.prev)
}

// Range calls fn for each entry from oldest to newest, stopping early if
// fn returns false.
func (l *List[T]) Range(fn func(*Entry[T]) bool) {
	l.lazyInit()
	for entry := l.root.next; entry != &l.root; entry = entry.next {
		if !fn(entry) {
			return
		}
	}
}
