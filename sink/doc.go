// Package sink implements the heap's backing memory: a single contiguous,
// growable byte slice standing in for the brk/sbrk-managed address space a
// native allocator would request from the operating system. It owns no
// allocator semantics of its own — no headers, no free lists — only the
// raw bytes and the bookkeeping needed to grow them, the same separation of
// concerns the hive library this allocator borrows its structure from keeps
// between its file-backed byte buffer and the cell allocator layered on top
// of it.
package sink
