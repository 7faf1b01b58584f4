// Package layout provides the low-level word codec and alignment arithmetic
// shared by every allocator variant in package alloc. It packs and unpacks
// the (size, alloc_bit) header/footer word and performs the 8-byte alignment
// rounding the allocator relies on everywhere. It is allocation-free and has
// no knowledge of blocks, free lists, or the heap layout above it — those
// live in package alloc, which builds on top of these primitives the same
// way higher-level packages build on internal/format in the hive library
// this allocator's wire plumbing is modeled after.
package layout
