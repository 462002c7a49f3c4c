// Package cache provides size-bounded LRU caches.
//
// LRU is a single-lock cache charged by a caller supplied size function.
// Sharded spreads string keys over 64 LRU shards using maphash to reduce lock
// contention under parallel load. Both optionally report their usage to a
// resource.Controller; when the controller refuses memory the entry is simply
// not cached.
package cache
