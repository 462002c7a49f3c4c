// Package knowledge pairs an exact vector index with the records it was built from.
//
// A Store is built once offline, persisted as two aligned artifacts plus a
// manifest, and loaded once at start. Position is identity: vector i in the
// index belongs to record i. After load a Store is immutable and safe for
// concurrent Retrieve calls without locking; a Handle swaps whole stores
// atomically when a new build is committed.
//
//	bs := blobstore.NewLocalStore(".data")
//	_, err := knowledge.BuildAndPersist(ctx, bs, raw, embed.NewHashing(256))
//
//	kb, err := knowledge.Load(ctx, bs)
//	q, _ := embedder.Embed(ctx, "I can't log in")
//	recs, err := kb.Retrieve(ctx, q, 1)
package knowledge
