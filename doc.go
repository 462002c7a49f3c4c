// Package faqrag is a retrieval-augmented FAQ knowledge base.
//
// A build embeds the problem text of every FAQ record, stores the vectors in
// an exact flat index and commits two aligned artifacts (vectors and records)
// plus a manifest to a blob store. Serving processes load the committed build
// and answer nearest-neighbour queries; the chat package turns the nearest
// record into a prompt for a generative model.
//
// # Quick Start
//
// Build from a JSON list of {"problem", "solution"} objects:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore(".data")
//	emb := embed.NewHashing(384)
//	raw, _ := knowledge.ParseRawRecords(data)
//	m, _ := faqrag.Build(ctx, store, emb, raw, faqrag.WithPrune())
//	fmt.Println("committed", m.BuildID)
//
// Serve retrievals:
//
//	kb, _ := faqrag.Open(ctx, store, emb)
//	records, _ := kb.Retrieve(ctx, "I can't log in", 1)
//
// Cloud mode:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("faq/"))
//	kb, _ := faqrag.Open(ctx, s3Store, emb)
//	go kb.Watch(ctx, time.Minute) // picks up new builds
//
// # Guarantees
//
//   - Search is exact: results are the min(k, n) records with the smallest
//     squared Euclidean distance, ties broken by the smaller record id.
//   - Vector and record artifacts are checked for alignment, size and
//     checksum on load; a damaged build fails with ErrCorruptArtifact
//     instead of serving misaligned answers.
//   - A build becomes visible only when CURRENT is rewritten, after both
//     artifacts and the manifest are durable.
package faqrag
