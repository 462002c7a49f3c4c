package faqrag_test

import (
	"context"
	"fmt"

	"github.com/growbot/faqrag"
	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/knowledge"
)

func Example() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	emb := embed.NewHashing(64)

	raw, err := knowledge.ParseRawRecords([]byte(`[
		{"problem": "app crashes on login", "solution": "reinstall the app"},
		{"problem": "cannot reset password", "solution": "use the forgot-password link"}
	]`))
	if err != nil {
		panic(err)
	}

	if _, err := faqrag.Build(ctx, store, emb, raw, faqrag.WithBuildID("example")); err != nil {
		panic(err)
	}

	kb, err := faqrag.Open(ctx, store, emb)
	if err != nil {
		panic(err)
	}

	records, err := kb.Retrieve(ctx, "reset my password", 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(kb.BuildID(), records[0].Solution)
	// Output: example use the forgot-password link
}
