package documents

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryRepoConcurrentReadsAndWrites(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	const docCount = 8
	ids := make([]string, docCount)
	for i := 0; i < docCount; i++ {
		ids[i] = fmt.Sprintf("doc-%d", i)
		doc := Document{
			ID:         ids[i],
			UserID:     "user-1",
			Name:       ids[i],
			Status:     StatusProcessing,
			UploadedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, doc); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := ids[(seed+i)%docCount]
				if i%2 == 0 {
					_ = repo.MarkCompleted(ctx, "user-1", id, "text", time.Now().UTC())
				} else {
					_ = repo.MarkFailed(ctx, "user-1", id, "failed")
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				docs, err := repo.ListByUser(ctx, "user-1")
				if err != nil {
					t.Errorf("list: %v", err)
					return
				}
				if len(docs) != docCount {
					t.Errorf("expected %d documents, got %d", docCount, len(docs))
					return
				}
				if _, err := repo.GetByID(ctx, "user-1", ids[i%docCount]); err != nil {
					t.Errorf("get: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	docs, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("final list: %v", err)
	}
	for _, doc := range docs {
		if doc.Status == StatusProcessing {
			t.Fatalf("document %s never settled", doc.ID)
		}
	}
}
