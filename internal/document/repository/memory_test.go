package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/gogotex/data-service/internal/document"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoInsertList(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	in := document.Document{"name": "t", "n": int64(1)}
	require.NoError(t, r.Insert(ctx, in))
	require.NotContains(t, in, document.IDField, "caller's document must not be modified")

	list, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, in, list[0])
	require.NotContains(t, list[0], document.IDField)
}

func TestMemoryRepoClientSuppliedIDIsHidden(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, r.Insert(ctx, document.Document{document.IDField: "mine", "k": "v"}))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []document.Document{{"k": "v"}}, list)
}

func TestMemoryRepoConcurrentInsert(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Insert(ctx, document.Document{"i": int64(i)})
		}(i)
	}
	wg.Wait()
	require.Equal(t, 50, r.Len())
}
