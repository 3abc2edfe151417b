package fiscalvoucher

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
)

func TestNew(t *testing.T) {
	v, err := New("  B0100000042 ", types.StringPtr(" B01 "))
	require.NoError(t, err)
	assert.Equal(t, "B0100000042", v.VoucherNumber)
	assert.Equal(t, "B01", *v.VoucherType)
	assert.False(t, v.IsUsed)

	_, err = New("   ", nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestSeedNumbers(t *testing.T) {
	numbers := SeedNumbers()
	require.Len(t, numbers, 10)
	assert.Equal(t, "B0100000001", numbers[0])
	assert.Equal(t, "B0100000010", numbers[9])
}

func TestService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	_, err := svc.Create(ctx, "B0100000001", nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, " B0100000001 ", nil)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "voucher already exists")
}

func TestService_AllocatesSmallestNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Seed("B0100000003", "B0100000001", "B0100000002")
	svc := NewService(repo)

	first, err := svc.Allocate(ctx, id.New())
	require.NoError(t, err)
	assert.Equal(t, "B0100000001", first.VoucherNumber)
	assert.True(t, first.IsUsed)
	assert.NotNil(t, first.UsedAt)

	second, err := svc.Allocate(ctx, id.New())
	require.NoError(t, err)
	assert.Equal(t, "B0100000002", second.VoucherNumber)

	available, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "B0100000003", available[0].VoucherNumber)
}

func TestService_AllocateExhausted(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Allocate(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	ok, err := svc.HasAvailable(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ReleaseOnlyByHolder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Seed("B0100000001")
	svc := NewService(repo)

	holder := id.New()
	v, err := svc.Allocate(ctx, holder)
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, &v.ID, id.New()))
	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.IsUsed, "another invoice must not release the voucher")

	require.NoError(t, svc.Release(ctx, &v.ID, holder))
	got, err = repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, got.IsUsed)
	assert.Nil(t, got.UsedAt)
	assert.Nil(t, got.UsedInInvoiceID)

	assert.NoError(t, svc.Release(ctx, nil, holder))
}

// Concurrent allocators never receive the same voucher.
func TestService_ConcurrentAllocationIsExclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Seed(SeedNumbers()...)
	svc := NewService(repo)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[string]int{}
		fail int
	)
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := svc.Allocate(ctx, id.New())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fail++
				return
			}
			seen[v.VoucherNumber]++
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 10)
	assert.Equal(t, 5, fail)
	for number, n := range seen {
		assert.Equal(t, 1, n, number)
	}
}
