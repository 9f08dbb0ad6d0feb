package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/quorum/internal/db"
	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/alexanderramin/quorum/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentSequenceAllocation verifies that writers racing on the same
// scope each get a distinct value and the values form a gapless run.
func TestConcurrentSequenceAllocation(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	const writers = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen []int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				n, err := NewSQLiteSequenceRepo(tx).Next(ctx, "shared")
				if err != nil {
					return err
				}
				mu.Lock()
				seen = append(seen, n)
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("allocating sequence: %v", err)
			}
		}()
	}
	wg.Wait()

	sort.Ints(seen)
	want := make([]int, writers)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, seen)
}

// TestConcurrentAssignmentClose verifies that two removers racing on the same
// open assignment cannot both succeed.
func TestConcurrentAssignmentClose(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	st := seedSubtask(t, database)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	a := testutil.NewTestAssignment(st.ID, "emp-1", domain.MemberEmployee)
	require.NoError(t, NewSQLiteAssignmentRepo(database).Create(ctx, a))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		notFound int
	)
	for _, remover := range []string{"lead-1", "lead-2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				repo := NewSQLiteAssignmentRepo(tx)
				open, err := repo.GetActive(ctx, st.ID, "emp-1", domain.MemberEmployee)
				if err != nil {
					return err
				}
				if err := open.Close(remover, time.Now().UTC()); err != nil {
					return err
				}
				return repo.Close(ctx, open)
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrNotFound):
				notFound++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notFound)

	all, err := NewSQLiteAssignmentRepo(database).ListBySubtask(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive())
}
