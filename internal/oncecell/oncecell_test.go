package oncecell_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvanbree/inject/internal/oncecell"
)

func TestCellSet(t *testing.T) {
	t.Parallel()

	t.Run("get before set reports unset", func(t *testing.T) {
		t.Parallel()

		cell := oncecell.New[int]()

		v, ok := cell.Get()
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("first set wins, later sets are rejected", func(t *testing.T) {
		t.Parallel()

		cell := oncecell.New[string]()

		require.True(t, cell.Set("first"))
		assert.False(t, cell.Set("second"))
		assert.False(t, cell.Set("third"))

		v, ok := cell.Get()
		require.True(t, ok)
		assert.Equal(t, "first", v)
	})

	t.Run("zero value cell is usable", func(t *testing.T) {
		t.Parallel()

		var cell oncecell.Cell[[]int]

		require.True(t, cell.Set([]int{1, 2, 3}))

		v, ok := cell.Get()
		require.True(t, ok)
		assert.Equal(t, []int{1, 2, 3}, v)
	})

	t.Run("concurrent sets perform exactly one write", func(t *testing.T) {
		t.Parallel()

		const goroutines = 64

		cell := oncecell.New[int]()

		var (
			wins  atomic.Int32
			start sync.WaitGroup
			done  sync.WaitGroup
		)
		start.Add(1)
		for i := range goroutines {
			done.Add(1)
			go func() {
				defer done.Done()
				start.Wait()
				if cell.Set(i) {
					wins.Add(1)
				}
			}()
		}
		start.Done()
		done.Wait()

		assert.Equal(t, int32(1), wins.Load())

		_, ok := cell.Get()
		assert.True(t, ok)
	})
}

func TestCellGetOrInit(t *testing.T) {
	t.Parallel()

	t.Run("initializes empty cell", func(t *testing.T) {
		t.Parallel()

		cell := oncecell.New[string]()

		v := cell.GetOrInit(func() string { return "made" })
		assert.Equal(t, "made", v)

		got, ok := cell.Get()
		require.True(t, ok)
		assert.Equal(t, "made", got)
	})

	t.Run("returns existing value without calling init", func(t *testing.T) {
		t.Parallel()

		cell := oncecell.New[int]()
		require.True(t, cell.Set(7))

		v := cell.GetOrInit(func() int {
			t.Fatal("init ran on a populated cell")
			return 0
		})
		assert.Equal(t, 7, v)
	})

	t.Run("concurrent callers run init exactly once", func(t *testing.T) {
		t.Parallel()

		const goroutines = 64

		cell := oncecell.New[*int]()

		var (
			calls   atomic.Int32
			start   sync.WaitGroup
			done    sync.WaitGroup
			results [goroutines]*int
		)
		start.Add(1)
		for i := range goroutines {
			done.Add(1)
			go func() {
				defer done.Done()
				start.Wait()
				results[i] = cell.GetOrInit(func() *int {
					n := int(calls.Add(1))
					return &n
				})
			}()
		}
		start.Done()
		done.Wait()

		require.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Same(t, results[0], r)
		}
	})
}
