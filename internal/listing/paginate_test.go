package listing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	page, pageCount := Paginate(items, 10, 1)
	require.Equal(t, 3, pageCount)
	require.Len(t, page, 10)
	require.Equal(t, 0, page[0])

	page, _ = Paginate(items, 10, 3)
	require.Len(t, page, 5)
	require.Equal(t, 20, page[0])
	require.Equal(t, 24, page[4])
}

func TestPaginateClamps(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, pageCount := Paginate(items, 2, 0)
	require.Equal(t, 3, pageCount)
	require.Equal(t, []int{1, 2}, page)

	page, _ = Paginate(items, 2, 99)
	require.Equal(t, []int{5}, page)
}

func TestPaginateEmpty(t *testing.T) {
	page, pageCount := Paginate[int](nil, 10, 1)
	require.Nil(t, page)
	require.Zero(t, pageCount)

	page, pageCount = Paginate([]int{1, 2}, 0, 1)
	require.Nil(t, page)
	require.Zero(t, pageCount)
}

func TestPaginateReturnsCopy(t *testing.T) {
	items := []string{"a", "b", "c"}
	page, _ := Paginate(items, 2, 1)
	page[0] = "mutated"
	require.Equal(t, "a", items[0])
}
