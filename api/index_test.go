package api

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openalpha/lockdeal/api/types"
)

func indexPool(id uint64, owner string, amount string, params ...int64) types.Pool {
	p := types.Pool{PoolID: id, Owner: owner, Token: "ulock", Amount: amount, Closed: amount == "0"}
	p.Params = []string{amount}
	for _, v := range params {
		p.Params = append(p.Params, strconv.FormatInt(v, 10))
	}
	return p
}

func TestPoolIndex_ByOwner(t *testing.T) {
	ix := NewPoolIndex()
	ix.Put(indexPool(2, "bob", "10", 100))
	ix.Put(indexPool(0, "alice", "10", 100))
	ix.Put(indexPool(1, "bob", "10", 100))
	ix.Put(indexPool(3, "carol", "10", 100))

	bob := ix.ByOwner("bob")
	require.Len(t, bob, 2)
	require.Equal(t, uint64(1), bob[0].PoolID)
	require.Equal(t, uint64(2), bob[1].PoolID)
	require.Empty(t, ix.ByOwner("dave"))
	require.Equal(t, 4, ix.Len())

	// transfer moves the pool between owners
	ix.Put(indexPool(1, "alice", "10", 100))
	require.Len(t, ix.ByOwner("bob"), 1)
	alice := ix.ByOwner("alice")
	require.Len(t, alice, 2)
	require.Equal(t, uint64(0), alice[0].PoolID)
	require.Equal(t, uint64(1), alice[1].PoolID)
}

func TestPoolIndex_DueBefore(t *testing.T) {
	ix := NewPoolIndex()
	ix.Put(indexPool(0, "alice", "10", 300))
	ix.Put(indexPool(1, "alice", "10", 100, 50))
	ix.Put(indexPool(2, "bob", "10", 200, 150, 200))
	ix.Put(indexPool(3, "bob", "10", 100))

	due := ix.DueBefore(250, 0)
	require.Len(t, due, 3)
	require.Equal(t, []uint64{1, 3, 2}, []uint64{due[0].PoolID, due[1].PoolID, due[2].PoolID})
	require.Equal(t, int64(50), due[0].StartTime)
	require.Equal(t, int64(150), due[2].StartTime)

	require.Len(t, ix.DueBefore(250, 1), 1)
	require.Empty(t, ix.DueBefore(100, 0))

	// a closed pool leaves the calendar but stays with its owner
	ix.Put(indexPool(1, "alice", "0", 100, 50))
	due = ix.DueBefore(250, 0)
	require.Len(t, due, 2)
	require.Equal(t, uint64(3), due[0].PoolID)
	require.Len(t, ix.ByOwner("alice"), 2)

	// rescheduling replaces the calendar entry
	ix.Put(indexPool(0, "alice", "5", 120))
	due = ix.DueBefore(250, 0)
	require.Len(t, due, 3)
	require.Equal(t, uint64(3), due[0].PoolID)
	require.Equal(t, uint64(0), due[1].PoolID)
	require.Equal(t, "5", due[1].Amount)
}

func TestSchedule(t *testing.T) {
	start, finish := schedule([]string{"10", "200"})
	require.Equal(t, int64(0), start)
	require.Equal(t, int64(200), finish)

	start, finish = schedule([]string{"10", "200", "100", "200"})
	require.Equal(t, int64(100), start)
	require.Equal(t, int64(200), finish)

	_, finish = schedule([]string{"10", "99999999999999999999999"})
	require.Equal(t, int64(9223372036854775807), finish)
}
