package api

import (
	"math"
	"strconv"
	"sync"

	"github.com/google/btree"
	"github.com/huandu/skiplist"

	"github.com/openalpha/lockdeal/api/types"
)

const btreeDegree = 32

// ownerItem orders pools by (owner, pool id)
type ownerItem struct {
	owner  string
	poolID uint64
}

func (a *ownerItem) Less(b btree.Item) bool {
	other := b.(*ownerItem)
	if a.owner != other.owner {
		return a.owner < other.owner
	}
	return a.poolID < other.poolID
}

// unlockKey orders open pools by finish time, then id
type unlockKey struct {
	at     int64
	poolID uint64
}

type unlockKeyAsc struct{}

func (unlockKeyAsc) Compare(lhs, rhs interface{}) int {
	l := lhs.(unlockKey)
	r := rhs.(unlockKey)
	switch {
	case l.at < r.at:
		return -1
	case l.at > r.at:
		return 1
	case l.poolID < r.poolID:
		return -1
	case l.poolID > r.poolID:
		return 1
	}
	return 0
}

func (unlockKeyAsc) CalcScore(key interface{}) float64 {
	return float64(key.(unlockKey).at)
}

// PoolIndex is an off-state view of the pool table kept current from
// committed events. Owner lookups go through a B-tree, the unlock calendar
// is a skip list keyed by finish time.
type PoolIndex struct {
	mu       sync.RWMutex
	pools    map[uint64]types.Pool
	unlocks  map[uint64]unlockKey
	byOwner  *btree.BTree
	calendar *skiplist.SkipList
}

// NewPoolIndex creates an empty index
func NewPoolIndex() *PoolIndex {
	return &PoolIndex{
		pools:    make(map[uint64]types.Pool),
		unlocks:  make(map[uint64]unlockKey),
		byOwner:  btree.New(btreeDegree),
		calendar: skiplist.New(unlockKeyAsc{}),
	}
}

// Put inserts or replaces a pool
func (ix *PoolIndex) Put(p types.Pool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.pools[p.PoolID]; ok && old.Owner != p.Owner {
		ix.byOwner.Delete(&ownerItem{owner: old.Owner, poolID: p.PoolID})
	}
	ix.byOwner.ReplaceOrInsert(&ownerItem{owner: p.Owner, poolID: p.PoolID})
	ix.pools[p.PoolID] = p

	if key, ok := ix.unlocks[p.PoolID]; ok {
		ix.calendar.Remove(key)
		delete(ix.unlocks, p.PoolID)
	}
	if p.Closed {
		return
	}
	start, finish := schedule(p.Params)
	key := unlockKey{at: finish, poolID: p.PoolID}
	ix.calendar.Set(key, types.Unlock{
		PoolID:     p.PoolID,
		Owner:      p.Owner,
		Token:      p.Token,
		Amount:     p.Amount,
		StartTime:  start,
		FinishTime: finish,
	})
	ix.unlocks[p.PoolID] = key
}

// Get returns the indexed pool
func (ix *PoolIndex) Get(poolID uint64) (types.Pool, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	p, ok := ix.pools[poolID]
	return p, ok
}

// Len returns the number of indexed pools
func (ix *PoolIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.pools)
}

// ByOwner returns the owner's pools in id order
func (ix *PoolIndex) ByOwner(owner string) []types.Pool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	pools := []types.Pool{}
	ix.byOwner.AscendGreaterOrEqual(&ownerItem{owner: owner}, func(i btree.Item) bool {
		item := i.(*ownerItem)
		if item.owner != owner {
			return false
		}
		pools = append(pools, ix.pools[item.poolID])
		return true
	})
	return pools
}

// DueBefore returns open pools whose finish time is before the given unix
// time, earliest first. limit <= 0 means no limit.
func (ix *PoolIndex) DueBefore(before int64, limit int) []types.Unlock {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	unlocks := []types.Unlock{}
	for elem := ix.calendar.Front(); elem != nil; elem = elem.Next() {
		if elem.Key().(unlockKey).at >= before {
			break
		}
		if limit > 0 && len(unlocks) >= limit {
			break
		}
		unlocks = append(unlocks, elem.Value.(types.Unlock))
	}
	return unlocks
}

// schedule reads the start and finish times out of stored params. Every
// provider keeps its finish time at index 1; lock and timed pools keep their
// unlock or start time at index 2.
func schedule(params []string) (start, finish int64) {
	finish = math.MaxInt64
	if len(params) > 1 {
		finish = parseTime(params[1])
	}
	if len(params) > 2 {
		start = parseTime(params[2])
	}
	return start, finish
}

func parseTime(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return v
}
