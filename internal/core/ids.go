package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Id prefixes per record kind.
const (
	PrefixTransaction = "txn"
	PrefixEmi         = "emi"
	PrefixTemplate    = "tpl"
	PrefixNetWorth    = "net"
	PrefixCategory    = "cat"
)

// IDGenerator hands out fresh unique ids.
type IDGenerator interface {
	NewID(prefix string) string
}

// SequentialIDs produces prefix_1, prefix_2, ... and is deterministic, which
// makes it the generator of choice in tests.
type SequentialIDs struct {
	n atomic.Int64
}

func (s *SequentialIDs) NewID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, s.n.Add(1))
}

// Reserve moves the counter past the numeric suffix of id, so ids loaded
// from a store are never handed out again. Other id shapes are ignored.
func (s *SequentialIDs) Reserve(id string) {
	i := strings.LastIndexByte(id, '_')
	if i < 0 {
		return
	}
	n, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil || n <= 0 {
		return
	}
	for {
		cur := s.n.Load()
		if cur >= n || s.n.CompareAndSwap(cur, n) {
			return
		}
	}
}

// IDReserver is implemented by generators that need to learn which ids are
// already taken.
type IDReserver interface {
	Reserve(id string)
}

// UUIDs produces prefix_<uuid v4>.
type UUIDs struct{}

func (UUIDs) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
