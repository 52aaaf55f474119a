package chathub

import (
	"sync"

	"github.com/samber/lo"
)

const directoryShards = 32

// Directory maps an identity to its live connection handles. It keeps no
// persistent state. Identities are spread over independently locked
// shards so unrelated users never contend on one mutex.
type Directory struct {
	shards [directoryShards]*directoryShard
}

type directoryShard struct {
	sync.RWMutex
	handles map[uint]map[string]Client
}

func NewDirectory() *Directory {
	d := &Directory{}
	for i := range d.shards {
		d.shards[i] = &directoryShard{handles: make(map[uint]map[string]Client)}
	}
	return d
}

func (d *Directory) shard(userID uint) *directoryShard {
	return d.shards[userID%directoryShards]
}

// Register adds c to userID's live set and reports whether it is the
// identity's first handle.
func (d *Directory) Register(userID uint, c Client) bool {
	s := d.shard(userID)
	s.Lock()
	defer s.Unlock()

	set, ok := s.handles[userID]
	if !ok {
		set = make(map[string]Client)
		s.handles[userID] = set
	}
	set[c.HandleID()] = c
	return len(set) == 1
}

// Unregister removes exactly c. It reports whether that removal emptied the
// identity's set; removing an unknown handle is a no-op returning false.
func (d *Directory) Unregister(userID uint, c Client) bool {
	s := d.shard(userID)
	s.Lock()
	defer s.Unlock()

	set, ok := s.handles[userID]
	if !ok {
		return false
	}
	if _, ok := set[c.HandleID()]; !ok {
		return false
	}
	delete(set, c.HandleID())
	if len(set) == 0 {
		delete(s.handles, userID)
		return true
	}
	return false
}

// ActiveHandles returns a snapshot of userID's handles. The slice is owned
// by the caller and does not change when the directory does.
func (d *Directory) ActiveHandles(userID uint) []Client {
	s := d.shard(userID)
	s.RLock()
	defer s.RUnlock()
	return lo.Values(s.handles[userID])
}

// OnlineUserIDs lists identities with at least one live handle.
func (d *Directory) OnlineUserIDs() []uint {
	var out []uint
	for _, s := range d.shards {
		s.RLock()
		out = append(out, lo.Keys(s.handles)...)
		s.RUnlock()
	}
	return out
}

// Len counts live handles across all identities.
func (d *Directory) Len() int {
	n := 0
	for _, s := range d.shards {
		s.RLock()
		for _, set := range s.handles {
			n += len(set)
		}
		s.RUnlock()
	}
	return n
}

// all snapshots every registered handle.
func (d *Directory) all() []Client {
	var out []Client
	for _, s := range d.shards {
		s.RLock()
		for _, set := range s.handles {
			out = append(out, lo.Values(set)...)
		}
		s.RUnlock()
	}
	return out
}
