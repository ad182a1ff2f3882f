package inventory

import (
	"sync"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

const numShards = 16

var _ ports.DeviceStore = (*Store)(nil)

type deviceShard struct {
	mu      sync.RWMutex
	devices map[string]domain.DeviceRecord
}

// Store implements ports.DeviceStore with a sharded map keyed by IP.
// All returned records are deep copies; callers never see store-owned
// memory.
type Store struct {
	shards  []*deviceShard
	merger  *RecordMerger
	subject *InventorySubject
}

// NewStore creates a new sharded device store with its own notification
// subject.
func NewStore() *Store {
	s := &Store{
		shards:  make([]*deviceShard, numShards),
		merger:  NewRecordMerger(),
		subject: NewInventorySubject(),
	}
	for i := 0; i < numShards; i++ {
		s.shards[i] = &deviceShard{devices: make(map[string]domain.DeviceRecord)}
	}
	return s
}

// Subject exposes the notification subject for observer registration.
func (s *Store) Subject() *InventorySubject {
	return s.subject
}

func (s *Store) getShard(ip string) *deviceShard {
	hash := uint32(0)
	for i := 0; i < len(ip); i++ {
		hash = hash*31 + uint32(ip[i])
	}
	return s.shards[hash%uint32(len(s.shards))]
}

// Upsert reconciles an incoming record into the inventory. Notifications
// are enqueued while the shard lock is held, which pins their order to the
// apply order.
func (s *Store) Upsert(record domain.DeviceRecord) (domain.DeviceRecord, bool) {
	shard := s.getShard(record.IP)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, ok := shard.devices[record.IP]
	if !ok {
		if record.FirstSeen.IsZero() {
			record.FirstSeen = record.LastSeen
		}
		shard.devices[record.IP] = record

		snapshot := record.Clone()
		s.subject.NotifyAdded(snapshot)
		return snapshot, true
	}

	s.merger.Merge(&existing, record)
	shard.devices[record.IP] = existing

	snapshot := existing.Clone()
	s.subject.NotifyUpdated(snapshot)
	return snapshot, false
}

// Get returns a device snapshot by IP.
func (s *Store) Get(ip string) (domain.DeviceRecord, bool) {
	shard := s.getShard(ip)
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	d, ok := shard.devices[ip]
	if !ok {
		return domain.DeviceRecord{}, false
	}
	return d.Clone(), true
}

// All returns a snapshot of every known device.
func (s *Store) All() []domain.DeviceRecord {
	var all []domain.DeviceRecord
	for _, shard := range s.shards {
		shard.mu.RLock()
		for _, d := range shard.devices {
			all = append(all, d.Clone())
		}
		shard.mu.RUnlock()
	}
	return all
}

// Count returns the number of devices currently tracked.
func (s *Store) Count() int {
	count := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		count += len(shard.devices)
		shard.mu.RUnlock()
	}
	return count
}

// Stats computes aggregate statistics from live inventory state. The
// result is built fresh on every call.
func (s *Store) Stats() domain.InventoryStats {
	stats := domain.NewInventoryStats()
	for _, shard := range s.shards {
		shard.mu.RLock()
		for _, d := range shard.devices {
			stats.TotalDevices++
			if d.Status == domain.StatusUp {
				stats.ActiveDevices++
			}
			if len(d.Ports) > 0 {
				stats.DevicesWithPorts++
			}
			if d.Vendor != "" {
				stats.VendorCounts[d.Vendor]++
			}
		}
		shard.mu.RUnlock()
	}
	stats.DistinctVendors = len(stats.VendorCounts)
	return stats
}

// Clear wipes all in-memory state and announces the wipe.
func (s *Store) Clear() {
	for _, shard := range s.shards {
		shard.mu.Lock()
		shard.devices = make(map[string]domain.DeviceRecord)
		shard.mu.Unlock()
	}
	s.subject.NotifyCleared()
}

// Close stops the notification dispatcher.
func (s *Store) Close() {
	s.subject.Close()
}
