package inventory

import (
	"sync"
	"sync/atomic"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// InventoryObserver defines the interface for components interested in
// device changes. Callbacks for one device arrive in the order the changes
// were applied to the store.
type InventoryObserver interface {
	OnDeviceAdded(record domain.DeviceRecord)
	OnDeviceUpdated(record domain.DeviceRecord)
	OnInventoryCleared()
}

type notifyKind int8

const (
	notifyAdded notifyKind = iota
	notifyUpdated
	notifyCleared
)

type notification struct {
	kind   notifyKind
	record domain.DeviceRecord
}

// InventorySubject fans device changes out to observers through a single
// dispatcher goroutine. Changes are enqueued inside the store's critical
// section, so the queue order equals the apply order; one dispatcher
// preserves it end to end. Enqueueing never blocks: when the queue is full
// the notification is dropped and counted.
type InventorySubject struct {
	mu        sync.RWMutex
	observers []InventoryObserver

	queue   chan notification
	done    chan struct{}
	stopped sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

const notifyQueueSize = 1024

// NewInventorySubject creates a subject and starts its dispatcher.
func NewInventorySubject() *InventorySubject {
	s := &InventorySubject{
		observers: make([]InventoryObserver, 0),
		queue:     make(chan notification, notifyQueueSize),
		done:      make(chan struct{}),
	}
	s.stopped.Add(1)
	go s.dispatch()
	return s
}

// AddObserver registers a new observer.
func (s *InventorySubject) AddObserver(observer InventoryObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// NotifyAdded enqueues a new-device notification.
func (s *InventorySubject) NotifyAdded(record domain.DeviceRecord) {
	s.enqueue(notification{kind: notifyAdded, record: record})
}

// NotifyUpdated enqueues an update notification.
func (s *InventorySubject) NotifyUpdated(record domain.DeviceRecord) {
	s.enqueue(notification{kind: notifyUpdated, record: record})
}

// NotifyCleared enqueues a wipe notification.
func (s *InventorySubject) NotifyCleared() {
	s.enqueue(notification{kind: notifyCleared})
}

// Dropped returns how many notifications were discarded on a full queue.
func (s *InventorySubject) Dropped() uint64 {
	return s.dropped.Load()
}

// Close stops the dispatcher. Pending notifications are drained first.
func (s *InventorySubject) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.stopped.Wait()
}

func (s *InventorySubject) enqueue(n notification) {
	select {
	case s.queue <- n:
	default:
		s.dropped.Add(1)
	}
}

func (s *InventorySubject) dispatch() {
	defer s.stopped.Done()
	for {
		select {
		case n := <-s.queue:
			s.deliver(n)
		case <-s.done:
			// Drain what is already queued, then exit.
			for {
				select {
				case n := <-s.queue:
					s.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (s *InventorySubject) deliver(n notification) {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()

	for _, obs := range observers {
		switch n.kind {
		case notifyAdded:
			obs.OnDeviceAdded(n.record)
		case notifyUpdated:
			obs.OnDeviceUpdated(n.record)
		case notifyCleared:
			obs.OnInventoryCleared()
		}
	}
}
