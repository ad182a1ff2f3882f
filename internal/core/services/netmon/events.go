package netmon

import (
	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// inventoryEvents republishes store notifications as outbound events. It
// runs on the store's dispatch goroutine, so the per-device ordering of the
// notification pump carries through to the sink unchanged.
type inventoryEvents struct {
	store ports.DeviceStore
	sink  ports.EventSink
}

func (e *inventoryEvents) OnDeviceAdded(record domain.DeviceRecord) {
	e.sink.Publish(domain.Event{Type: domain.EventNewDevice, Payload: record})
	e.publishSnapshot(e.store.All())
}

func (e *inventoryEvents) OnDeviceUpdated(record domain.DeviceRecord) {
	e.publishSnapshot(e.store.All())
}

func (e *inventoryEvents) OnInventoryCleared() {
	e.publishSnapshot([]domain.DeviceRecord{})
}

func (e *inventoryEvents) publishSnapshot(devices []domain.DeviceRecord) {
	e.sink.Publish(domain.Event{Type: domain.EventDevicesUpdated, Payload: devices})
	e.sink.Publish(domain.Event{Type: domain.EventStatsUpdated, Payload: e.store.Stats()})
}
