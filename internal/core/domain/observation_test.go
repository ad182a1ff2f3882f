package domain

import (
	"errors"
	"testing"
	"time"
)

func TestObservationValidate(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		ok   bool
	}{
		{"ipv4", "192.168.1.50", true},
		{"ipv6", "fe80::aabb", true},
		{"padded", "  10.0.0.9  ", true},
		{"empty", "", false},
		{"garbage", "device-7", false},
		{"short", "192.168.1", false},
	}

	for _, tt := range tests {
		obs := Observation{IP: tt.ip}
		err := obs.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidObservation) {
				t.Errorf("%s: want ErrInvalidObservation, got %v", tt.name, err)
			}
		}
	}
}

func TestObservationSanitize(t *testing.T) {
	obs := Observation{
		IP: "192.168.1.50",
		Ports: []PortObservation{
			{Port: 22, Protocol: ProtoTCP, State: PortOpen, Service: "ssh"},
			{Port: 0, Protocol: ProtoTCP, State: PortOpen},          // dropped: port 0
			{Port: 53, Protocol: "icmp", State: PortOpen},           // dropped: unknown protocol
			{Port: 80, State: ""},                                   // defaults applied
			{Port: 443, Protocol: ProtoTCP, State: PortFiltered},
		},
	}

	dropped := obs.Sanitize()
	if dropped != 2 {
		t.Fatalf("dropped = %d; want 2", dropped)
	}
	if len(obs.Ports) != 3 {
		t.Fatalf("kept %d ports; want 3", len(obs.Ports))
	}
	if obs.Ports[1].Protocol != ProtoTCP || obs.Ports[1].State != PortOpen {
		t.Errorf("defaults not applied: %+v", obs.Ports[1])
	}
}

func TestObservationSanitizeCanonicalizesIP(t *testing.T) {
	obs := Observation{IP: " FE80::00AB "}
	obs.Sanitize()
	if obs.IP != "fe80::ab" {
		t.Errorf("IP = %q; want canonical form fe80::ab", obs.IP)
	}
}

func TestObservationRecordDefaults(t *testing.T) {
	before := time.Now().UTC()
	rec := Observation{IP: "10.0.0.4", MAC: "aa:bb:cc:dd:ee:ff", Method: MethodArpScan}.Record()

	if rec.Status != StatusUnknown {
		t.Errorf("status = %s; want unknown", rec.Status)
	}
	if rec.MAC != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("mac not upcased: %s", rec.MAC)
	}
	if rec.LastSeen.Before(before) {
		t.Errorf("zero SeenAt should be stamped with now")
	}
	if !rec.FirstSeen.Equal(rec.LastSeen) {
		t.Errorf("fresh record should have FirstSeen == LastSeen")
	}
}
