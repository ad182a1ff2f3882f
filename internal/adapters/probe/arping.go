package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

const arpReplyTimeout = 2 * time.Second

// ArpingProber sends a raw ARP who-has for the target and waits for a
// reply on the capture handle. It needs no external binaries but does
// require capture privileges on the interface.
type ArpingProber struct {
	iface   string
	timeout time.Duration
}

var _ ports.Prober = (*ArpingProber)(nil)

func NewArpingProber(iface string) (*ArpingProber, error) {
	if iface == "" {
		return nil, fmt.Errorf("arping needs an interface: %w", domain.ErrProbeUnavailable)
	}
	return &ArpingProber{iface: iface, timeout: arpReplyTimeout}, nil
}

func (p *ArpingProber) Name() string { return "arping" }

func (p *ArpingProber) Probe(ctx context.Context, target string) ([]domain.Observation, error) {
	dstIP := net.ParseIP(target)
	if dstIP = dstIP.To4(); dstIP == nil {
		return nil, fmt.Errorf("%w: arping needs an IPv4 target, got %q", domain.ErrInvalidObservation, target)
	}

	ifi, err := net.InterfaceByName(p.iface)
	if err != nil {
		return nil, fmt.Errorf("lookup interface %s: %w", p.iface, err)
	}
	srcIP, err := interfaceIPv4(ifi)
	if err != nil {
		return nil, err
	}

	handle, err := pcap.OpenLive(p.iface, 1024, false, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("pcap open failed on %s: %w", p.iface, err)
	}
	defer handle.Close()

	if err := handle.SetBPFFilter("arp"); err != nil {
		return nil, fmt.Errorf("set capture filter: %w", err)
	}

	request, err := buildArpRequest(ifi.HardwareAddr, srcIP, dstIP)
	if err != nil {
		return nil, err
	}
	if err := handle.WritePacketData(request); err != nil {
		return nil, fmt.Errorf("send arp request: %w", err)
	}

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	packets := gopacket.NewPacketSource(handle, handle.LinkType()).Packets()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			// No answer is an empty result, not a failure.
			return nil, nil
		case packet, ok := <-packets:
			if !ok {
				return nil, nil
			}
			arpLayer := packet.Layer(layers.LayerTypeARP)
			if arpLayer == nil {
				continue
			}
			reply := arpLayer.(*layers.ARP)
			if reply.Operation != layers.ARPReply {
				continue
			}
			if !net.IP(reply.SourceProtAddress).Equal(dstIP) {
				continue
			}

			mac := net.HardwareAddr(reply.SourceHwAddress).String()
			return []domain.Observation{{
				IP:     dstIP.String(),
				MAC:    mac,
				Vendor: VendorForMAC(mac),
				Status: domain.StatusUp,
				SeenAt: time.Now().UTC(),
				Method: domain.MethodNetdiscover,
			}}, nil
		}
	}
}

func buildArpRequest(srcMAC net.HardwareAddr, srcIP, dstIP net.IP) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(srcMAC),
		SourceProtAddress: []byte(srcIP.To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(dstIP.To4()),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, eth, arp); err != nil {
		return nil, fmt.Errorf("serialize arp request: %w", err)
	}
	return buf.Bytes(), nil
}

func interfaceIPv4(ifi *net.Interface) (net.IP, error) {
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, fmt.Errorf("list addresses on %s: %w", ifi.Name, err)
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("interface %s has no IPv4 address", ifi.Name)
}
