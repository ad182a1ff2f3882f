package probe

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

// commonOUIs is a trimmed static prefix table covering hardware seen on
// typical home and office networks. It keeps offline probes labeling the
// obvious vendors without shipping the full IEEE registry; LoadVendorFile
// extends it at runtime.
var commonOUIs = map[string]string{
	"00:17:F2": "Apple",
	"00:03:93": "Apple",
	"00:12:FB": "Samsung",
	"00:16:32": "Samsung",
	"00:1E:BD": "Cisco",
	"00:40:96": "Cisco",
	"50:C7:BF": "TP-Link",
	"A0:63:91": "Netgear",
	"00:14:BF": "Linksys",
	"F4:F5:D8": "Google",
	"FC:A6:67": "Amazon",
	"34:CE:00": "Xiaomi",
	"00:E0:FC": "Huawei",
	"00:13:02": "Intel",
	"00:10:18": "Broadcom",
	"00:03:7F": "Qualcomm",
	"00:1F:C6": "Asus",
	"00:17:9A": "D-Link",
	"00:11:50": "Belkin",
	"00:04:56": "Motorola",
	"00:1E:3A": "Nokia",
	"00:13:A9": "Sony",
	"00:1C:62": "LG",
	"B8:27:EB": "Raspberry Pi Foundation",
	"DC:A6:32": "Raspberry Pi Trading",
	"00:50:56": "VMware",
	"52:54:00": "QEMU",
	"08:00:27": "Oracle VirtualBox",
}

var (
	externalVendors = make(map[string]string)
	vendorMu        sync.RWMutex
)

// VendorForMAC resolves the vendor label for a MAC from its OUI prefix.
// Known prefixes win even when locally administered (QEMU and VMware
// assign LAA ranges); unmatched LAA addresses are reported as
// "Randomized". Unknown prefixes yield the empty string so
// reconciliation keeps whatever a richer source already recorded.
func VendorForMAC(mac string) string {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(mac), "-", ":"))
	if len(normalized) < 8 {
		return ""
	}

	prefix := normalized[:8]
	if vendor, ok := commonOUIs[prefix]; ok {
		return vendor
	}

	vendorMu.RLock()
	vendor, ok := externalVendors[prefix]
	vendorMu.RUnlock()
	if ok {
		return vendor
	}

	if isLocallyAdministered(normalized[1]) {
		return "Randomized"
	}
	return ""
}

// isLocallyAdministered checks whether the LAA bit of the first octet is
// set, which marks a randomized rather than vendor-assigned address.
func isLocallyAdministered(hexChar byte) bool {
	switch hexChar {
	case '2', '3', '6', '7', 'a', 'b', 'e', 'f', 'A', 'B', 'E', 'F':
		return true
	}
	return false
}

// LoadVendorFile merges "XX:XX:XX Vendor Name" lines into the lookup
// table. Lines starting with # and malformed prefixes are skipped.
func LoadVendorFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	loaded := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 8 || strings.HasPrefix(line, "#") {
			continue
		}
		prefix := strings.ToUpper(strings.ReplaceAll(line[:8], "-", ":"))
		if !isValidOUI(prefix) {
			continue
		}
		vendor := ""
		if len(line) > 8 {
			vendor = strings.TrimSpace(line[8:])
		}
		if vendor != "" {
			loaded[prefix] = vendor
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	vendorMu.Lock()
	for prefix, vendor := range loaded {
		externalVendors[prefix] = vendor
	}
	vendorMu.Unlock()
	return nil
}

func isValidOUI(s string) bool {
	return len(s) == 8 && s[2] == ':' && s[5] == ':'
}
