package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// systemSubtree is the SNMPv2 system group, the one subtree nearly every
// managed device answers on the public community.
const systemSubtree = ".1.3.6.1.2.1.1"

// systemOIDNames maps the system group columns to their snmpwalk-style
// symbolic names, which is what the signature patterns are keyed by.
var systemOIDNames = map[string]string{
	"1": "SNMPv2-MIB::sysDescr",
	"2": "SNMPv2-MIB::sysObjectID",
	"3": "SNMPv2-MIB::sysUpTime",
	"4": "SNMPv2-MIB::sysContact",
	"5": "SNMPv2-MIB::sysName",
	"6": "SNMPv2-MIB::sysLocation",
	"7": "SNMPv2-MIB::sysServices",
}

// SNMP walks the system subtree with v2c community "public". The result
// maps the symbolic OID name (and the raw numeric OID as fallback key) to
// the rendered value. Hosts without an agent yield an empty map.
func (s *Set) SNMP(ctx context.Context, ip string) map[string]string {
	start := time.Now()
	defer func() {
		telemetry.ProbeDuration.WithLabelValues("snmp").Observe(time.Since(start).Seconds())
	}()

	client := &gosnmp.GoSNMP{
		Target:    ip,
		Port:      161,
		Community: "public",
		Version:   gosnmp.Version2c,
		Timeout:   s.deadline(),
		Retries:   0,
		Context:   ctx,
	}
	if err := client.Connect(); err != nil {
		return map[string]string{}
	}
	defer client.Conn.Close()

	pdus, err := client.BulkWalkAll(systemSubtree)
	if err != nil || len(pdus) == 0 {
		return map[string]string{}
	}

	out := make(map[string]string, len(pdus)*2)
	for _, pdu := range pdus {
		value := renderSNMPValue(pdu)
		if value == "" {
			continue
		}
		oid := strings.TrimPrefix(pdu.Name, ".")
		out[oid] = value
		if name := symbolicName(oid); name != "" {
			out[name] = value
		}
	}

	if len(out) > 0 {
		s.log.Debug().Str("ip", ip).Int("oids", len(out)).Msg("snmp walk done")
	}
	return out
}

// symbolicName converts a numeric system-group OID like 1.3.6.1.2.1.1.1.0
// into SNMPv2-MIB::sysDescr.0.
func symbolicName(oid string) string {
	rest, found := strings.CutPrefix(oid, "1.3.6.1.2.1.1.")
	if !found {
		return ""
	}
	parts := strings.SplitN(rest, ".", 2)
	name, ok := systemOIDNames[parts[0]]
	if !ok {
		return ""
	}
	if len(parts) == 2 {
		return name + "." + parts[1]
	}
	return name
}

func renderSNMPValue(pdu gosnmp.SnmpPDU) string {
	switch v := pdu.Value.(type) {
	case []byte:
		return strings.TrimSpace(string(v))
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
