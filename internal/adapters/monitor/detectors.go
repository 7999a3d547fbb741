package monitor

import (
	"fmt"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// portRange flags a span of suspicious ports with one reason.
type portRange struct {
	lo, hi   int
	reason   string
	severity string
}

// suspiciousRanges name the exposure classes worth flagging on a home
// network. Specific single-port entries come before the broad system
// range so the more precise reason wins.
var suspiciousRanges = []portRange{
	{3389, 3389, "RDP exposed", "error"},
	{22, 22, "SSH exposed", "warning"},
	{23, 23, "Telnet exposed", "error"},
	{445, 445, "SMB exposed", "error"},
	{135, 139, "NetBIOS exposed", "warning"},
	{5900, 5909, "VNC exposed", "error"},
	{0, 1023, "system port open", "warning"},
}

// suspiciousServices are service-name substrings that indicate remote
// access or databases listening on the LAN.
var suspiciousServices = []string{
	"telnet", "ftp", "rsh", "rlogin", "rexec",
	"vnc", "rdp", "mysql", "mssql", "oracle", "postgres",
}

// DetectSuspicious grades a device's open ports. Each port contributes at
// most one finding; the first matching rule (range before service name)
// supplies the reason.
func DetectSuspicious(openPorts []domain.PortInfo) []domain.SecurityFinding {
	var findings []domain.SecurityFinding
	for _, p := range openPorts {
		if f := gradePort(p); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func gradePort(p domain.PortInfo) *domain.SecurityFinding {
	for _, r := range suspiciousRanges {
		if p.Port >= r.lo && p.Port <= r.hi {
			return &domain.SecurityFinding{
				Port:     p.Port,
				Service:  p.Service,
				Reason:   r.reason,
				Severity: r.severity,
			}
		}
	}

	service := strings.ToLower(p.Service)
	if service == "" {
		return nil
	}
	for _, sub := range suspiciousServices {
		if strings.Contains(service, sub) {
			return &domain.SecurityFinding{
				Port:     p.Port,
				Service:  p.Service,
				Reason:   fmt.Sprintf("%s service exposed", sub),
				Severity: "warning",
			}
		}
	}
	return nil
}
