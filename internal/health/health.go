package health

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of host and process state for the
// owner-only diagnostic command.
type Snapshot struct {
	Hostname   string
	Uptime     time.Duration
	Goroutines int
	CPUPercent float64
	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64
}

// Collect gathers the snapshot. The CPU sample blocks for one second.
func Collect(startedAt time.Time) Snapshot {
	hostname, _ := os.Hostname()

	s := Snapshot{
		Hostname:   hostname,
		Uptime:     time.Since(startedAt).Round(time.Second),
		Goroutines: runtime.NumGoroutine(),
	}

	if percents, err := cpu.Percent(time.Second, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemUsed = vm.Used
		s.MemTotal = vm.Total
		s.MemPercent = vm.UsedPercent
	}

	return s
}

func (s Snapshot) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Host: %s\n", s.Hostname)
	fmt.Fprintf(&sb, "Uptime: %s\n", s.Uptime)
	fmt.Fprintf(&sb, "Goroutines: %d\n", s.Goroutines)
	fmt.Fprintf(&sb, "CPU: %.1f%%\n", s.CPUPercent)
	fmt.Fprintf(&sb, "Memory: %s / %s (%.1f%%)", formatBytes(s.MemUsed), formatBytes(s.MemTotal), s.MemPercent)

	return sb.String()
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
