package sampler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

// Proc reads host metrics from the Linux proc and sysfs trees: aggregate
// CPU utilization from /proc/stat deltas and processor temperature from
// /sys/class/thermal. On hosts without those trees every sample reports
// ErrUnavailable, which the monitor tolerates.
type Proc struct {
	statPath    string
	thermalPath string

	mu   sync.Mutex
	prev cpuTimes
}

// NewProc creates a proc-backed sampler using the standard Linux paths.
func NewProc() *Proc {
	return &Proc{
		statPath:    "/proc/stat",
		thermalPath: "/sys/class/thermal",
	}
}

// Sample reads the requested metric. The first CPU sample has no delta
// baseline yet and reports ErrUnavailable.
func (p *Proc) Sample(_ context.Context, kind types.MetricKind) (types.MetricReading, error) {
	switch kind {
	case types.MetricCPUUsage:
		value, err := p.cpuPercent()
		if err != nil {
			return types.MetricReading{}, err
		}
		return types.MetricReading{Kind: kind, Value: value, SampledAt: time.Now()}, nil
	case types.MetricTemperature:
		value, err := p.temperature()
		if err != nil {
			return types.MetricReading{}, err
		}
		return types.MetricReading{Kind: kind, Value: value, SampledAt: time.Now()}, nil
	default:
		return types.MetricReading{}, ErrUnavailable
	}
}

type cpuTimes struct {
	busy  uint64
	total uint64
}

func (p *Proc) cpuPercent() (float64, error) {
	data, err := os.ReadFile(p.statPath)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, p.statPath, err)
	}
	cur, err := parseCPUTimes(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.mu.Lock()
	prev := p.prev
	p.prev = cur
	p.mu.Unlock()

	if prev.total == 0 || cur.total <= prev.total {
		return 0, fmt.Errorf("%w: no cpu delta baseline yet", ErrUnavailable)
	}
	totalDelta := cur.total - prev.total
	busyDelta := cur.busy - prev.busy
	return 100 * float64(busyDelta) / float64(totalDelta), nil
}

// parseCPUTimes extracts the aggregate "cpu" line from /proc/stat content.
// Fields: user nice system idle iowait irq softirq steal [guest guest_nice].
// Idle and iowait count as idle time, everything else as busy.
func parseCPUTimes(data []byte) (cpuTimes, error) {
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		var t cpuTimes
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return cpuTimes{}, fmt.Errorf("parsing cpu field %q: %v", f, err)
			}
			t.total += v
			// fields 4 (idle) and 5 (iowait) are 1-indexed after "cpu"
			if i != 3 && i != 4 {
				t.busy += v
			}
		}
		return t, nil
	}
	return cpuTimes{}, fmt.Errorf("no aggregate cpu line found")
}

func (p *Proc) temperature() (float64, error) {
	zones, err := filepath.Glob(filepath.Join(p.thermalPath, "thermal_zone*", "temp"))
	if err != nil || len(zones) == 0 {
		return 0, fmt.Errorf("%w: no thermal zones under %s", ErrUnavailable, p.thermalPath)
	}

	// Zones report millidegrees Celsius; take the hottest valid zone.
	best := 0.0
	found := false
	for _, zone := range zones {
		data, err := os.ReadFile(zone)
		if err != nil {
			continue
		}
		milli, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil || milli <= 0 {
			continue
		}
		celsius := float64(milli) / 1000
		if !found || celsius > best {
			best = celsius
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no readable thermal zone", ErrUnavailable)
	}
	return best, nil
}
