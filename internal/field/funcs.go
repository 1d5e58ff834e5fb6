package field

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/sensors"
)

// Default format strings for the builtins that take one.
const (
	DefaultUptimeFormat   = "{days}d:{hours}h:{mins}m"
	DefaultDatetimeFormat = "2006-01-02 15:04:05"
	DefaultHostFormat     = "{nodename}"
)

func hostnameFunc() Func {
	return func(ctx context.Context) (string, error) {
		return os.Hostname()
	}
}

// hostFunc expands {nodename}, {sysname}, {release}, and {machine}
// tokens from the host information.
func hostFunc(format string) Func {
	if format == "" {
		format = DefaultHostFormat
	}
	return func(ctx context.Context) (string, error) {
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("host info: %w", err)
		}
		r := strings.NewReplacer(
			"{nodename}", info.Hostname,
			"{sysname}", info.OS,
			"{release}", info.KernelVersion,
			"{machine}", info.KernelArch,
		)
		return r.Replace(format), nil
	}
}

// uptimeFunc expands {days}, {hours}, {mins}, and {secs} tokens from the
// host uptime.
func uptimeFunc(format string) Func {
	if format == "" {
		format = DefaultUptimeFormat
	}
	return func(ctx context.Context) (string, error) {
		secs, err := host.UptimeWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("uptime: %w", err)
		}
		return formatUptime(secs, format), nil
	}
}

func formatUptime(secs uint64, format string) string {
	r := strings.NewReplacer(
		"{days}", fmt.Sprintf("%d", secs/86400),
		"{hours}", fmt.Sprintf("%d", secs%86400/3600),
		"{mins}", fmt.Sprintf("%02d", secs%3600/60),
		"{secs}", fmt.Sprintf("%02d", secs%60),
	)
	return r.Replace(format)
}

func cpuUsageFunc() Func {
	return func(ctx context.Context) (string, error) {
		// Interval zero measures against the previous call, so the
		// producer never blocks the update loop.
		percents, err := cpu.PercentWithContext(ctx, 0, false)
		if err != nil {
			return "", fmt.Errorf("cpu usage: %w", err)
		}
		if len(percents) == 0 {
			return "", fmt.Errorf("cpu usage: no data")
		}
		return fmt.Sprintf("%.0f%%", percents[0]), nil
	}
}

// cpuTempKeys are sensor keys tried in order before falling back to the
// hottest sensor.
var cpuTempKeys = []string{"coretemp_package_id_0", "coretemp", "k10temp", "cpu_thermal", "acpitz"}

func cpuTempFunc() Func {
	return func(ctx context.Context) (string, error) {
		temps, err := sensors.TemperaturesWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("cpu temp: %w", err)
		}
		if len(temps) == 0 {
			return "", fmt.Errorf("cpu temp: no sensors")
		}
		for _, key := range cpuTempKeys {
			for _, t := range temps {
				if strings.HasPrefix(t.SensorKey, key) && t.Temperature > 0 {
					return fmt.Sprintf("%.0f°C", t.Temperature), nil
				}
			}
		}
		hottest := temps[0].Temperature
		for _, t := range temps[1:] {
			if t.Temperature > hottest {
				hottest = t.Temperature
			}
		}
		return fmt.Sprintf("%.0f°C", hottest), nil
	}
}

func memUsageFunc() Func {
	return func(ctx context.Context) (string, error) {
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("mem usage: %w", err)
		}
		return fmt.Sprintf("%.1fG", float64(vm.Used)/(1<<30)), nil
	}
}

func diskUsageFunc() Func {
	return func(ctx context.Context) (string, error) {
		usage, err := disk.UsageWithContext(ctx, "/")
		if err != nil {
			return "", fmt.Errorf("disk usage: %w", err)
		}
		return fmt.Sprintf("%.0f%%", usage.UsedPercent), nil
	}
}

const powerSupplyDir = "/sys/class/power_supply"

func batteryFunc() Func {
	return func(ctx context.Context) (string, error) {
		dirs, err := filepath.Glob(filepath.Join(powerSupplyDir, "BAT*"))
		if err != nil || len(dirs) == 0 {
			return "", fmt.Errorf("battery: no battery found")
		}
		capData, err := os.ReadFile(filepath.Join(dirs[0], "capacity"))
		if err != nil {
			return "", fmt.Errorf("battery capacity: %w", err)
		}
		text := strings.TrimSpace(string(capData)) + "%"
		if statusData, err := os.ReadFile(filepath.Join(dirs[0], "status")); err == nil {
			if strings.TrimSpace(string(statusData)) == "Charging" {
				text += "+"
			}
		}
		return text, nil
	}
}

func hasBattery() bool {
	dirs, err := filepath.Glob(filepath.Join(powerSupplyDir, "BAT*"))
	return err == nil && len(dirs) > 0
}

func hasTempSensors() bool {
	temps, err := sensors.SensorsTemperatures()
	return err == nil && len(temps) > 0
}

// netStatsFunc reports transfer rates as deltas between calls. The first
// call has nothing to diff against and reports zero rates.
func netStatsFunc(clock Clock) Func {
	var (
		mu       sync.Mutex
		prevSent uint64
		prevRecv uint64
		prevAt   time.Time
	)
	return func(ctx context.Context) (string, error) {
		counters, err := net.IOCountersWithContext(ctx, false)
		if err != nil {
			return "", fmt.Errorf("net stats: %w", err)
		}
		if len(counters) == 0 {
			return "", fmt.Errorf("net stats: no interfaces")
		}
		now := clock.Now()

		mu.Lock()
		defer mu.Unlock()
		sent, recv := counters[0].BytesSent, counters[0].BytesRecv
		elapsed := now.Sub(prevAt).Seconds()
		first := prevAt.IsZero()
		var up, down float64
		if !first && elapsed > 0 {
			up = float64(sent-prevSent) / elapsed
			down = float64(recv-prevRecv) / elapsed
		}
		prevSent, prevRecv, prevAt = sent, recv, now
		return fmt.Sprintf("↑%s ↓%s", humanRate(up), humanRate(down)), nil
	}
}

func humanRate(bytesPerSec float64) string {
	switch {
	case bytesPerSec >= 1<<20:
		return fmt.Sprintf("%.1fM/s", bytesPerSec/(1<<20))
	case bytesPerSec >= 1<<10:
		return fmt.Sprintf("%.1fK/s", bytesPerSec/(1<<10))
	default:
		return fmt.Sprintf("%.0fB/s", bytesPerSec)
	}
}

// datetimeFunc formats the clock's current time with a Go layout.
func datetimeFunc(format string, clock Clock) Func {
	if format == "" {
		format = DefaultDatetimeFormat
	}
	return func(ctx context.Context) (string, error) {
		return clock.Now().Format(format), nil
	}
}
