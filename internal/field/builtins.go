package field

import (
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
)

// builtin is one registry entry: scheduling defaults, a default format
// where the producer takes one, an availability probe, and the producer
// constructor.
type builtin struct {
	defaults Options
	format   string
	probe    func() bool
	producer func(format string, clock Clock) Func
	doc      string
}

// Order lists the builtin fields in their documented order.
var Order = []string{
	"hostname",
	"host",
	"uptime",
	"cpu_usage",
	"cpu_temp",
	"mem_usage",
	"disk_usage",
	"battery",
	"net_stats",
	"datetime",
}

var builtins = map[string]builtin{
	"hostname": {
		defaults: Options{RunOnce: true},
		producer: func(string, Clock) Func { return hostnameFunc() },
		doc:      "machine hostname",
	},
	"host": {
		defaults: Options{RunOnce: true},
		format:   DefaultHostFormat,
		producer: func(format string, _ Clock) Func { return hostFunc(format) },
		doc:      "host information",
	},
	"uptime": {
		defaults: Options{Icon: " ", TTYIcon: "Up ", Timely: true, AlignToSeconds: true},
		format:   DefaultUptimeFormat,
		producer: func(format string, _ Clock) Func { return uptimeFunc(format) },
		doc:      "time since boot",
	},
	"cpu_usage": {
		defaults: Options{Icon: " ", TTYIcon: "CPU ", Interval: 2 * time.Second, Threaded: true},
		producer: func(string, Clock) Func { return cpuUsageFunc() },
		doc:      "CPU utilization",
	},
	"cpu_temp": {
		defaults: Options{Icon: " ", Interval: 5 * time.Second, Threaded: true},
		probe:    hasTempSensors,
		producer: func(string, Clock) Func { return cpuTempFunc() },
		doc:      "CPU temperature",
	},
	"mem_usage": {
		defaults: Options{Icon: " ", TTYIcon: "Mem ", Interval: 5 * time.Second},
		producer: func(string, Clock) Func { return memUsageFunc() },
		doc:      "memory in use",
	},
	"disk_usage": {
		defaults: Options{Icon: " ", TTYIcon: "/:", Interval: 4 * time.Second},
		producer: func(string, Clock) Func { return diskUsageFunc() },
		doc:      "root filesystem usage",
	},
	"battery": {
		defaults: Options{Icon: " ", TTYIcon: "Bat ", Threaded: true},
		probe:    hasBattery,
		producer: func(string, Clock) Func { return batteryFunc() },
		doc:      "battery charge",
	},
	"net_stats": {
		defaults: Options{Icon: " ", Interval: 4 * time.Second, Threaded: true},
		producer: func(_ string, clock Clock) Func { return netStatsFunc(clock) },
		doc:      "network transfer rates",
	},
	"datetime": {
		defaults: Options{Timely: true, AlignToSeconds: true},
		format:   DefaultDatetimeFormat,
		producer: datetimeFunc,
		doc:      "date and time",
	},
}

// IsBuiltin reports whether name is a builtin field.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Available reports whether the builtin can produce data on this host.
// Builtins without a probe are always available.
func Available(name string) bool {
	b, ok := builtins[name]
	if !ok {
		return false
	}
	return b.probe == nil || b.probe()
}

// Doc returns the builtin's one-line description.
func Doc(name string) string {
	return builtins[name].doc
}

// FromSpec builds the fields named in order, applying per-field
// overrides from the spec. A name that is neither builtin nor defined
// with a command or constant is an error.
func FromSpec(order []string, spec *config.Spec, clock Clock) ([]*Field, error) {
	fields := make([]*Field, 0, len(order))
	for _, name := range order {
		fs := spec.Fields[name]
		if fs.Custom() {
			fields = append(fields, newCustom(name, fs))
			continue
		}
		b, ok := builtins[name]
		if !ok {
			return nil, &config.DecodeError{
				Key: "field_order",
				Msg: fmt.Sprintf("unknown field %q: not a builtin and no command or constant defined", name),
			}
		}
		fields = append(fields, newBuiltin(name, b, fs, clock))
	}
	return fields, nil
}

func newBuiltin(name string, b builtin, fs config.FieldSpec, clock Clock) *Field {
	opts := b.defaults
	if fs.Icon != "" {
		opts.Icon = fs.Icon
	}
	if fs.TTYIcon != "" {
		opts.TTYIcon = fs.TTYIcon
	}
	if fs.Interval > 0 {
		opts.Interval = time.Duration(fs.Interval * float64(time.Second))
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	opts.Threaded = opts.Threaded || fs.Threaded
	opts.RunOnce = opts.RunOnce || fs.RunOnce
	opts.Timely = opts.Timely || fs.Timely
	opts.AlignToSeconds = opts.AlignToSeconds || fs.AlignToSeconds

	format := fs.Format
	if format == "" {
		format = b.format
	}
	return New(name, b.producer(format, clock), opts)
}
