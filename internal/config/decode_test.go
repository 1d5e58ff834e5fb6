package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/zline/internal/conf"
)

// specFromConf parses conf text and decodes it into a Spec.
func specFromConf(t *testing.T, src string) (*Spec, error) {
	t.Helper()
	m, err := conf.ParseText(src)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	return FromMapping(m)
}

func TestFromMapping_Full(t *testing.T) {
	spec, err := specFromConf(t, `
field_order = [hostname, cpu_usage, datetime]
separator = " :: "
refresh = 2.0
count = 10
clock_align = no
join_empty_fields = yes
once = no
debug = yes

fields {
    cpu_usage {
        icon = "CPU "
        interval = 3.0
        threaded = true
    }
    weather {
        command = "curl -s wttr.in?format=3"
        interval = 900.0
        timely = no
    }
    tag.constant = "workstation"
}
`)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}

	wantOrder := []string{"hostname", "cpu_usage", "datetime"}
	if len(spec.FieldOrder) != len(wantOrder) {
		t.Fatalf("FieldOrder = %v, want %v", spec.FieldOrder, wantOrder)
	}
	for i := range wantOrder {
		if spec.FieldOrder[i] != wantOrder[i] {
			t.Errorf("FieldOrder[%d] = %q, want %q", i, spec.FieldOrder[i], wantOrder[i])
		}
	}
	if spec.Separator != " :: " {
		t.Errorf("Separator = %q, want %q", spec.Separator, " :: ")
	}
	if spec.Refresh != 2.0 {
		t.Errorf("Refresh = %v, want 2.0", spec.Refresh)
	}
	if spec.Count != 10 {
		t.Errorf("Count = %d, want 10", spec.Count)
	}
	if spec.ClockAlign {
		t.Error("ClockAlign = true, want false")
	}
	if !spec.JoinEmptyFields {
		t.Error("JoinEmptyFields = false, want true")
	}
	if !spec.Debug {
		t.Error("Debug = false, want true")
	}

	cpu, ok := spec.Fields["cpu_usage"]
	if !ok {
		t.Fatal("fields.cpu_usage missing")
	}
	if cpu.Icon != "CPU " || cpu.Interval != 3.0 || !cpu.Threaded {
		t.Errorf("cpu_usage = %+v", cpu)
	}

	weather, ok := spec.Fields["weather"]
	if !ok {
		t.Fatal("fields.weather missing")
	}
	if !weather.Custom() {
		t.Error("weather should be a custom field")
	}
	if weather.Command == "" || weather.Interval != 900.0 {
		t.Errorf("weather = %+v", weather)
	}

	tag, ok := spec.Fields["tag"]
	if !ok {
		t.Fatal("fields.tag missing")
	}
	if tag.Constant != "workstation" {
		t.Errorf("tag.Constant = %q, want %q", tag.Constant, "workstation")
	}
}

func TestFromMapping_DefaultsPreserved(t *testing.T) {
	spec, err := specFromConf(t, `refresh = 3.0`)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}
	if spec.Refresh != 3.0 {
		t.Errorf("Refresh = %v, want 3.0", spec.Refresh)
	}
	if spec.Separator != DefaultSeparator {
		t.Errorf("Separator = %q, want default %q", spec.Separator, DefaultSeparator)
	}
	if len(spec.FieldOrder) != len(DefaultFieldOrder) {
		t.Errorf("FieldOrder = %v, want defaults", spec.FieldOrder)
	}
}

func TestFromMapping_IntegerRefresh(t *testing.T) {
	// conf produces int64 for whole numbers; refresh must accept it.
	spec, err := specFromConf(t, `refresh = 2`)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}
	if spec.Refresh != 2.0 {
		t.Errorf("Refresh = %v, want 2.0", spec.Refresh)
	}
}

func TestFromMapping_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", `colour = "red"`, `config key "colour": unknown key`},
		{"unknown field sub-key", "fields { cpu_usage.wrong = 1 }", `config key "fields.cpu_usage.wrong": unknown key`},
		{"wrong separator type", `separator = 5`, `config key "separator": want string, got number`},
		{"wrong order type", `field_order = "hostname"`, `config key "field_order": want list, got string`},
		{"wrong order element", `field_order = [1]`, `config key "field_order[0]": want string, got number`},
		{"wrong bool type", `debug = "yes"`, `config key "debug": want boolean, got string`},
		{"fractional count", `count = 1.5`, `config key "count": want integer, got 1.5`},
		{"fields not a block", `fields = [1]`, `config key "fields": want block, got list`},
		{"nil refresh", "refresh =", `config key "refresh": want number, got nothing`},
		{"invalid refresh value", `refresh = 0.0`, `config key "refresh": must be positive`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := specFromConf(t, tt.src)
			if err == nil {
				t.Fatalf("FromMapping() succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error type = %T, want *DecodeError", err)
			}
		})
	}
}

func TestSpec_ToMapping_RoundTrip(t *testing.T) {
	src := `
field_order = [hostname, datetime]
separator = " | "
refresh = 2.0
clock_align = yes
count = 5

fields {
    datetime.format = "15:04"
}
`
	spec, err := specFromConf(t, src)
	if err != nil {
		t.Fatalf("FromMapping() error = %v", err)
	}

	text, err := conf.Serialize(spec.ToMapping())
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	again, err := specFromConf(t, text)
	if err != nil {
		t.Fatalf("reparse error = %v\ntext:\n%s", err, text)
	}

	if again.Separator != spec.Separator || again.Refresh != spec.Refresh || again.Count != spec.Count {
		t.Errorf("round trip changed spec: %+v vs %+v", again, spec)
	}
	if again.Fields["datetime"].Format != "15:04" {
		t.Errorf("datetime format = %q, want %q", again.Fields["datetime"].Format, "15:04")
	}
}

func TestSpec_ToMapping_TemplateWins(t *testing.T) {
	spec := DefaultSpec()
	spec.Template = "{hostname} {datetime}"

	m := spec.ToMapping()
	if _, ok := m.Get("separator"); ok {
		t.Error("mapping contains separator despite template")
	}
	if v, _ := m.Get("template"); v != "{hostname} {datetime}" {
		t.Errorf("template = %v", v)
	}
}
