// Package platform detects the host OS, architecture, and Linux
// distribution, and exposes the result to Lua configs as a read-only
// table. Detection uses gopsutil with a graceful fallback to the
// runtime constants when distro information is unavailable.
package platform

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Canonical Linux distribution families.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyGentoo  = "gentoo"
	FamilyUnknown = "unknown"
)

// Info is the detected platform.
type Info struct {
	OS       string // "linux", "darwin", ...
	Arch     string // normalized: "amd64", "arm64"
	ArchRaw  string // GOARCH as reported
	Platform string // distro ID on Linux, e.g. "ubuntu"
	Family   string // canonical distro family, e.g. "debian"
	Version  string // distro version, e.g. "24.04"
}

// Distro is the Linux distribution slice of Info, nil off Linux or when
// detection failed.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro details, or nil when there are none.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{ID: i.Platform, Family: i.Family, Version: i.Version}
}

// IsLinux reports whether the host runs Linux.
func (i *Info) IsLinux() bool { return i.OS == "linux" }

// IsMacOS reports whether the host runs macOS.
func (i *Info) IsMacOS() bool { return i.OS == "darwin" }

// Detector detects the current platform. The interface exists so tests
// and the Lua front-end can substitute fixed platforms.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// RealDetector detects the platform of the running host.
type RealDetector struct{}

// NewDetector returns a Detector for the running host.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect fills Info from the runtime constants and, on Linux, from
// gopsutil's platform information. Distro detection failure is not an
// error: the bar works fine knowing only OS and architecture.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		Arch:    normalizeArch(runtime.GOARCH),
		ArchRaw: runtime.GOARCH,
	}

	if info.OS != "linux" {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return info, nil
	}
	if platform = normalize(platform); platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalize(version)
	}
	return info, nil
}

// familyMap folds the distro and family spellings gopsutil reports into
// canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalize(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}
