package platform

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rossb34/wildcat-ws/pkg/packageid"
)

// Platform represents the detected host build configuration
type Platform struct {
	OS              string   // Linux, Macos, Windows
	Arch            string   // x86_64, armv8, x86, armv7
	Available       []string // Compilers found on PATH
	Compiler        string   // Preferred compiler (gcc, clang, msvc)
	CompilerVersion string   // Major version, if it could be determined
}

// compilerProbe maps a compiler driver on PATH to the setting value it implies
type compilerProbe struct {
	command string
	name    string
}

var probes = []compilerProbe{
	{"g++", "gcc"},
	{"clang++", "clang"},
	{"cl", "msvc"},
}

// Detect detects the host OS, architecture and C++ compilers.
func Detect() (*Platform, error) {
	p := &Platform{
		OS:        osName(runtime.GOOS),
		Arch:      archName(runtime.GOARCH),
		Available: []string{},
	}
	if p.OS == "" {
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	for _, probe := range probes {
		if commandExists(probe.command) {
			p.Available = append(p.Available, probe.name)
		}
	}

	// Prefer the platform's native toolchain
	switch p.OS {
	case "Macos":
		if contains(p.Available, "clang") {
			p.Compiler = "clang"
		}
	case "Windows":
		if contains(p.Available, "msvc") {
			p.Compiler = "msvc"
		}
	}
	if p.Compiler == "" && len(p.Available) > 0 {
		p.Compiler = p.Available[0]
	}

	if p.Compiler != "" && p.Compiler != "msvc" {
		p.CompilerVersion = compilerVersion(driverFor(p.Compiler))
	}

	return p, nil
}

// Settings returns the platform as a build-settings vector.
func (p *Platform) Settings() packageid.Settings {
	s := packageid.Settings{
		packageid.SettingOS:        p.OS,
		packageid.SettingArch:      p.Arch,
		packageid.SettingBuildType: "Release",
	}
	if p.Compiler != "" {
		s[packageid.SettingCompiler] = p.Compiler
	}
	if p.CompilerVersion != "" {
		s[packageid.SettingCompilerVersion] = p.CompilerVersion
	}
	return s
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (compilers: %v, preferred: %s)",
		p.OS, p.Arch, p.Available, p.Compiler)
}

func osName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	default:
		return ""
	}
}

func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "armv8"
	case "386":
		return "x86"
	case "arm":
		return "armv7"
	default:
		return goarch
	}
}

func driverFor(compiler string) string {
	for _, probe := range probes {
		if probe.name == compiler {
			return probe.command
		}
	}
	return compiler
}

// compilerVersion asks a gcc-compatible driver for its major version
func compilerVersion(driver string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, driver, "-dumpversion").Output()
	if err != nil {
		return ""
	}
	major, _, _ := strings.Cut(strings.TrimSpace(string(out)), ".")
	return major
}
