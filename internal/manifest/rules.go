package manifest

import (
	"runtime"
	"strings"
)

// Platform is an operating system as the rule evaluator sees it.
type Platform string

const (
	Windows Platform = "windows"
	MacOS   Platform = "macos"
	Linux   Platform = "linux"
)

// Arch is a processor architecture as the rule evaluator sees it.
type Arch string

const (
	X86   Arch = "x86"
	X64   Arch = "x64"
	ARM32 Arch = "arm32"
	ARM64 Arch = "arm64"
)

// Environment is the platform and architecture rules are evaluated against.
type Environment struct {
	Platform Platform
	Arch     Arch
}

// CurrentEnvironment describes the running process.
func CurrentEnvironment() Environment {
	return Environment{Platform: PlatformFor(runtime.GOOS), Arch: ArchFor(runtime.GOARCH)}
}

// PlatformFor maps a GOOS value. Unknown systems are treated as linux.
func PlatformFor(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Linux
	}
}

// ArchFor maps a GOARCH value. Unknown architectures are treated as x64.
func ArchFor(goarch string) Arch {
	switch goarch {
	case "386":
		return X86
	case "arm":
		return ARM32
	case "arm64":
		return ARM64
	default:
		return X64
	}
}

// descriptorOSNames maps the os.name vocabulary of descriptors to platforms.
var descriptorOSNames = map[string]Platform{
	"windows": Windows,
	"osx":     MacOS,
	"linux":   Linux,
}

// descriptorName is the inverse of descriptorOSNames.
func (p Platform) descriptorName() string {
	if p == MacOS {
		return "osx"
	}
	return string(p)
}

// Matches reports whether the rule's os clause applies to env. A rule
// without an os clause always matches.
func (r Rule) Matches(env Environment) bool {
	if r.OS == nil {
		return true
	}
	if r.OS.Name != "" {
		p, ok := descriptorOSNames[r.OS.Name]
		if !ok || p != env.Platform {
			return false
		}
	}
	if r.OS.Arch != "" && Arch(r.OS.Arch) != env.Arch {
		return false
	}
	return true
}

// Allowed evaluates a library's rules in order. No rules means the library
// is always included. A matching allow sets the result, and a matching
// disallow rejects the library at once regardless of earlier allows.
func Allowed(rules []Rule, env Environment) bool {
	if len(rules) == 0 {
		return true
	}

	allowed := false
	for _, r := range rules {
		if !r.Matches(env) {
			continue
		}
		switch r.Action {
		case ActionAllow:
			allowed = true
		case ActionDisallow:
			return false
		}
	}
	return allowed
}

// Applies reports whether lib should be downloaded on env.
func (lib Library) Applies(env Environment) bool {
	return Allowed(lib.Rules, env)
}

// NativeClassifier returns the native download for env and the classifier
// key it was found under. Both the natives entry and the classifier must be
// present; otherwise ok is false and the library contributes no native.
//
// The natives map is keyed by descriptor OS names (osx rather than macos);
// either spelling is accepted. A "${arch}" placeholder in the key is
// replaced with 32 or 64.
func (lib Library) NativeClassifier(env Environment) (info *DownloadInfo, key string, ok bool) {
	if len(lib.Natives) == 0 || lib.Downloads == nil || len(lib.Downloads.Classifiers) == 0 {
		return nil, "", false
	}

	key, found := lib.Natives[env.Platform.descriptorName()]
	if !found {
		key, found = lib.Natives[string(env.Platform)]
	}
	if !found || key == "" {
		return nil, "", false
	}
	key = strings.ReplaceAll(key, "${arch}", env.Arch.bits())

	info, found = lib.Downloads.Classifiers[key]
	if !found || info == nil {
		return nil, "", false
	}
	return info, key, true
}

func (a Arch) bits() string {
	if a == X86 || a == ARM32 {
		return "32"
	}
	return "64"
}
