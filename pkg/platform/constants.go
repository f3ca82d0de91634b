package platform

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"
	// OSDarwin represents the macOS operating system.
	OSDarwin = "darwin"
	// OSFreeBSD represents the FreeBSD operating system.
	OSFreeBSD = "freebsd"
	// OSOpenBSD represents the OpenBSD operating system.
	OSOpenBSD = "openbsd"
	// OSNetBSD represents the NetBSD operating system.
	OSNetBSD = "netbsd"

	// ArchAMD64 represents the AMD64 (x86_64) architecture.
	ArchAMD64 = "amd64"
	// Arch386 represents the 32-bit x86 architecture.
	Arch386 = "386"
	// ArchARM represents the ARM architecture (32-bit).
	ArchARM = "arm"
	// ArchARM64 represents the ARM64 (AArch64) architecture.
	ArchARM64 = "arm64"
)

// osAliases maps spellings seen in release asset names to GOOS values.
var osAliases = map[string]string{
	"linux":   OSLinux,
	"darwin":  OSDarwin,
	"macos":   OSDarwin,
	"osx":     OSDarwin,
	"apple":   OSDarwin,
	"win":     OSWindows,
	"win64":   OSWindows,
	"windows": OSWindows,
	"freebsd": OSFreeBSD,
	"openbsd": OSOpenBSD,
	"netbsd":  OSNetBSD,
}

// archAliases maps spellings seen in release asset names to GOARCH values.
var archAliases = map[string]string{
	"x86_64":  ArchAMD64,
	"x64":     ArchAMD64,
	"amd64":   ArchAMD64,
	"x86":     Arch386,
	"i386":    Arch386,
	"i686":    Arch386,
	"386":     Arch386,
	"arm64":   ArchARM64,
	"aarch64": ArchARM64,
	"arm":     ArchARM,
	"armv6":   ArchARM,
	"armv7":   ArchARM,
	"armhf":   ArchARM,
}

// ValidOS returns a list of valid OS values.
func ValidOS() []string {
	return []string{
		OSWindows,
		OSLinux,
		OSDarwin,
		OSFreeBSD,
		OSOpenBSD,
		OSNetBSD,
	}
}

// ValidArch returns a list of valid architecture values.
func ValidArch() []string {
	return []string{
		ArchAMD64,
		Arch386,
		ArchARM,
		ArchARM64,
	}
}
