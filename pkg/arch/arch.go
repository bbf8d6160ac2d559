// Package arch maps build-target triples to Debian architecture tags.
//
// Build toolchains and Debian disagree on architecture naming: a toolchain
// triple like "aarch64-unknown-linux-gnu" must become "arm64" in package
// control metadata. The mapping is keyed on the (cpu, abi-suffix) pair so
// that hard-float ARM and the endianness/ABI-specific MIPS and PowerPC
// variants land on the right tag.
package arch

import (
	"runtime"
	"strings"
)

// Host returns the Debian architecture tag for the running system.
func Host() string {
	return Debian(runtime.GOARCH)
}

// Debian translates a target triple (or a bare architecture name) into the
// Debian architecture tag. Unrecognized architectures pass through unchanged.
//
// See https://wiki.debian.org/Multiarch/Tuples for the canonical list.
func Debian(target string) string {
	parts := strings.Split(target, "-")
	cpu := parts[0]
	abi := ""
	if len(parts) > 1 {
		abi = parts[len(parts)-1]
	}

	switch {
	case cpu == "aarch64" || cpu == "arm64":
		return "arm64"
	case cpu == "mips64" && abi == "gnuabin32":
		return "mipsn32"
	case cpu == "mips64el" && abi == "gnuabin32":
		return "mipsn32el"
	case cpu == "mipsisa32r6":
		return "mipsr6"
	case cpu == "mipsisa32r6el":
		return "mipsr6el"
	case cpu == "mipsisa64r6" && abi == "gnuabi64":
		return "mips64r6"
	case cpu == "mipsisa64r6" && abi == "gnuabin32":
		return "mipsn32r6"
	case cpu == "mipsisa64r6el" && abi == "gnuabi64":
		return "mips64r6el"
	case cpu == "mipsisa64r6el" && abi == "gnuabin32":
		return "mipsn32r6el"
	case cpu == "powerpc" && abi == "gnuspe":
		return "powerpcspe"
	case cpu == "powerpc64":
		return "ppc64"
	case cpu == "powerpc64le":
		return "ppc64el"
	case cpu == "i586" || cpu == "i686" || cpu == "x86" || cpu == "386":
		return "i386"
	case cpu == "x86_64" && abi == "gnux32":
		return "x32"
	case cpu == "x86_64":
		return "amd64"
	case strings.HasPrefix(cpu, "arm") && strings.HasSuffix(abi, "hf"):
		return "armhf"
	case strings.HasPrefix(cpu, "arm"):
		return "armel"
	default:
		return cpu
	}
}
