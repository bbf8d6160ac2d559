package arch_test

import (
	"testing"

	"github.com/arthur-debert/debforge/pkg/arch"
	"github.com/stretchr/testify/assert"
)

func TestDebian(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"aarch64-unknown-linux-gnu", "arm64"},
		{"x86_64-unknown-linux-gnu", "amd64"},
		{"x86_64-unknown-linux-musl", "amd64"},
		{"x86_64-unknown-linux-gnux32", "x32"},
		{"i586-unknown-linux-gnu", "i386"},
		{"i686-unknown-linux-gnu", "i386"},
		{"armv7-unknown-linux-gnueabihf", "armhf"},
		{"armv7-unknown-linux-gnueabi", "armel"},
		{"arm-unknown-linux-musleabihf", "armhf"},
		{"powerpc64-unknown-linux-gnu", "ppc64"},
		{"powerpc64le-unknown-linux-gnu", "ppc64el"},
		{"powerpc-unknown-linux-gnuspe", "powerpcspe"},
		{"mips64-unknown-linux-gnuabin32", "mipsn32"},
		{"mips64el-unknown-linux-gnuabin32", "mipsn32el"},
		{"mipsisa64r6-unknown-linux-gnuabi64", "mips64r6"},
		{"mipsisa64r6el-unknown-linux-gnuabin32", "mipsn32r6el"},
		// Bare architecture names, as reported for the host
		{"x86_64", "amd64"},
		{"amd64", "amd64"},
		{"arm64", "arm64"},
		{"386", "i386"},
		// Unknown architectures pass through unchanged
		{"riscv64gc-unknown-linux-gnu", "riscv64gc"},
		{"s390x-unknown-linux-gnu", "s390x"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, arch.Debian(tt.target))
		})
	}
}

func TestHost(t *testing.T) {
	// The host tag must never be empty, whatever platform runs the tests
	assert.NotEmpty(t, arch.Host())
}
