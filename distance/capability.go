package distance

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// Capabilities lists the SIMD features of the host CPU, or "generic".
// It is reported in startup logs; the kernels do not depend on it.
func Capabilities() string {
	var feats []string
	if cpu.X86.HasAVX512F {
		feats = append(feats, "avx512f")
	}
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		feats = append(feats, "avx2")
	}
	if cpu.ARM64.HasASIMD {
		feats = append(feats, "neon")
	}
	if len(feats) == 0 {
		return "generic"
	}
	return strings.Join(feats, ",")
}
