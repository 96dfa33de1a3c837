package doctor

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Feature is one instruction set extension and whether the host has it.
type Feature struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// CPUFeatures reports the SIMD extensions of the host architecture. The
// report is informational: the kernels use none of them.
func CPUFeatures() []Feature {
	switch runtime.GOARCH {
	case "amd64", "386":
		return []Feature{
			{"sse2", cpu.X86.HasSSE2},
			{"sse41", cpu.X86.HasSSE41},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
		}
	case "arm64":
		return []Feature{
			{"fp", cpu.ARM64.HasFP},
			{"asimd", cpu.ARM64.HasASIMD},
			{"sve", cpu.ARM64.HasSVE},
		}
	default:
		return nil
	}
}
