package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"brancoder/internal/config"
	"brancoder/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// statfs is injectable for tests; it returns free and total bytes for the
// filesystem holding path.
var statfs = realStatfs

// RunAll executes the checks that apply before any conversion: the output
// directory must exist and be writable. Free-space checks need a size
// estimate and run separately via CheckFreeSpace.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable and
// writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has room for
// requiredBytes. A non-positive requirement passes trivially.
func CheckFreeSpace(name, path string, requiredBytes int64) Result {
	if requiredBytes <= 0 {
		return Result{Name: name, Passed: true, Detail: "no size estimate, skipping"}
	}
	free, _, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < uint64(requiredBytes) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s, have %s free)",
			path, formatBytes(uint64(requiredBytes)), formatBytes(free))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s free)", path, formatBytes(free))}
}

// CheckSystemDeps evaluates the external binaries the converter shells out
// to. Both the status command and the convert path use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for encoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
	}
	return deps.CheckBinaries(requirements)
}

func realStatfs(path string) (free, total uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	blockSize := uint64(stat.Bsize)
	return stat.Bavail * blockSize, stat.Blocks * blockSize, nil
}

func formatBytes(value uint64) string {
	const mib = 1024 * 1024
	if value >= mib {
		return fmt.Sprintf("%.1f MiB", float64(value)/float64(mib))
	}
	return fmt.Sprintf("%d B", value)
}
