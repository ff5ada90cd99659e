package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"
)

var processStart = time.Now()

// SysHealth is a point-in-time view of the planner process and its data.
type SysHealth struct {
	HeapMB         uint64
	SysMB          uint64
	NumGC          uint32
	Goroutines     int
	Uptime         time.Duration
	DataDiskSize   string
	CatalogRecipes int
}

// Snapshot reports runtime memory, the size of everything under dataDir,
// and the number of recipes plans are drawn from.
func Snapshot(dataDir string, catalogRecipes int) SysHealth {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SysHealth{
		HeapMB:         mem.HeapAlloc >> 20,
		SysMB:          mem.Sys >> 20,
		NumGC:          mem.NumGC,
		Goroutines:     runtime.NumGoroutine(),
		Uptime:         time.Since(processStart).Truncate(time.Second),
		DataDiskSize:   FormatBytes(diskUsage(dataDir)),
		CatalogRecipes: catalogRecipes,
	}
}

// diskUsage sums regular file sizes under root. A missing root counts as empty.
func diskUsage(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	value, units := float64(n)/1024, "KMGTPE"
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %cB", value, units[i])
}
