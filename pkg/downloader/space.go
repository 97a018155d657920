package downloader

import (
	"fmt"

	"github.com/inhies/go-bytesize"
	"github.com/shirou/gopsutil/v3/disk"
)

// SpaceFunc returns an error when need bytes cannot be stored.
type SpaceFunc func(need int64) error

// DiskSpace checks the free space of the volume holding root.
func DiskSpace(root string) SpaceFunc {
	return func(need int64) error {
		usage, err := disk.Usage(root)
		if err != nil {
			return fmt.Errorf("reading disk usage of %s: %w", root, err)
		}
		if need > 0 && uint64(need) > usage.Free {
			return fmt.Errorf("%w: need %s, %s free on %s", ErrInsufficientSpace,
				bytesize.New(float64(need)), bytesize.New(float64(usage.Free)), root)
		}
		return nil
	}
}
