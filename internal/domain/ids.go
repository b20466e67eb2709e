package domain

import "time"

// NextID returns a time-derived id strictly greater than every id in existing.
func NextID(now time.Time, existing []int64) int64 {
	id := now.UnixMilli()
	for _, e := range existing {
		if e >= id {
			id = e + 1
		}
	}
	return id
}
