package models

// LevelForPoints derives the level from accumulated points:
// level = floor(points / threshold) + 1. Negative points count as zero and a
// non-positive threshold yields level 1.
func LevelForPoints(points, threshold int) int {
	if threshold <= 0 || points <= 0 {
		return 1
	}
	return points/threshold + 1
}

// ClampProgress bounds a progress percentage to [0,100]
func ClampProgress(progress int) int {
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	default:
		return progress
	}
}
