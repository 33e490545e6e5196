package assign

import (
	"fmt"
	"sort"

	"fancam/internal/cluster"
)

const (
	// FolderError collects videos that produced no fingerprint.
	FolderError = "Error"
	// FolderUnknown collects videos the clustering engine labeled noise.
	FolderUnknown = "Unknown"
)

// DancerFolder formats the folder name for the nth performer group, 1-based.
func DancerFolder(n int) string {
	return fmt.Sprintf("Dancer_%02d", n)
}

// Plan maps each video name to its target folder name.
type Plan map[string]string

// Resolve turns cluster assignments and the error set into a folder plan.
//
// Distinct non-negative labels are numbered 1..N by ascending label value;
// which performer ends up as Dancer_01 depends on the clustering engine's
// label numbering, not on cluster size or discovery order. Noise maps to the
// Unknown folder and errored videos to the Error folder. The two input sets
// are disjoint by construction upstream; if a video somehow appears in both,
// the error bucket wins.
func Resolve(assignments map[string]int, errored []string) Plan {
	plan := make(Plan, len(assignments)+len(errored))

	labels := make([]int, 0, len(assignments))
	seen := make(map[int]bool, len(assignments))
	for _, label := range assignments {
		if label < 0 || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	sort.Ints(labels)

	folders := make(map[int]string, len(labels))
	for ordinal, label := range labels {
		folders[label] = DancerFolder(ordinal + 1)
	}

	for video, label := range assignments {
		if label == cluster.Noise {
			plan[video] = FolderUnknown
			continue
		}
		plan[video] = folders[label]
	}
	for _, video := range errored {
		plan[video] = FolderError
	}
	return plan
}

// Folders returns the distinct target folders in the plan, sorted.
func (p Plan) Folders() []string {
	seen := make(map[string]bool, len(p))
	for _, folder := range p {
		seen[folder] = true
	}
	folders := make([]string, 0, len(seen))
	for folder := range seen {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}

// Counts returns the number of videos per target folder.
func (p Plan) Counts() map[string]int {
	counts := make(map[string]int, len(p))
	for _, folder := range p {
		counts[folder]++
	}
	return counts
}

// Videos returns the planned video names, sorted, for stable rendering.
func (p Plan) Videos() []string {
	videos := make([]string, 0, len(p))
	for video := range p {
		videos = append(videos, video)
	}
	sort.Strings(videos)
	return videos
}
