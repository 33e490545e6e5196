package cluster

import "sort"

// Noise is the reserved label for points not reachable from any sufficiently
// dense cluster.
const Noise = -1

// DBSCAN groups fingerprint vectors by density under cosine distance.
//
// eps is the maximum distance for two points to be neighbors; minSamples is
// the neighborhood size (the point itself included) required for a point to
// seed a cluster. With minSamples of 1 every point seeds a cluster, so a lone
// video becomes its own one-member group instead of noise.
//
// Points are visited in sorted key order, so identical inputs always
// reproduce identical labels, numbering included. Label values carry no
// meaning beyond grouping identity. The empty input returns an empty,
// non-nil map.
func DBSCAN(points map[string][]float64, eps float64, minSamples int) map[string]int {
	labels := make(map[string]int, len(points))
	if len(points) == 0 {
		return labels
	}
	if minSamples < 1 {
		minSamples = 1
	}

	keys := make([]string, 0, len(points))
	for key := range points {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	visited := make(map[string]bool, len(keys))
	clusterID := 0

	for _, key := range keys {
		if visited[key] {
			continue
		}
		visited[key] = true

		neighbors := neighborsOf(keys, points, key, eps)
		if len(neighbors) < minSamples {
			labels[key] = Noise
			continue
		}

		labels[key] = clusterID
		expand(keys, points, neighbors, labels, visited, clusterID, eps, minSamples)
		clusterID++
	}

	return labels
}

// expand grows a cluster breadth-first from the seed neighborhood. Border
// points (dense-reachable but not dense themselves) join the cluster without
// contributing their own neighborhoods.
func expand(keys []string, points map[string][]float64, seeds []string, labels map[string]int, visited map[string]bool, clusterID int, eps float64, minSamples int) {
	for i := 0; i < len(seeds); i++ {
		key := seeds[i]
		if label, ok := labels[key]; ok && label != Noise {
			continue
		}
		labels[key] = clusterID

		if visited[key] {
			continue
		}
		visited[key] = true

		neighbors := neighborsOf(keys, points, key, eps)
		if len(neighbors) >= minSamples {
			seeds = append(seeds, neighbors...)
		}
	}
}

// neighborsOf returns every key within eps of center, center included, in
// sorted key order.
func neighborsOf(keys []string, points map[string][]float64, center string, eps float64) []string {
	centerVec := points[center]
	var neighbors []string
	for _, key := range keys {
		if key == center {
			neighbors = append(neighbors, key)
			continue
		}
		if CosineDistance(centerVec, points[key]) <= eps {
			neighbors = append(neighbors, key)
		}
	}
	return neighbors
}
