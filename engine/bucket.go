package engine

import "hash/fnv"

// Bucket maps a (flag, subject) pair to a stable position in
// [0, TotalWeight). It hashes the concatenation of flag id and subject id
// with FNV-1a, so a subject's position for one flag is independent of
// every other flag's configuration, and changing a flag's rollout weights
// moves only the subjects whose positions straddle the adjusted boundary.
func Bucket(flagID, subjectID string) int {
	h := fnv.New32a()
	h.Write([]byte(flagID))
	h.Write([]byte{':'})
	h.Write([]byte(subjectID))
	return int(h.Sum32() % TotalWeight)
}
