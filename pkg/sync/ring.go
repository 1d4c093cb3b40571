package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring consistently hashes keys onto a fixed number of stripes
type ring struct {
	points *treemap.Map

	// Stripe owning the lowest point, where hashes past the last point wrap.
	// Cached since treemap.Map.Min() is O(log n).
	first int
}

// newRing returns a ring over stripes [0, stripes), each placed at
// pointsPerStripe positions.
func newRing(stripes, pointsPerStripe uint) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	indexBytes := make([]byte, 4)
	for stripe := 0; stripe < int(stripes); stripe++ {
		nameHash, _ := murmur3.Sum128([]byte(fmt.Sprintf("lock%d", stripe)))
		nameHashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(nameHashBytes, nameHash)

		for i := 0; i < int(pointsPerStripe); i++ {
			binary.LittleEndian.PutUint32(indexBytes, uint32(i))

			hasher := murmur3.New128()
			hasher.Write(nameHashBytes)
			hasher.Write(indexBytes)
			point, _ := hasher.Sum128()

			points.Put(int64(point), stripe)
		}
	}

	r := &ring{points: points}
	if _, first := points.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

// stripe returns the stripe owning key
func (r *ring) stripe(key []byte) int {
	raw, _ := murmur3.Sum128(key)
	_, stripe := r.points.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.first
}
