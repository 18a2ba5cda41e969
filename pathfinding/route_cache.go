package pathfinding

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"ormd/geometry"
)

// RouteCacheKey identifies one routing request: both shapes, their sides and
// anchors, the gap, the router settings and the obstacle set.
type RouteCacheKey struct {
	Left, Right  geometry.Rect
	Sides        uint64
	Gap          float64
	Settings     Settings
	ObstacleHash uint64
}

// RouteCache stores previously computed routes for reuse. Routing is a pure
// function of its inputs, so a hit is always equal to a fresh computation.
type RouteCache struct {
	mu        sync.RWMutex
	cache     map[RouteCacheKey]RouterLine
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewRouteCache creates a route cache holding at most maxSize entries.
// A non-positive size means unbounded.
func NewRouteCache(maxSize int) *RouteCache {
	return &RouteCache{
		cache:   make(map[RouteCacheKey]RouterLine),
		maxSize: maxSize,
	}
}

// KeyFor builds the cache key of a routing request.
func KeyFor(left, right RouterShape, gap float64, settings Settings, obstacles []geometry.Rect) RouteCacheKey {
	return RouteCacheKey{
		Left:         geometry.NormalizeRect(left.Rect),
		Right:        geometry.NormalizeRect(right.Rect),
		Sides:        hashShapes(left, right),
		Gap:          gap,
		Settings:     settings,
		ObstacleHash: HashObstacles(obstacles),
	}
}

// Get returns a copy of the cached route, if any.
func (rc *RouteCache) Get(key RouteCacheKey) (RouterLine, bool) {
	rc.mu.RLock()
	line, found := rc.cache[key]
	rc.mu.RUnlock()

	if found {
		atomic.AddInt64(&rc.hits, 1)
		return line.Clone(), true
	}
	atomic.AddInt64(&rc.misses, 1)
	return RouterLine{}, false
}

// Put stores a copy of line under key.
func (rc *RouteCache) Put(key RouteCacheKey, line RouterLine) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, exists := rc.cache[key]; !exists && rc.maxSize > 0 && len(rc.cache) >= rc.maxSize {
		// Evict an arbitrary entry.
		for k := range rc.cache {
			delete(rc.cache, k)
			atomic.AddInt64(&rc.evictions, 1)
			break
		}
	}

	rc.cache[key] = line.Clone()
}

// Clear removes all entries and resets the statistics.
func (rc *RouteCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache = make(map[RouteCacheKey]RouterLine)
	atomic.StoreInt64(&rc.hits, 0)
	atomic.StoreInt64(&rc.misses, 0)
	atomic.StoreInt64(&rc.evictions, 0)
}

// Stats returns cache statistics.
func (rc *RouteCache) Stats() (hits, misses, evictions, size int) {
	rc.mu.RLock()
	size = len(rc.cache)
	rc.mu.RUnlock()

	hits = int(atomic.LoadInt64(&rc.hits))
	misses = int(atomic.LoadInt64(&rc.misses))
	evictions = int(atomic.LoadInt64(&rc.evictions))

	return hits, misses, evictions, size
}

// String returns a string representation of cache statistics.
func (rc *RouteCache) String() string {
	hits, misses, evictions, size := rc.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return fmt.Sprintf("RouteCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, rc.maxSize, hits, misses, hitRate, evictions)
}

// HashObstacles hashes an obstacle list. Order matters, as it does for routing.
func HashObstacles(rects []geometry.Rect) uint64 {
	if len(rects) == 0 {
		return 0
	}
	h := fnv.New64a()
	for _, r := range rects {
		r = geometry.NormalizeRect(r)
		writeFloats(h, r.Left, r.Top, r.Width, r.Height)
	}
	return h.Sum64()
}

func hashShapes(shapes ...RouterShape) uint64 {
	h := fnv.New64a()
	for _, s := range shapes {
		for _, d := range s.DesiredDegree {
			writeFloats(h, float64(d))
		}
		writeFloats(h, -1)
		for _, c := range []geometry.Coord{s.StartPoint.X, s.StartPoint.Y} {
			if c.Set {
				writeFloats(h, 1, c.Value)
			} else {
				writeFloats(h, 0)
			}
		}
	}
	return h.Sum64()
}

func writeFloats(h interface{ Write([]byte) (int, error) }, values ...float64) {
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
