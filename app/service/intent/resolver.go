package intent

import (
	"math"

	"github.com/samber/oops"
)

// MaxNeighborDistance is the euclidean distance, in normalised TF-IDF space,
// under which the nearest sample phrase counts as a match.
const MaxNeighborDistance = 0.8

type ResolverKind string

const (
	ClassifierKind ResolverKind = "classifier"
	NeighborKind   ResolverKind = "neighbor"
)

// resolver maps a query vector to an intent id.
type resolver interface {
	Resolve(query vector) (string, bool)
}

type sample struct {
	intent string
	vec    vector
}

// centroidResolver is a nearest-centroid multi-class classifier: every intent
// is represented by the normalised mean of its phrase vectors.
type centroidResolver struct {
	intents   []string
	centroids []vector
}

func newCentroidResolver(samples []sample) *centroidResolver {
	r := &centroidResolver{}
	index := make(map[string]int)

	for _, s := range samples {
		i, ok := index[s.intent]
		if !ok {
			i = len(r.intents)
			index[s.intent] = i
			r.intents = append(r.intents, s.intent)
			r.centroids = append(r.centroids, make(vector))
		}
		for term, weight := range s.vec {
			r.centroids[i][term] += weight
		}
	}

	for _, c := range r.centroids {
		c.normalize()
	}

	return r
}

func (r *centroidResolver) Resolve(query vector) (string, bool) {
	if len(query) == 0 {
		return "", false
	}

	best, bestScore := -1, 0.0
	for i, c := range r.centroids {
		if score := query.dot(c); score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return "", false
	}
	return r.intents[best], true
}

// neighborResolver returns the intent of the single nearest sample phrase.
type neighborResolver struct {
	samples     []sample
	maxDistance float64
}

func newNeighborResolver(samples []sample, maxDistance float64) *neighborResolver {
	return &neighborResolver{
		samples:     samples,
		maxDistance: maxDistance,
	}
}

func (r *neighborResolver) Resolve(query vector) (string, bool) {
	if len(r.samples) == 0 {
		return "", false
	}

	queryNorm := query.norm2()
	best, bestDistance := -1, math.Inf(1)
	for i, s := range r.samples {
		d2 := queryNorm + s.vec.norm2() - 2*query.dot(s.vec)
		distance := math.Sqrt(math.Max(d2, 0))
		if distance < bestDistance {
			best, bestDistance = i, distance
		}
	}

	if best < 0 || bestDistance >= r.maxDistance {
		return "", false
	}
	return r.samples[best].intent, true
}

func newResolver(kind ResolverKind, samples []sample) (resolver, error) {
	switch kind {
	case ClassifierKind, "":
		return newCentroidResolver(samples), nil
	case NeighborKind:
		return newNeighborResolver(samples, MaxNeighborDistance), nil
	default:
		return nil, oops.In("intent").With("kind", kind).Errorf("unknown resolver kind")
	}
}
