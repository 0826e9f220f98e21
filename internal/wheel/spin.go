package wheel

import (
	crand "crypto/rand"
	"errors"
	"math/big"

	"github.com/arcyniiegas/elysium/internal/journey"
)

// The wheel shows ten segments, alternating starting with a relic at the
// top. This layout is purely visual; the granted item is resolved from the
// schedule before the wheel ever moves.
const (
	SegmentCount = 10
	SegmentAngle = 360 / SegmentCount
)

var (
	relicSegments = []int{0, 2, 4, 6, 8}
	echoSegments  = []int{1, 3, 5, 7, 9}

	errInvalidBound = errors.New("invalid random bound")
)

// Plan describes one spin animation for the overlay: which segment to stop
// on, how many extra full turns to take and the final pointer angle.
type Plan struct {
	Segment      int `json:"segment"`
	ExtraTurns   int `json:"extraTurns"`
	LandingAngle int `json:"landingAngle"`
}

var randomInt = secureRandomInt

// NewPlan picks a uniformly random segment among those matching the required
// kind, plus 10-13 camouflage turns. The choice never feeds back into which
// item is granted.
func NewPlan(kind journey.Kind) (Plan, error) {
	segments := echoSegments
	if kind == journey.KindRelic {
		segments = relicSegments
	}

	idx, err := randomInt(len(segments))
	if err != nil {
		return Plan{}, err
	}
	turns, err := randomInt(4)
	if err != nil {
		return Plan{}, err
	}

	segment := segments[idx]
	return Plan{
		Segment:      segment,
		ExtraTurns:   10 + turns,
		LandingAngle: segment*SegmentAngle + SegmentAngle/2,
	}, nil
}

// SegmentKind reports which kind a visual segment belongs to.
func SegmentKind(segment int) journey.Kind {
	if segment%2 == 0 {
		return journey.KindRelic
	}
	return journey.KindEcho
}

func secureRandomInt(max int) (int, error) {
	if max <= 0 {
		return 0, errInvalidBound
	}

	n, err := crand.Int(crand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
