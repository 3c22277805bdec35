package reputation

// Attitude is the gameplay-facing stance of an NPC toward the player.
type Attitude string

const (
	AttitudeHostile    Attitude = "hostile"
	AttitudeUnfriendly Attitude = "unfriendly"
	AttitudeNeutral    Attitude = "neutral"
	AttitudeFriendly   Attitude = "friendly"
	AttitudeDevoted    Attitude = "devoted"
)

func (a Attitude) rank() int {
	switch a {
	case AttitudeHostile:
		return 0
	case AttitudeUnfriendly:
		return 1
	case AttitudeNeutral:
		return 2
	case AttitudeFriendly:
		return 3
	case AttitudeDevoted:
		return 4
	}
	return -1
}

// AtLeast reports whether a is as warm as other or warmer.
// Unknown attitudes never satisfy the check.
func (a Attitude) AtLeast(other Attitude) bool {
	r := a.rank()
	return r >= 0 && r >= other.rank()
}

// AttitudeFor maps a standing or relationship value to an attitude.
// The bands are intentionally asymmetric: -40 is unfriendly while +40 is
// friendly.
func AttitudeFor(value int) Attitude {
	switch {
	case value >= 80:
		return AttitudeDevoted
	case value >= 40:
		return AttitudeFriendly
	case value >= -39:
		return AttitudeNeutral
	case value >= -79:
		return AttitudeUnfriendly
	default:
		return AttitudeHostile
	}
}

// DescribeReputation returns a short descriptive tier for a standing value.
func DescribeReputation(value int) string {
	switch {
	case value >= 90:
		return "Legendary"
	case value >= 70:
		return "Revered"
	case value >= 50:
		return "Honored"
	case value >= 30:
		return "Friendly"
	case value >= 10:
		return "Liked"
	case value >= -9:
		return "Neutral"
	case value >= -29:
		return "Disliked"
	case value >= -49:
		return "Unfriendly"
	case value >= -79:
		return "Hated"
	default:
		return "Nemesis"
	}
}
