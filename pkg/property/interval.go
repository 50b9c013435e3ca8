package property

// Interval is a publish period in seconds, used with PublishAt.
// Multiply a count by one of the unit constants: 10 * Minutes.
type Interval int64

const (
	// OnChange selects change-driven publishing with no periodic fallback.
	OnChange Interval = -1

	Seconds Interval = 1
	Minutes Interval = 60
	Hours   Interval = 3600
	Days    Interval = 86400
)

// Policy selects how a property decides to publish.
type Policy uint8

const (
	// PolicyNone never publishes after the first transmission.
	PolicyNone Policy = iota

	// PolicyOnChange publishes when the value changed, rate-limited.
	PolicyOnChange

	// PolicyTimeInterval publishes on a fixed period.
	PolicyTimeInterval
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "NONE"
	case PolicyOnChange:
		return "ON_CHANGE"
	case PolicyTimeInterval:
		return "TIME_INTERVAL"
	default:
		return "UNKNOWN"
	}
}
