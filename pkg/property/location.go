package property

import "math"

// Location is a composite value made of a latitude and a longitude.
// Its attributes are "lat" and "lon".
type Location struct {
	lat, lon Float
}

// NewLocation creates a Location with both copies set.
func NewLocation(lat, lon float64) *Location {
	return &Location{
		lat: Float{local: lat, cloud: lat},
		lon: Float{local: lon, cloud: lon},
	}
}

// Get returns the local coordinates.
func (l *Location) Get() (lat, lon float64) { return l.lat.local, l.lon.local }

// Set sets the local coordinates.
func (l *Location) Set(lat, lon float64) {
	l.lat.local = lat
	l.lon.local = lon
}

func (l *Location) Kind() Kind { return KindLocation }
func (l *Location) IsPrimitive() bool { return false }

// IsDifferentFromCloud reports a change when either coordinate moved by
// at least minDelta.
func (l *Location) IsDifferentFromCloud(minDelta float64) bool {
	if l.lat.local == l.lat.cloud && l.lon.local == l.lon.cloud {
		return false
	}
	return math.Abs(l.lat.local-l.lat.cloud) >= minDelta ||
		math.Abs(l.lon.local-l.lon.cloud) >= minDelta
}

func (l *Location) FromCloudToLocal() {
	l.lat.FromCloudToLocal()
	l.lon.FromCloudToLocal()
}

func (l *Location) FromLocalToCloud() {
	l.lat.FromLocalToCloud()
	l.lon.FromLocalToCloud()
}

func (l *Location) Attributes() []Attribute {
	return []Attribute{
		{Name: "lat", Scalar: &l.lat},
		{Name: "lon", Scalar: &l.lon},
	}
}

var _ Value = (*Location)(nil)
