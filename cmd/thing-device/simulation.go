package main

import (
	"math"

	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/thing"
)

// simulator moves the device-owned values so there is something to
// publish. Only properties the cloud cannot write are touched.
type simulator struct {
	step int
	base map[string]float64
}

func newSimulator() *simulator {
	return &simulator{base: make(map[string]float64)}
}

// Step advances every simulated value by one cycle.
func (s *simulator) Step(th *thing.Thing) {
	s.step++
	for i, p := range th.Properties() {
		if p.IsWritableByCloud() {
			continue
		}
		phase := float64(s.step)/10 + float64(i)

		switch v := p.Value().(type) {
		case *property.Float:
			base, ok := s.base[p.Name()]
			if !ok {
				base = v.Get()
				s.base[p.Name()] = base
			}
			v.Set(base + 2*math.Sin(phase))
		case *property.Int:
			if s.step%5 == 0 {
				v.Set(v.Get() + 1)
			}
		case *property.Bool:
			if s.step%20 == 0 {
				v.Set(!v.Get())
			}
		}
	}
}
