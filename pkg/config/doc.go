// Package config loads device description files.
//
// A description declares the device identity, the cycle and mirror
// settings, logging, and the properties to register. Files are YAML
// (.yaml, .yml) or TOML (.toml):
//
//	device:
//	  name: greenhouse
//	  naming: scoped
//	cycle:
//	  interval: 500ms
//	properties:
//	  - name: temperature
//	    type: float
//	    permission: read
//	    publish: {mode: on-change, min_delta: 0.5, min_interval: 10s}
//	  - name: setpoint
//	    type: float
//	    permission: readwrite
//	    sync: most-recent-wins
//
// Apply registers the declared properties on a thing.Thing.
package config
