package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/thingsync/thing-go/pkg/thing"
	"github.com/thingsync/thing-go/pkg/transport"
)

// DialFunc opens a link to the mirror.
type DialFunc func(ctx context.Context) (transport.Link, error)

// DriverConfig configures the cycle driver.
type DriverConfig struct {
	// Interval between two cycles.
	Interval time.Duration

	// Dial connects to the mirror. If nil the device runs offline.
	Dial DialFunc

	// Reconnect is the first delay before redialing a lost mirror. Later
	// attempts back off exponentially up to MaxReconnect.
	Reconnect    time.Duration
	MaxReconnect time.Duration

	// LastValuesTimeout bounds the wait for the mirror's last values
	// after connecting. Default 5s.
	LastValuesTimeout time.Duration

	// Step runs at the start of every cycle, before the read pass.
	Step func(th *thing.Thing)
}

// Driver owns a Thing and runs its cycle on a single goroutine. All
// access to the Thing from other goroutines goes through Do.
type Driver struct {
	thing   *thing.Thing
	config  DriverConfig
	ops     chan func()
	stopped chan struct{}
	backoff *transport.Backoff

	link        transport.Link
	frames      chan []byte
	linkErr     chan error
	linkDone    chan struct{}
	awaitingLVs bool
	lvDeadline  time.Time
}

// NewDriver creates a driver for th.
func NewDriver(th *thing.Thing, config DriverConfig) *Driver {
	if config.Interval <= 0 {
		config.Interval = time.Second
	}
	if config.LastValuesTimeout <= 0 {
		config.LastValuesTimeout = 5 * time.Second
	}
	return &Driver{
		thing:   th,
		config:  config,
		ops:     make(chan func()),
		stopped: make(chan struct{}),
		backoff: transport.NewBackoff(transport.BackoffConfig{
			Initial: config.Reconnect,
			Max:     config.MaxReconnect,
		}),
	}
}

// ErrStopped is returned by Do once the driver has stopped.
var ErrStopped = errors.New("driver stopped")

// Do runs fn on the driver goroutine and waits for it to return.
func (d *Driver) Do(ctx context.Context, fn func(th *thing.Thing)) error {
	done := make(chan struct{})
	op := func() {
		defer close(done)
		fn(d.thing)
	}
	select {
	case d.ops <- op:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Connected reports whether a mirror link is up.
func (d *Driver) Connected(ctx context.Context) bool {
	var up bool
	_ = d.Do(ctx, func(*thing.Thing) { up = d.link != nil })
	return up
}

// Sync replays the attribute bridge to the sync hooks and publishes every
// readable property, as done after a reconnection.
func (d *Driver) Sync(ctx context.Context) error {
	var err error
	if doErr := d.Do(ctx, func(th *thing.Thing) {
		err = errors.Join(th.ReadSyncPass(), d.publish(true), th.WritePass())
	}); doErr != nil {
		return doErr
	}
	return err
}

// Run runs cycles until ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	var redial <-chan time.Time
	if d.config.Dial != nil {
		redial = time.After(0)
	}

	defer close(d.stopped)
	defer d.disconnect()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case op := <-d.ops:
			op()

		case <-redial:
			redial = nil
			if err := d.connect(ctx); err != nil {
				delay := d.backoff.Next()
				log.Printf("[MIRROR] connect failed: %v (retry in %s)", err, delay.Round(time.Millisecond))
				redial = time.After(delay)
			}

		case frame := <-d.frames:
			d.inbound(frame)

		case err := <-d.linkErr:
			log.Printf("[MIRROR] link lost: %v", err)
			d.disconnect()
			redial = time.After(d.backoff.Next())

		case <-ticker.C:
			d.cycle()
		}
	}
}

// cycle runs one pass: read the bridge, publish what is due, write the
// bridge back.
func (d *Driver) cycle() {
	th := d.thing

	if d.config.Step != nil {
		d.config.Step(th)
	}

	if err := th.ReadPass(); err != nil {
		log.Printf("[CYCLE] read pass: %v", err)
	}

	switch {
	case d.link == nil:
		th.UpdateTimestampsForLocallyChanged()
	case d.awaitingLVs:
		if time.Now().After(d.lvDeadline) {
			log.Printf("[MIRROR] no last values received, publishing all properties")
			d.awaitingLVs = false
			if err := d.publish(true); err != nil {
				log.Printf("[CYCLE] publish: %v", err)
			}
		}
	default:
		if err := d.publish(false); err != nil {
			log.Printf("[CYCLE] publish: %v", err)
		}
	}

	if err := th.WritePass(); err != nil {
		log.Printf("[CYCLE] write pass: %v", err)
	}
}

// publish encodes the due (or all readable) properties and sends them.
func (d *Driver) publish(all bool) error {
	if d.link == nil {
		return nil
	}

	var pack []byte
	var err error
	if all {
		pack, err = d.thing.EncodeAll()
	} else {
		pack, err = d.thing.Encode()
	}
	if err != nil || pack == nil {
		return err
	}
	return d.link.Send(pack)
}

// inbound applies a pack received from the mirror. The first pack after
// connecting carries the mirror's last values and is dispatched as a sync
// batch.
func (d *Driver) inbound(frame []byte) {
	sync := d.awaitingLVs
	if err := d.thing.Decode(frame, sync); err != nil {
		log.Printf("[MIRROR] bad pack: %v", err)
		return
	}

	if sync {
		d.awaitingLVs = false
		if err := d.publish(true); err != nil {
			log.Printf("[MIRROR] publish after sync: %v", err)
		}
	}

	// The bridge must see inbound values before the next read pass.
	if err := d.thing.WritePass(); err != nil {
		log.Printf("[MIRROR] write pass: %v", err)
	}
}

func (d *Driver) connect(ctx context.Context) error {
	link, err := d.config.Dial(ctx)
	if err != nil {
		return err
	}

	d.backoff.Reset()
	d.link = link
	d.frames = make(chan []byte)
	d.linkErr = make(chan error, 1)
	d.linkDone = make(chan struct{})
	d.awaitingLVs = true
	d.lvDeadline = time.Now().Add(d.config.LastValuesTimeout)
	d.thing.SetRemoteAddr(link.RemoteAddr())

	go receive(link, d.frames, d.linkErr, d.linkDone)

	log.Printf("[MIRROR] connected to %s", link.RemoteAddr())
	return nil
}

func (d *Driver) disconnect() {
	if d.link == nil {
		return
	}
	close(d.linkDone)
	d.link.Close()
	d.link = nil
	d.frames = nil
	d.linkErr = nil
	d.awaitingLVs = false
	d.thing.SetRemoteAddr("")
}

// receive forwards frames from link until it fails or done is closed.
func receive(link transport.Link, frames chan<- []byte, errs chan<- error, done <-chan struct{}) {
	for {
		frame, err := link.Receive(0)
		if err != nil {
			if !errors.Is(err, transport.ErrClosed) {
				errs <- err
			}
			return
		}
		select {
		case frames <- frame:
		case <-done:
			return
		}
	}
}
