package thing_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingsync/thing-go/pkg/config"
	"github.com/thingsync/thing-go/pkg/memio"
	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/thing"
	"github.com/thingsync/thing-go/pkg/transport"
	"github.com/thingsync/thing-go/pkg/version"
	"github.com/thingsync/thing-go/pkg/wire"
)

const e2eTimeout = 5 * time.Second

const e2eDescription = `
device:
  name: e2e
  base_name: "urn:dev:e2e:"
properties:
  - name: temperature
    type: float
    permission: read
    initial: 21.5
    publish: {mode: on-change, min_delta: 0.1}
  - name: setpoint
    type: float
    permission: readwrite
    initial: 20
    sync: most-recent-wins
  - name: target
    type: int
    permission: readwrite
    initial: 1
    sync: most-recent-wins
  - name: position
    type: location
    permission: read
    initial: [45.07, 7.69]
`

// epochClock is a wall clock frozen at a settable Unix time.
type epochClock struct {
	ms    uint64
	epoch uint64
}

func (c *epochClock) Millis() uint64         { return c.ms }
func (c *epochClock) Epoch() (uint64, bool) { return c.epoch, true }

func newE2EThing(t *testing.T, clock property.Clock, io thing.AttributeIO) *thing.Thing {
	t.Helper()
	cfg, err := config.Parse([]byte(e2eDescription), config.FormatYAML)
	require.NoError(t, err)

	thCfg, err := cfg.ThingConfig()
	require.NoError(t, err)
	thCfg.Clock = clock
	thCfg.IO = io

	th := thing.New(thCfg)
	_, err = config.Apply(th, cfg)
	require.NoError(t, err)
	return th
}

// mirrorResult is what the mirror saw during one session.
type mirrorResult struct {
	protocol string
	values   map[string]any
	err      error
}

// startTLSMirror accepts one device, sends lastValues as its first pack
// and reports the first pack it gets back.
func startTLSMirror(t *testing.T, protos []string, lastValues []wire.Record) (string, <-chan mirrorResult) {
	t.Helper()

	cert, err := generateSelfSignedCert("mirror.thing.local")
	require.NoError(t, err)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   protos,
		MinVersion:   tls.VersionTLS12,
	})
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	results := make(chan mirrorResult, 1)
	go func() {
		var res mirrorResult
		defer func() { results <- res }()

		conn, err := ln.Accept()
		if err != nil {
			res.err = err
			return
		}
		tlsConn := conn.(*tls.Conn)
		if res.err = tlsConn.Handshake(); res.err != nil {
			conn.Close()
			return
		}
		res.protocol = tlsConn.ConnectionState().NegotiatedProtocol

		link := transport.NewStreamLink(conn)
		defer link.Close()

		pack, err := wire.Encode(lastValues)
		if err != nil {
			res.err = err
			return
		}
		if res.err = link.Send(pack); res.err != nil {
			return
		}

		reply, err := link.Receive(e2eTimeout)
		if err != nil {
			res.err = err
			return
		}
		records, err := wire.Decode(reply)
		if err != nil {
			res.err = err
			return
		}
		res.values = make(map[string]any, len(records))
		for _, r := range records {
			res.values[r.FullName()] = r.Value.Any()
		}
	}()

	return ln.Addr().String(), results
}

func TestE2E_TLSReconnectionSync(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), e2eTimeout)
	defer cancel()

	clock := &epochClock{epoch: 1_000_000}
	th := newE2EThing(t, clock, nil)

	// Offline, both writable properties change locally.
	th.Lookup("setpoint").Value().(*property.Float).Set(22)
	th.Lookup("target").Value().(*property.Int).Set(2)
	th.UpdateTimestampsForLocallyChanged()
	assert.Equal(t, uint64(1_000_000), th.Lookup("setpoint").LastLocalChange())

	// The mirror changed setpoint before and target after the device did.
	addr, results := startTLSMirror(t, version.SupportedProtocols(), []wire.Record{
		{BaseName: "urn:dev:e2e:", Name: "setpoint", Time: 999_000, Value: wire.NumberValue(15)},
		{Name: "target", Time: 1_001_000, Value: wire.IntValue(30)},
	})

	link, err := transport.DialTCP(ctx, addr, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec // self-signed test mirror
	require.NoError(t, err)
	defer link.Close()

	lastValues, err := link.Receive(e2eTimeout)
	require.NoError(t, err)
	require.NoError(t, th.Decode(lastValues, true))

	pack, err := th.EncodeAll()
	require.NoError(t, err)
	require.NoError(t, link.Send(pack))

	res := <-results
	require.NoError(t, res.err)
	assert.Equal(t, "thing-sync/1", res.protocol)

	assert.Equal(t, 22.0, th.Lookup("setpoint").Value().(*property.Float).Get(), "device changed last")
	assert.Equal(t, int64(30), th.Lookup("target").Value().(*property.Int).Get(), "cloud changed last")

	assert.Equal(t, map[string]any{
		"urn:dev:e2e:temperature":  21.5,
		"urn:dev:e2e:setpoint":     22.0,
		"urn:dev:e2e:target":       30.0,
		"urn:dev:e2e:position.lat": 45.07,
		"urn:dev:e2e:position.lon": 7.69,
	}, res.values)
	assert.Equal(t, uint64(2), th.Stats().Synced)
}

func TestE2E_TLSRejectsIncompatibleMirror(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), e2eTimeout)
	defer cancel()

	addr, results := startTLSMirror(t, []string{version.Protocol(2)}, nil)

	_, err := transport.DialTCP(ctx, addr, &tls.Config{InsecureSkipVerify: true}) //nolint:gosec // self-signed test mirror
	assert.Error(t, err)

	res := <-results
	assert.Error(t, res.err, "handshake fails without a common protocol")
}

func TestE2E_BridgeCycleToMirror(t *testing.T) {
	store := memio.New()
	clock := &epochClock{epoch: 1_000_000}
	th := newE2EThing(t, clock, store)
	require.NoError(t, th.WritePass())

	mirrorSide, deviceSide := net.Pipe()
	mirror := transport.NewStreamLink(mirrorSide)
	device := transport.NewStreamLink(deviceSide)
	defer mirror.Close()
	defer device.Close()

	// First cycle publishes everything readable.
	require.NoError(t, th.ReadPass())
	pack, err := th.Encode()
	require.NoError(t, err)
	require.NoError(t, device.Send(pack))

	got, err := mirror.Receive(e2eTimeout)
	require.NoError(t, err)
	records, err := wire.Decode(got)
	require.NoError(t, err)
	assert.Len(t, records, 5)

	// The radio module reports a new setpoint; the next cycle applies it
	// and has nothing new to publish for temperature.
	require.NoError(t, store.WriteFloat("setpoint", 19.5))
	clock.ms += 1000
	require.NoError(t, th.ReadPass())
	assert.Equal(t, 19.5, th.Lookup("setpoint").Value().(*property.Float).Get())

	// A small temperature drift stays below the publish delta.
	th.Lookup("temperature").Value().(*property.Float).Set(21.55)
	pack, err = th.Encode()
	require.NoError(t, err)
	if pack != nil {
		require.NoError(t, device.Send(pack))
		got, err := mirror.Receive(e2eTimeout)
		require.NoError(t, err)
		records, err := wire.Decode(got)
		require.NoError(t, err)
		for _, r := range records {
			assert.NotEqual(t, "urn:dev:e2e:temperature", r.FullName())
		}
	}

	// An inbound pack from the mirror reaches the bridge after a write pass.
	inbound, err := wire.Encode([]wire.Record{{Name: "urn:dev:e2e:target", Value: wire.IntValue(7)}})
	require.NoError(t, err)
	require.NoError(t, mirror.Send(inbound))
	got, err = device.Receive(e2eTimeout)
	require.NoError(t, err)
	require.NoError(t, th.Decode(got, false))
	require.NoError(t, th.WritePass())

	v, err := store.ReadInt("target")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func generateSelfSignedCert(commonName string) (tls.Certificate, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName: commonName,
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:              []string{commonName, "localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	return tls.X509KeyPair(certPEM, keyPEM)
}
