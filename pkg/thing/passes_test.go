package thing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thingsync/thing-go/pkg/log"
	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/thing/mocks"
)

func TestApplyInboundCopiesCloudValue(t *testing.T) {
	th, _, rec := newThing(t)

	v := property.NewInt(1)
	calls := 0
	p := mustRegister(t, th, v, "setpoint", property.ReadWrite)
	p.OnUpdate(func(got *property.Property) {
		assert.Same(t, p, got)
		calls++
	})

	require.NoError(t, v.SetCloud(int64(7)))
	th.ApplyInbound("setpoint", 1234)

	assert.Equal(t, int64(7), v.Get())
	assert.Equal(t, uint64(1234), p.LastCloudChange())
	assert.Equal(t, 1, calls)
	assert.Equal(t, Stats{Applied: 1}, th.Stats())
	assert.Equal(t, []log.Category{log.CategoryInbound}, rec.categories())
	assert.Equal(t, int64(7), rec.events[0].Property.Value)
}

func TestApplyInboundOnReadOnlyIsNoop(t *testing.T) {
	th, _, rec := newThing(t)

	v := property.NewFloat(1)
	called := false
	p := mustRegister(t, th, v, "sensor", property.Read)
	p.OnUpdate(func(*property.Property) { called = true })
	p.OnSync(func(*property.Property) { called = true })
	p.SetLastCloudChange(55)

	require.NoError(t, v.SetCloud(9.0))
	th.ApplyInbound("sensor", 999)
	th.ApplyBatch([]Update{{Name: "sensor", Time: 999}}, true)

	assert.Equal(t, 1.0, v.Get())
	assert.Equal(t, uint64(55), p.LastCloudChange())
	assert.False(t, called)
	assert.Equal(t, uint64(2), th.Stats().Dropped)

	require.Len(t, rec.events, 2)
	assert.Equal(t, log.CategoryDropped, rec.events[0].Category)
	assert.Equal(t, log.DropNotWritable, rec.events[0].Property.Reason)
}

func TestApplyInboundUnknownIsIgnored(t *testing.T) {
	th, _, rec := newThing(t)
	mustRegister(t, th, property.NewBool(false), "known", property.ReadWrite)

	th.ApplyInbound("unknown", 1)

	assert.Equal(t, Stats{Dropped: 1}, th.Stats())
	require.Len(t, rec.events, 1)
	assert.Equal(t, log.DropUnknownProperty, rec.events[0].Property.Reason)
	assert.Equal(t, "unknown", rec.events[0].Property.Name)
}

func TestApplyBatchDispatchesInRegistrationOrder(t *testing.T) {
	th, _, _ := newThing(t)

	var order []string
	record := func(p *property.Property) { order = append(order, p.Name()) }
	for _, name := range []string{"a", "b", "c"} {
		mustRegister(t, th, property.NewInt(0), name, property.Write).OnUpdate(record)
	}

	th.ApplyBatch([]Update{{Name: "c"}, {Name: "ghost"}, {Name: "a"}, {Name: "b"}}, false)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, uint64(3), th.Stats().Applied)
	assert.Equal(t, uint64(1), th.Stats().Dropped)
}

func TestApplyBatchSyncRunsSyncHooks(t *testing.T) {
	th, _, rec := newThing(t)

	newest := property.NewInt(1)
	stale := property.NewInt(1)
	forced := property.NewInt(1)
	kept := property.NewInt(1)

	changed := map[string]int{}
	onChange := func(p *property.Property) { changed[p.Name()]++ }

	props := map[string]*property.Property{
		"newest": mustRegister(t, th, newest, "newest", property.ReadWrite).OnSync(property.MostRecentWins).OnUpdate(onChange),
		"stale":  mustRegister(t, th, stale, "stale", property.ReadWrite).OnSync(property.MostRecentWins).OnUpdate(onChange),
		"forced": mustRegister(t, th, forced, "forced", property.ReadWrite).OnSync(property.CloudWins).OnUpdate(onChange),
		"kept":   mustRegister(t, th, kept, "kept", property.ReadWrite).OnSync(property.DeviceWins).OnUpdate(onChange),
	}
	for _, v := range []*property.Int{newest, stale, forced, kept} {
		require.NoError(t, v.SetCloud(int64(2)))
	}
	props["newest"].SetLastLocalChange(50)
	props["stale"].SetLastLocalChange(100)
	props["forced"].SetLastLocalChange(1000)
	props["kept"].SetLastLocalChange(0)

	th.ApplyBatch([]Update{
		{Name: "newest", Time: 100},
		{Name: "stale", Time: 50},
		{Name: "forced", Time: 1},
		{Name: "kept", Time: 5000},
	}, true)

	assert.Equal(t, int64(2), newest.Get())
	assert.Equal(t, int64(1), stale.Get())
	assert.Equal(t, int64(2), forced.Get())
	assert.Equal(t, int64(1), kept.Get())
	assert.Equal(t, map[string]int{"newest": 1, "forced": 1}, changed)
	assert.Equal(t, Stats{Synced: 4}, th.Stats())

	require.Len(t, rec.events, 4)
	assert.Equal(t, log.CategorySync, rec.events[0].Category)
	assert.Equal(t, uint64(50), rec.events[0].Property.LocalChange)
	assert.Equal(t, uint64(100), rec.events[0].Property.CloudChange)

	// The sync flag only lives for one batch.
	require.NoError(t, stale.SetCloud(int64(3)))
	th.ApplyInbound("stale", 0)
	assert.Equal(t, int64(3), stale.Get())
}

func TestUpdateTimestampsForLocallyChanged(t *testing.T) {
	th, _, _ := newThing(t)

	changed := property.NewFloat(1)
	same := property.NewFloat(1)
	writeOnly := property.NewFloat(1)
	loc := property.NewLocation(1, 1)

	pChanged := mustRegister(t, th, changed, "changed", property.ReadWrite)
	pSame := mustRegister(t, th, same, "same", property.ReadWrite)
	pWriteOnly := mustRegister(t, th, writeOnly, "writeonly", property.Write)
	pLoc := mustRegister(t, th, loc, "loc", property.Read)

	changed.Set(2)
	writeOnly.Set(2)
	loc.Set(5, 5)

	th.UpdateTimestampsForLocallyChanged()

	assert.Equal(t, uint64(1700000000), pChanged.LastLocalChange())
	assert.Zero(t, pSame.LastLocalChange())
	assert.Zero(t, pWriteOnly.LastLocalChange())
	assert.Zero(t, pLoc.LastLocalChange(), "composites are not stamped")
}

func TestUpdateTimestampsWithoutWallClock(t *testing.T) {
	th := New(Config{Clock: &fakeClock{ms: 10}})
	v := property.NewInt(0)
	p := mustRegister(t, th, v, "n", property.Read)
	p.SetLastLocalChange(77)

	v.Set(1)
	th.UpdateTimestampsForLocallyChanged()

	assert.Zero(t, p.LastLocalChange())
}

func TestUpdateTimestampsWithoutPrimitives(t *testing.T) {
	th, _, _ := newThing(t)
	loc := property.NewLocation(0, 0)
	p := mustRegister(t, th, loc, "loc", property.Read)
	loc.Set(1, 1)

	th.UpdateTimestampsForLocallyChanged()
	assert.Zero(t, p.LastLocalChange())
}

func TestReadPassReadsWritableIntoCloudCopy(t *testing.T) {
	io := mocks.NewMockAttributeIO(t)
	th := New(Config{Clock: &fakeClock{}, IO: io, Naming: ScopedNaming})

	sw := property.NewBool(false)
	level := property.NewInt(0)
	label := property.NewString("")
	loc := property.NewLocation(0, 0)
	sensor := property.NewFloat(0)

	var updated []string
	onUpdate := func(p *property.Property) { updated = append(updated, p.Name()) }

	mustRegister(t, th, sw, "switch", property.ReadWrite).OnUpdate(onUpdate)
	mustRegister(t, th, level, "level", property.Write).OnUpdate(onUpdate)
	mustRegister(t, th, label, "label", property.ReadWrite).OnUpdate(onUpdate)
	mustRegister(t, th, loc, "loc", property.ReadWrite).OnUpdate(onUpdate)
	mustRegister(t, th, sensor, "sensor", property.Read).OnUpdate(onUpdate)

	io.EXPECT().ReadBool("switch").Return(true, nil).Once()
	io.EXPECT().ReadInt("level").Return(int64(4), nil).Once()
	io.EXPECT().ReadString("label").Return("kitchen", nil).Once()
	io.EXPECT().ReadFloat("loc:lat").Return(45.5, nil).Once()
	io.EXPECT().ReadFloat("loc:lon").Return(9.25, nil).Once()

	require.NoError(t, th.ReadPass())

	assert.True(t, sw.Get())
	assert.Equal(t, int64(4), level.Get())
	assert.Equal(t, "kitchen", label.Get())
	lat, lon := loc.Get()
	assert.Equal(t, 45.5, lat)
	assert.Equal(t, 9.25, lon)
	assert.Equal(t, []string{"switch", "level", "label", "loc"}, updated)
}

func TestReadPassContinuesAfterFailure(t *testing.T) {
	io := mocks.NewMockAttributeIO(t)
	th := New(Config{Clock: &fakeClock{}, IO: io})

	a := property.NewInt(0)
	b := property.NewInt(0)
	pa := mustRegister(t, th, a, "a", property.ReadWrite)
	mustRegister(t, th, b, "b", property.ReadWrite)

	errRadio := errors.New("radio timeout")
	io.EXPECT().ReadInt("a").Return(int64(0), errRadio).Once()
	io.EXPECT().ReadInt("b").Return(int64(8), nil).Once()

	pa.SetLastCloudChange(42)
	err := th.ReadPass()
	require.Error(t, err)
	assert.ErrorIs(t, err, errRadio)
	assert.Contains(t, err.Error(), "read a")

	assert.Equal(t, uint64(42), pa.LastCloudChange(), "failed property is not applied")
	assert.Equal(t, int64(8), b.Get())
}

func TestReadPassSkipsUnchangedValues(t *testing.T) {
	io := mocks.NewMockAttributeIO(t)
	th := New(Config{Clock: &fakeClock{}, IO: io})

	v := property.NewInt(5)
	calls := 0
	mustRegister(t, th, v, "level", property.ReadWrite).OnUpdate(func(*property.Property) { calls++ })

	io.EXPECT().ReadInt("level").Return(int64(5), nil).Once()
	require.NoError(t, th.ReadPass())
	assert.Zero(t, calls)
	assert.Equal(t, Stats{}, th.Stats())

	io.EXPECT().ReadInt("level").Return(int64(6), nil).Once()
	require.NoError(t, th.ReadPass())
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(6), v.Get())
}

func TestReadSyncPassDispatchesToSyncHooks(t *testing.T) {
	io := mocks.NewMockAttributeIO(t)
	th := New(Config{Clock: &fakeClock{}, IO: io})

	v := property.NewFloat(1)
	synced := 0
	mustRegister(t, th, v, "temp", property.ReadWrite).OnSync(func(p *property.Property) {
		synced++
		assert.Zero(t, p.LastCloudChange())
	})

	io.EXPECT().ReadFloat("temp").Return(3.0, nil).Once()
	require.NoError(t, th.ReadSyncPass())

	assert.Equal(t, 1, synced)
	assert.Equal(t, 1.0, v.Get(), "sync hook decides, no implicit copy")
	assert.Equal(t, Stats{Synced: 1}, th.Stats())
}

func TestWritePassWritesEveryLocalValue(t *testing.T) {
	io := mocks.NewMockAttributeIO(t)
	th := New(Config{Clock: &fakeClock{}, IO: io})

	mustRegister(t, th, property.NewBool(true), "on", property.Read)
	mustRegister(t, th, property.NewInt(-3), "count", property.Write)
	mustRegister(t, th, property.NewFloat(2.5), "ratio", property.ReadWrite)
	mustRegister(t, th, property.NewString("x"), "name", property.Read)
	mustRegister(t, th, property.NewLocation(1, 2), "loc", property.Read)

	var order []string
	track := func(name string, _ any) { order = append(order, name) }

	io.EXPECT().WriteBool("on", true).Return(nil).Run(func(n string, v bool) { track(n, v) }).Once()
	io.EXPECT().WriteInt("count", int64(-3)).Return(nil).Run(func(n string, v int64) { track(n, v) }).Once()
	io.EXPECT().WriteFloat("ratio", 2.5).Return(nil).Run(func(n string, v float64) { track(n, v) }).Once()
	io.EXPECT().WriteString("name", "x").Return(nil).Run(func(n string, v string) { track(n, v) }).Once()
	io.EXPECT().WriteFloat("loc.lat", 1.0).Return(nil).Run(func(n string, v float64) { track(n, v) }).Once()
	io.EXPECT().WriteFloat("loc.lon", 2.0).Return(errors.New("busy")).Run(func(n string, v float64) { track(n, v) }).Once()

	err := th.WritePass()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write loc.lon")
	assert.Equal(t, []string{"on", "count", "ratio", "name", "loc.lat", "loc.lon"}, order)
}

func TestPassesRequireAttributeIO(t *testing.T) {
	th, _, _ := newThing(t)
	assert.ErrorIs(t, th.ReadPass(), ErrNoAttributeIO)
	assert.ErrorIs(t, th.WritePass(), ErrNoAttributeIO)
}

func TestPassesOnEmptyContainer(t *testing.T) {
	io := mocks.NewMockAttributeIO(t)
	th := New(Config{IO: io})
	require.NoError(t, th.WritePass())
	require.NoError(t, th.ReadPass())
	io.AssertNotCalled(t, "WriteBool", mock.Anything, mock.Anything)
}
