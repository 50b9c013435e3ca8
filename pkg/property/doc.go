// Package property implements the per-property synchronization state of
// a device agent.
//
// A Property wraps one typed Value and mirrors it against a remote copy
// (the "cloud" value). On every poll the owner asks ShouldBeUpdated
// whether the local value has to be transmitted:
//
//	1. a property that was never published is always sent
//	2. a change made from inside an update callback forces one extra pass
//	3. PolicyOnChange sends when the value moved by at least MinDelta and
//	   MinInterval has elapsed since the last publish
//	4. PolicyTimeInterval sends every Interval regardless of the value
//	5. PolicyNone never sends on its own
//
// # Values
//
// Values keep two copies, local and cloud. Bool, Int, Float and String
// are primitive leaves; Location is a composite whose attributes are
// addressed individually.
//
// # Reconnection Sync
//
// After a reconnect the remote side replays its last known values. For
// those updates the property runs its OnSync hook instead of OnUpdate.
// MostRecentWins, CloudWins and DeviceWins are the stock hooks.
//
// # Clocks
//
// Scheduling uses the monotonic millisecond counter of a Clock. Local
// change timestamps use its wall-clock epoch when one is available;
// without one they stay 0 and MostRecentWins degrades to "cloud wins
// whenever the cloud has a timestamp".
package property
