// Package clock makes wall time stubbable so that elapsed time reported by
// the gateway and the tool surface can be asserted in tests.
package clock

import "time"

// NowFunc returns current time, tests may replace it.
var NowFunc = time.Now

// Now returns NowFunc()
func Now() time.Time { return NowFunc() }

// Since returns time elapsed from t according to NowFunc
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
