// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xchan

import "code.hybscloud.com/atomix"

// HandleID identifies the shared state of one channel.
// The zero HandleID denotes "no handle".
type HandleID = uint32

// EventID identifies a readiness event. Runtimes and raw callers accept
// it directly; it is never zero for a live event.
type EventID = uint32

// handleCounter and eventCounter are global monotonic identity sources.
var (
	handleCounter atomix.Uint32
	eventCounter  atomix.Uint32
)

// nextHandleID returns the next monotonically increasing handle identity.
func nextHandleID() HandleID {
	return handleCounter.Add(1)
}

// nextEventID returns the next monotonically increasing event identity.
func nextEventID() EventID {
	return eventCounter.Add(1)
}
