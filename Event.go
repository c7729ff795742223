/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cwbwt

import (
	"fmt"
	"time"
)

// Event types of a build. The builder emits every type except the two
// PROGRESS types, which it does not emit. The core never prints; it only
// notifies registered Listeners, which is what the CLI's --verbose flag
// wires up to stdout.
const (
	EVT_PASS1_START    = 0 // frequency-counting pass begins
	EVT_PASS1_PROGRESS = 1 // frequency-counting pass, percent done
	EVT_PASS1_END      = 2 // frequency-counting pass ends, entropy known
	EVT_STRUCT_BUILD   = 3 // per-context dynamic strings/counters allocated
	EVT_PASS2_START    = 4 // incremental insertion pass begins
	EVT_PASS2_PROGRESS = 5 // incremental insertion pass, percent done
	EVT_BUILD_END      = 6 // build complete, peak memory known
)

// Event is a build-progress notification.
type Event struct {
	eventType int
	percent   int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates an Event that just wraps a message.
func NewEventFromString(evtType int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}
	return &Event{eventType: evtType, msg: msg, eventTime: evtTime}
}

// NewProgressEvent creates an Event reporting percent-done and a running size.
func NewProgressEvent(evtType, percent int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}
	return &Event{eventType: evtType, percent: percent, size: size, eventTime: evtTime}
}

// Type returns the event type.
func (this *Event) Type() int { return this.eventType }

// Time returns the event timestamp.
func (this *Event) Time() time.Time { return this.eventTime }

// Percent returns the percent-done payload, when applicable.
func (this *Event) Percent() int { return this.percent }

// Size returns the size payload, when applicable.
func (this *Event) Size() int64 { return this.size }

// String renders a human-readable line for the event, the way the CLI's
// verbose listener prints it.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	switch this.eventType {
	case EVT_PASS1_START:
		return "Scanning input to compute context frequencies"
	case EVT_PASS1_PROGRESS:
		return fmt.Sprintf(" %d%% done", this.percent)
	case EVT_PASS1_END:
		return "Pass 1 done"
	case EVT_STRUCT_BUILD:
		return "Creating per-context dynamic compressed strings"
	case EVT_PASS2_START:
		return "Main cw-bwt algorithm (incremental construction)"
	case EVT_PASS2_PROGRESS:
		return fmt.Sprintf(" %d%% done", this.percent)
	case EVT_BUILD_END:
		return fmt.Sprintf("Build done, peak RSS %d bytes", this.size)
	default:
		return fmt.Sprintf("event %d", this.eventType)
	}
}

// Listener is implemented by event processors. Matches kanzi's own
// Event/Listener pair (Event.go) so registering a listener feels the
// same whether you are compressing a block or building a BWT.
type Listener interface {
	ProcessEvent(evt *Event)
}
