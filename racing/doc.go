// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package racing runs several identical HTTP operations in a "race" to
smooth over pockets of bad server response times.

Racing is caller-side: each racer is a fresh httpop.Operation created
by a factory, and Run cancels the losers as soon as one racer succeeds.
Because every racer issues its own request, racing raises costs and
load on the remote service, and it is only safe for idempotent
requests. Tune policies with real world data.

The main concepts involved in racing are:

• A racing Policy decides when to add another racer. Policy decisions
  are broken down into two steps, scheduling and starting. Each time a
  racer starts, the Policy is invoked to schedule the next one. When
  the scheduled time occurs, the Policy is again invoked to decide
  whether the scheduled racer should really start, as circumstances may
  have changed in the meantime.

• The first racer to succeed wins. Every other racer still running is
  cancelled, and Run waits for the cancelled racers to settle before
  returning, so no racer outlives the call.

• If a racer fails while no other racer is running, the race is over:
  Run returns the failed racer without waiting for any scheduled
  racer. Use package retry to start over after a failure.

Besides the Disabled policy, this package provides built-in constructors
for a scheduler and a starter. Use NewStaticScheduler to create a
scheduler based on a static offset schedule. Use NewThrottleStarter to
create a starter which can throttle racing if too many racers are being
started. Use NewPolicy to compose any scheduler and any starter into a
racing policy.
*/
package racing
