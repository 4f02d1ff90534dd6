// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import "github.com/rs/zerolog"

// discardLog returns a Logger that drops every event, for tests that need
// a Context but don't care about its log output.
func discardLog() zerolog.Logger { return zerolog.Nop() }

// newTestVehicle returns an empty Vehicle with a no-op Context, the usual
// starting point for this package's tests.
func newTestVehicle() *Vehicle {
	return New(NewContext(discardLog(), nil, nil))
}
