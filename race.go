// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package barrier

// RaceEnabled is true when the race detector is active. Used by tests
// to skip stress tests relying on atomic-only synchronization (no
// mutex/channel the race detector can see), which trigger false
// positives under -race.
const RaceEnabled = true
