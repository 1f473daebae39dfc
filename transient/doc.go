// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies request failures by cause so that
// callbacks, event handlers and log lines can tell a timeout or a
// dropped connection apart from a permanent failure or a cancellation.
package transient
