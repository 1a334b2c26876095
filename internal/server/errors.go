// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package server

import "errors"

var (
	errNoServersAreCreated = errors.New("no servers are created")
)
