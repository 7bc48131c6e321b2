// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when neither an HTTP
// nor a gRPC address is provided in the server configuration, so no
// transport handler gets initialized. A daemon without a single listener
// cannot serve anything, so this is fatal at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
