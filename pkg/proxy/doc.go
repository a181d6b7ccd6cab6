// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package proxy provides the single-route streaming proxy of the edge
// gateway. Requests to /sse are authenticated with the client's account
// token, re-issued upstream with a bearer credential and the configured
// tenant header, and the upstream event stream is relayed back unmodified.
package proxy
