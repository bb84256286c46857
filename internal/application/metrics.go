package application

import "expvar"

// Counters exposed on /api/debug/vars.
var (
	loginMetrics   = expvar.NewMap("auth_logins")
	shopMetrics    = expvar.NewMap("shops")
	productMetrics = expvar.NewMap("products")
)
