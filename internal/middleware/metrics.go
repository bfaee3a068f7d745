package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// Metrics returns the shared HTTP metrics collector. Collectors register with
// the default Prometheus registry exactly once per process.
func Metrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// RegisterMetrics mounts the request metrics middleware and the /metrics endpoint on app.
func RegisterMetrics(app *fiber.App, serviceName string) {
	p := Metrics(serviceName)
	p.RegisterAt(app, "/metrics")
	app.Use(p.Middleware)
}
