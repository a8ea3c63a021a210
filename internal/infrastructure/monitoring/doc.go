/*
Package monitoring provides Prometheus metrics for the deskpilot daemon.

Tracks HTTP requests, window-manager call latency and timeouts, circuit
breaker state, activation and recovery outcomes, and WebSocket connections.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
