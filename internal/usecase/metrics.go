package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed successfully",
	})

	ordersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Orders cancelled (stock released)",
	})

	reservationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reservation_failures_total",
		Help: "Order creations aborted by an insufficient stock reservation",
	})
)
