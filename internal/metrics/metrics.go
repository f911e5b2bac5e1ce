package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boardroom_connections",
		Help: "Open websocket connections.",
	})

	Rooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boardroom_rooms",
		Help: "Registered rooms.",
	})

	RoomsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardroom_rooms_created_total",
		Help: "Rooms created since start, by game type.",
	}, []string{"game_type"})

	MovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardroom_moves_total",
		Help: "Accepted moves since start, by game type.",
	}, []string{"game_type"})
)
