package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cardMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardflow_card_moves_total",
		Help: "Card move attempts by outcome",
	}, []string{"result"})

	rebalances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardflow_rebalances_total",
		Help: "Position rebalances by scope",
	}, []string{"scope"})

	rebalanceSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boardflow_rebalance_items",
		Help:    "Number of items respread by one rebalance",
		Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 1000},
	})
)
