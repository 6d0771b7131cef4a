package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "histoplot"

var (
	counterRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Number of histogram renders, by result.",
		},
		[]string{"result"},
	)

	counterRecolors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recolors_total",
			Help:      "Number of histogram recolors, by result.",
		},
		[]string{"result"},
	)

	histogramBars = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bars",
			Help:      "Number of bars per rendered histogram.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	gaugeSurfaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "surfaces",
			Help:      "Number of surfaces holding a drawn histogram.",
		},
	)

	gaugeClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected websocket clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(counterRenders)
	prometheus.MustRegister(counterRecolors)
	prometheus.MustRegister(histogramBars)
	prometheus.MustRegister(gaugeSurfaces)
	prometheus.MustRegister(gaugeClients)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func Rendered(bars int, err error) {
	counterRenders.WithLabelValues(result(err)).Inc()
	if err == nil {
		histogramBars.Observe(float64(bars))
	}
}

func Recolored(err error) {
	counterRecolors.WithLabelValues(result(err)).Inc()
}

func SetSurfaces(n int) {
	gaugeSurfaces.Set(float64(n))
}

func SetClients(n int) {
	gaugeClients.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
