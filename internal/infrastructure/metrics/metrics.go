package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "localmart"

// Metrics colectores de la API. Cada instancia tiene su propio Registry.
type Metrics struct {
	Registry *prometheus.Registry

	ordersPlaced prometheus.Counter
	transitions  *prometheus.CounterVec
	claims       *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	relayClients prometheus.Gauge
	relayDropped prometheus.Counter
}

// New registra los colectores del dominio y los de proceso/runtime.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Pedidos creados.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Transiciones de estado aplicadas.",
		}, []string{"from", "to"}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "claims_total",
			Help:      "Intentos de tomar un pedido por resultado (won, lost).",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		}, []string{"method", "route"}),
		relayClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "connected_clients",
			Help:      "Sockets conectados al relay.",
		}),
		relayDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "dropped_frames_total",
			Help:      "Frames descartados por cola de cliente llena.",
		}),
	}
	m.Registry.MustRegister(
		m.ordersPlaced,
		m.transitions,
		m.claims,
		m.httpRequests,
		m.httpDuration,
		m.relayClients,
		m.relayDropped,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler expone el Registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderPlaced() { m.ordersPlaced.Inc() }

func (m *Metrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Claim(won bool) {
	result := "lost"
	if won {
		result = "won"
	}
	m.claims.WithLabelValues(result).Inc()
}

// ObserveHTTP route es el patrón registrado (/api/orders/:id), no la URL concreta.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	method = strings.ToUpper(method)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ClientConnected()    { m.relayClients.Inc() }
func (m *Metrics) ClientDisconnected() { m.relayClients.Dec() }
func (m *Metrics) FrameDropped()       { m.relayDropped.Inc() }
