package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for kafka_producer_writes_total.
const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	producerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_producer_writes_total",
		Help: "Kafka writes by topic and result (ok, error).",
	}, []string{"topic", "result"})

	producerWriteSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_producer_write_duration_seconds",
		Help:    "Latency of a single Kafka write, including retries inside the writer.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"topic"})
)

func observeWrite(topic string, seconds float64, err error) {
	producerWriteSeconds.WithLabelValues(topic).Observe(seconds)
	result := resultOK
	if err != nil {
		result = resultError
	}
	producerWrites.WithLabelValues(topic, result).Inc()
}
