package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MigrationSteps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "academydb", Name: "migration_steps_total",
		Help: "Migration steps by outcome (applied/skipped/failed)",
	}, []string{"status"})
	SeedErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "academydb", Name: "seed_errors_total", Help: "Seed insert errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "academydb", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(MigrationSteps, SeedErrors, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
