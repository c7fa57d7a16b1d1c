// Copyright (c) 2026 Clay Companion. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// StatSource is satisfied by [*pgxpool.Pool].
type StatSource interface {
	Stat() *pgxpool.Stat
}

// StatsCollector reads pool statistics at scrape time.
type StatsCollector struct {
	source StatSource

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	max      *prometheus.Desc
	waits    *prometheus.Desc
}

// NewStatsCollector builds a collector for source. Register it once.
func NewStatsCollector(source StatSource) *StatsCollector {
	name := func(metric string) string {
		return prometheus.BuildFQName("claycompanion", "studio_api", "db_pool_"+metric)
	}
	return &StatsCollector{
		source:   source,
		acquired: prometheus.NewDesc(name("acquired_conns"), "Connections currently checked out", nil, nil),
		idle:     prometheus.NewDesc(name("idle_conns"), "Idle connections", nil, nil),
		total:    prometheus.NewDesc(name("total_conns"), "Open connections", nil, nil),
		max:      prometheus.NewDesc(name("max_conns"), "Configured connection limit", nil, nil),
		waits:    prometheus.NewDesc(name("empty_acquire_total"), "Acquires that had to wait for a connection", nil, nil),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.waits
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.source.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(stat.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(stat.EmptyAcquireCount()))
}
