// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	uperrors "github.com/scc-digitalhub/s3-uploads-sdk/sdk/errors"
)

const namespace = "s3_uploads"

const (
	SourceFile = "file"
	SourceURL  = "url"
	OutcomeOK  = "ok"
)

// Recorder exports upload counters. A nil Recorder records nothing.
type Recorder struct {
	uploads  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytes    prometheus.Counter
}

// NewRecorder registers the upload collectors on reg, or the default
// registerer when nil. Collectors already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads by source kind and outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Upload latency from request to stored object.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to object storage.",
		}),
	}

	if err := register(reg, &r.uploads); err != nil {
		return nil, err
	}
	if err := register(reg, &r.duration); err != nil {
		return nil, err
	}
	if err := register(reg, &r.bytes); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("register upload metric: %w", err)
	}
	return nil
}

// Observe records one finished upload.
func (r *Recorder) Observe(source string, started time.Time, size int, err error) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(source).Observe(time.Since(started).Seconds())
	if err != nil {
		r.uploads.WithLabelValues(source, uperrors.KindOf(err).String()).Inc()
		return
	}
	r.uploads.WithLabelValues(source, OutcomeOK).Inc()
	r.bytes.Add(float64(size))
}

// Uploads exposes the counter for a source/outcome pair.
func (r *Recorder) Uploads(source, outcome string) prometheus.Counter {
	return r.uploads.WithLabelValues(source, outcome)
}

// Bytes exposes the uploaded bytes counter.
func (r *Recorder) Bytes() prometheus.Counter {
	return r.bytes
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
