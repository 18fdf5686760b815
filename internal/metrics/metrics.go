// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやハンドラーから利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordUserRegistered(tokenIssued bool)
	RecordMealCreated(onTheDiet bool)
	RecordMealDeleted()
	RecordRateLimited(limiter string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	usersRegistered *prometheus.CounterVec
	mealsCreated    *prometheus.CounterVec
	mealsDeleted    prometheus.Counter
	rateLimited     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_http_requests_total",
			Help: "HTTPリクエスト数（メソッド・ルート・ステータスコード別）",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dailydiet_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}, []string{"token_issued"}),
		mealsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_meals_created_total",
			Help: "記録された食事の合計数",
		}, []string{"on_the_diet"}),
		mealsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_meals_deleted_total",
			Help: "削除された食事の合計数",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_rate_limited_total",
			Help: "レート制限で拒否されたリクエスト数",
		}, []string{"limiter"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.usersRegistered,
		c.mealsCreated,
		c.mealsDeleted,
		c.rateLimited,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの件数と処理時間を記録する。
// routeにはURLパスではなくルートパターンを渡し、ラベルの濃度を抑える。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered(tokenIssued bool) {
	c.usersRegistered.WithLabelValues(strconv.FormatBool(tokenIssued)).Inc()
}

// RecordMealCreated は食事の記録を記録する。
func (c *Collector) RecordMealCreated(onTheDiet bool) {
	c.mealsCreated.WithLabelValues(strconv.FormatBool(onTheDiet)).Inc()
}

// RecordMealDeleted は食事の削除を記録する。
func (c *Collector) RecordMealDeleted() {
	c.mealsDeleted.Inc()
}

// RecordRateLimited はレート制限による拒否を記録する。
func (c *Collector) RecordRateLimited(limiter string) {
	c.rateLimited.WithLabelValues(limiter).Inc()
}

// Handler は/metricsで公開するPrometheusスクレイプ用のHTTPハンドラーを返す。
// 収集エラーはslog経由で記録し、取得できたメトリクスのみを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:      slogErrorLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// slogErrorLogger はpromhttp.Loggerをslogへ橋渡しする。
type slogErrorLogger struct{}

func (slogErrorLogger) Println(v ...interface{}) {
	slog.Error("metrics gathering failed", slog.String("error", fmt.Sprint(v...)))
}

// NopCollector は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, time.Duration) {}
func (NopCollector) RecordUserRegistered(bool)                            {}
func (NopCollector) RecordMealCreated(bool)                               {}
func (NopCollector) RecordMealDeleted()                                   {}
func (NopCollector) RecordRateLimited(string)                             {}
