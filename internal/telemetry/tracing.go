package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// 終了処理
type ShutdownFunc func(ctx context.Context) error

// トレースの出力先を設定する。
// 無効のときは何もしない（グローバルはnoopのまま）。
func Setup(enabled bool, w io.Writer) (ShutdownFunc, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// 外部API用のクライアント（トレース付き）。timeout<=0 は無し
func NewHTTPClient(timeout time.Duration) *http.Client {
	c := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return c
}
