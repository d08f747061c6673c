package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"gatepass-nexus/backend/config"
)

// ShutdownFunc 刷新并关闭链路追踪导出器
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup 初始化 OpenTelemetry 链路追踪
// 未配置 OTLP 端点时返回空操作，初始化失败只记录日志不阻断启动
func Setup(ctx context.Context, cfg *config.TelemetryConfig, logger *zap.Logger) ShutdownFunc {
	if cfg.OTLPEndpoint == "" {
		logger.Info("未配置 OTLP 端点，链路追踪已关闭")
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		logger.Error("创建 OTLP 导出器失败", zap.Error(err))
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		logger.Warn("创建链路追踪资源失败", zap.Error(err))
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info("链路追踪已启用", zap.String("endpoint", cfg.OTLPEndpoint))
	return provider.Shutdown
}
