package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/IbrahimShadi/pdf-analyzer/internal/common"
)

const requestIDHeader = "x-request-id"

// LoggingInterceptor tags each call with a request id, hands handlers a
// request-scoped logger and logs the outcome.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(requestIDHeader); len(v) > 0 {
				reqID = v[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		reqLogger := logger.With("request_id", reqID)
		ctx = common.WithRequestID(ctx, reqID)
		ctx = common.WithLogger(ctx, reqLogger)

		resp, err := handler(ctx, req)
		err = common.ToStatus(err)

		attrs := []any{"method", info.FullMethod, "duration_ms", time.Since(start).Milliseconds()}
		if err != nil {
			st, _ := status.FromError(err)
			reqLogger.Warn("rpc failed", append(attrs, "code", st.Code().String(), "error", st.Message())...)
		} else {
			reqLogger.Info("rpc ok", attrs...)
		}
		return resp, err
	}
}
