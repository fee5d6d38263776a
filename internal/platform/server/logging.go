package server

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingUnaryInterceptor は失敗した呼び出しをメソッド名、ステータスコード、処理時間とともに記録します。
func LoggingUnaryInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = log.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		if code := status.Code(err); code != codes.OK {
			logger.Printf("grpc method=%s code=%s duration=%s error=%q", info.FullMethod, code, time.Since(start).Round(time.Microsecond), status.Convert(err).Message())
		}
		return resp, err
	}
}
