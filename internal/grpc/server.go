// internal/grpc/server.go
package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName имя сервиса в протоколе grpc.health.v1.
const ServiceName = "filmorate"

// Pinger проверка доступности базы данных.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server gRPC сервер со стандартным health-сервисом и reflection.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer создает сервер. До вызова SetServing(true) оба статуса NOT_SERVING.
func NewServer(logger *slog.Logger) *Server {
	hs := health.NewServer()
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{srv: srv, health: hs, logger: logger}
	s.SetServing(false)
	return s
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// SetServing переключает статус всего сервера и сервиса filmorate.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// WatchDB периодически пингует базу и отражает результат в статусе здоровья.
// Возвращается при отмене ctx.
func (s *Server) WatchDB(ctx context.Context, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			err := db.PingContext(pingCtx)
			cancel()
			if ok := err == nil; ok != serving {
				serving = ok
				s.SetServing(ok)
				if ok {
					s.logger.InfoContext(ctx, "Database reachable again, gRPC health SERVING")
				} else {
					s.logger.ErrorContext(ctx, "Database unreachable, gRPC health NOT_SERVING", slog.String("error", err.Error()))
				}
			}
		}
	}
}

// GracefulStop переводит health в NOT_SERVING и дожидается завершения активных вызовов.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.WarnContext(ctx, "gRPC call failed", append(attrs, slog.String("error", err.Error()))...)
		} else {
			logger.DebugContext(ctx, "gRPC call handled", attrs...)
		}
		return resp, err
	}
}
