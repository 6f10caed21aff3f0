// Package grpc runs the storefront's gRPC health endpoint
// (grpc.health.v1.Health) next to the HTTP API, for load balancers and
// orchestrators that probe over gRPC. The reported status follows a
// Checker, normally the store's Ping:
//
//	srv := grpc.New(store.Ping, 15*time.Second)
//	go srv.Serve(ctx, lis)
package grpc

import (
	"context"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Service is the health service name reported besides the overall ("") one.
const Service = "storefront"

// Checker reports whether the application's dependencies are reachable.
type Checker func(ctx context.Context) error

// Server is the gRPC health server.
type Server struct {
	srv      *grpc.Server
	health   *health.Server
	check    Checker
	interval time.Duration
}

// New builds the server. A nil check always reports SERVING.
func New(check Checker, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	s := &Server{
		srv: grpc.NewServer(
			grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
			grpc.MaxRecvMsgSize(1<<20),
		),
		health:   health.NewServer(),
		check:    check,
		interval: interval,
	}
	grpc_health_v1.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	return s
}

// Probe runs the checker once and publishes the result.
func (s *Server) Probe(ctx context.Context) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if s.check != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.check(ctx); err != nil {
			logger.Warn("grpc: health check failed", "error", err)
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(Service, st)
}

// Serve probes on every interval and serves lis until ctx is cancelled,
// then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.Probe(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.health.Shutdown()
				s.srv.GracefulStop()
				return
			case <-ticker.C:
				s.Probe(ctx)
			}
		}
	}()

	logger.Info("grpc: health server listening", "addr", lis.Addr().String())
	if err := s.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	metrics.GRPCHandled.WithLabelValues(info.FullMethod, code.String()).Inc()
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}
