package grpc

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type App struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}

	healthpb.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	// Nothing is served until the first probe succeeds.
	server.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return server
}

// Probe refreshes the serving status from the ping result.
func (v *App) Probe(ctx context.Context, ping func(ctx context.Context) error) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health probe failed, reporting not serving...")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	v.health.SetServingStatus("", status)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.srv.Serve(listener)
}

func (v *App) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
