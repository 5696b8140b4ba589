package grpc

import (
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "polls"

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

	server.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return server
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	log.Info().Str("bind", viper.GetString("grpc_bind")).Msg("Listening for grpc requests...")
	return v.srv.Serve(listener)
}

func (v *App) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
